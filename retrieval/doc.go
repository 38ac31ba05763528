// Package retrieval implements hybrid retrieval over stored paper chunks.
//
// A query is embedded, an over-sampled candidate set is fetched from the
// vector store by distance, and each candidate is re-ranked by a blend of
// four sub-scores: semantic similarity, structural section importance
// (with bonuses for taxonomy passages and tables), publication recency,
// and a per-document diversity penalty computed in retrieval order.
package retrieval
