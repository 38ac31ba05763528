// Package reembed regenerates the embedding vectors of every stored chunk.
//
// It exists for model migration: when the embedding model changes, stored
// vectors become incomparable with new query vectors. The reembedder walks
// the whole corpus in batches, embeds each chunk's text with the new model,
// normalizes the vectors, and upserts them under the unchanged chunk ids,
// so no PDF has to be re-ingested.
package reembed
