// Package ingestion turns raw paper text into stored, embedded chunks.
//
// The pipeline has three stages. The Segmenter scans extracted text line by
// line and splits it into canonical sections (Abstract, Methodology, ...),
// cleaning PDF artifacts as it flushes each section. The Chunker splits each
// section into bounded chunks using per-section target sizes, raising the
// size limit when taxonomy-describing passages must stay whole, and seeding
// each new chunk with sentence-level overlap from the previous one. The
// Pipeline then embeds chunk texts in batches and upserts them into the
// vector store; chunk ids are deterministic, so re-ingestion is idempotent.
package ingestion
