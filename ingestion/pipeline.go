package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/paperit/ai"
	"github.com/poiesic/paperit/core"
	"github.com/poiesic/paperit/pdftext"
	"github.com/poiesic/paperit/storage"
)

// Document pairs a paper's bibliographic metadata with its raw extracted
// text, ready for segmentation.
type Document struct {
	Meta core.DocumentMeta
	Text string
}

// Report summarizes a batch ingestion run. Failures maps document IDs to
// the error that stopped them; other documents were stored fully.
type Report struct {
	Documents int
	Chunks    int
	Failures  map[string]error
}

// ProgressFunc is invoked after each document in a batch finishes, whether
// it succeeded or failed.
type ProgressFunc func(docID string, chunks int, err error)

// Pipeline orchestrates paper ingestion: segmentation, chunking, batch
// embedding, and idempotent storage. Documents in a batch are processed
// concurrently on a worker pool; failures are isolated per document.
type Pipeline struct {
	store     storage.VectorStore
	embedder  ai.Embedder
	extractor ai.IntelligenceExtractor
	segmenter *Segmenter
	chunker   *Chunker
	pool      *ants.Pool
	progress  ProgressFunc
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document
// processing. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingestion")
		return nil
	}
}

// WithSegmenter replaces the default section segmenter.
func WithSegmenter(s *Segmenter) Option {
	return func(p *Pipeline) error {
		if s != nil {
			p.segmenter = s
		}
		return nil
	}
}

// WithChunker replaces the default adaptive chunker.
func WithChunker(c *Chunker) Option {
	return func(p *Pipeline) error {
		if c != nil {
			p.chunker = c
		}
		return nil
	}
}

// WithExtractor enables the section intelligence stage: key sections are
// analyzed before chunking and the findings are attached to every chunk of
// the section. Nil leaves the stage off.
func WithExtractor(ex ai.IntelligenceExtractor) Option {
	return func(p *Pipeline) error {
		p.extractor = ex
		return nil
	}
}

// WithProgress registers a per-document completion callback for batch runs.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) error {
		p.progress = fn
		return nil
	}
}

// NewPipeline creates an ingestion pipeline writing to the given store.
func NewPipeline(store storage.VectorStore, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:     store,
		embedder:  embedder,
		segmenter: NewDefaultSegmenter(),
		chunker:   NewDefaultChunker(),
		pool:      pool,
		logger:    slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// IngestDocument runs the full pipeline on one document: segment, chunk,
// embed, store. Returns the number of chunks stored. Re-ingesting the same
// document overwrites the previous chunks in place.
func (p *Pipeline) IngestDocument(ctx context.Context, doc Document) (int, error) {
	if err := core.ValidateDocumentMeta(&doc.Meta); err != nil {
		return 0, err
	}

	sections := p.segmenter.Segment(doc.Text)
	intel := p.extractIntelligence(ctx, doc.Meta.DocID, sections)
	chunks := p.chunker.Chunk(sections, doc.Meta)
	if len(chunks) == 0 {
		// A document whose text is all noise or under the minimum chunk
		// size stores nothing; that is a degenerate result, not a failure.
		p.logger.Warn("document produced no chunks", "doc_id", doc.Meta.DocID)
		return 0, nil
	}
	annotateChunks(chunks, intel)

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed document %s: %w", doc.Meta.DocID, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: %d vectors for %d chunks", ErrEmbeddingMismatch, len(vectors), len(chunks))
	}

	refs := make([]*core.Chunk, len(chunks))
	for i := range chunks {
		chunks[i].Vector = vectors[i]
		refs[i] = &chunks[i]
	}

	if err := p.store.Upsert(ctx, refs...); err != nil {
		return 0, fmt.Errorf("store document %s: %w", doc.Meta.DocID, err)
	}

	p.logger.Info("ingested document",
		"doc_id", doc.Meta.DocID,
		"sections", len(sections),
		"chunks", len(chunks))
	return len(chunks), nil
}

// Sections worth an intelligence pass; the rest carry little auditable
// signal relative to the cost of an LLM call.
var extractableSections = map[string]bool{
	core.SectionIntroduction: true,
	core.SectionMethodology:  true,
	core.SectionResults:      true,
	core.SectionDiscussion:   true,
	core.SectionConclusion:   true,
}

// extractIntelligence runs the optional intelligence stage over key
// sections. Extraction is an enrichment: a failed or skipped section never
// blocks ingestion of the document.
func (p *Pipeline) extractIntelligence(ctx context.Context, docID string, sections []core.Section) map[string]*ai.Intelligence {
	if p.extractor == nil {
		return nil
	}

	intel := make(map[string]*ai.Intelligence)
	for _, section := range sections {
		if !extractableSections[section.Name] {
			continue
		}
		result, err := p.extractor.ExtractIntelligence(ctx, section.Name, section.Text)
		if err != nil {
			p.logger.Warn("intelligence extraction failed",
				"doc_id", docID, "section", section.Name, "err", err)
			continue
		}
		if result != nil {
			intel[section.Name] = result
		}
	}
	return intel
}

// annotateChunks attaches a section's extracted intelligence to each of its
// chunks as flat metadata entries.
func annotateChunks(chunks []core.Chunk, intel map[string]*ai.Intelligence) {
	for i := range chunks {
		result := intel[chunks[i].Section]
		if result == nil {
			continue
		}
		if chunks[i].Metadata == nil {
			chunks[i].Metadata = make(map[string]string)
		}

		m := chunks[i].Metadata
		m["trl"] = strconv.Itoa(result.TRL.Level)
		m["trl_justification"] = result.TRL.Justification
		m["contradictions"] = strings.Join(result.Contradictions, "|")

		entities := "[]"
		if len(result.Entities) > 0 {
			if data, err := json.Marshal(result.Entities); err == nil {
				entities = string(data)
			}
		}
		m["entities"] = entities
	}
}

// IngestPDF extracts text from a PDF file and ingests it.
func (p *Pipeline) IngestPDF(ctx context.Context, meta core.DocumentMeta, path string) (int, error) {
	text, err := pdftext.ExtractText(path)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", path, err)
	}
	return p.IngestDocument(ctx, Document{Meta: meta, Text: text})
}

// IngestBatch processes documents concurrently on the worker pool. One
// document failing does not stop the others; failures are collected in the
// report keyed by document ID.
func (p *Pipeline) IngestBatch(ctx context.Context, docs []Document) Report {
	report := Report{Failures: make(map[string]error)}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, doc := range docs {
		doc := doc
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			n, err := p.IngestDocument(ctx, doc)

			mu.Lock()
			if err != nil {
				report.Failures[doc.Meta.DocID] = err
			} else {
				report.Documents++
				report.Chunks += n
			}
			mu.Unlock()

			if err != nil {
				p.logger.Error("document ingestion failed", "doc_id", doc.Meta.DocID, "err", err)
			}
			if p.progress != nil {
				p.progress(doc.Meta.DocID, n, err)
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.Failures[doc.Meta.DocID] = submitErr
			mu.Unlock()
		}
	}

	wg.Wait()
	return report
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
