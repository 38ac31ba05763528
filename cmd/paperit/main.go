// Copyright 2025 The Poiesic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/paperit"
	"github.com/poiesic/paperit/ai"
	"github.com/poiesic/paperit/ai/openai"
	"github.com/poiesic/paperit/core"
	"github.com/poiesic/paperit/ingestion"
	"github.com/poiesic/paperit/pdftext"
	"github.com/poiesic/paperit/qa"
	"github.com/poiesic/paperit/reembed"
	"github.com/poiesic/paperit/storage"
	"github.com/poiesic/paperit/storage/badger"
	"github.com/poiesic/paperit/zotero"
)

func main() {
	app := &cli.App{
		Name:  "paperit",
		Usage: "Retrieval pipeline for academic PDF papers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a folder of PDFs with paired metadata JSON files",
				ArgsUsage: "<folder>",
				Action:    ingestCommand,
				Flags: append(libraryFlags(),
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of documents to process concurrently",
						Value: 2,
					},
					&cli.BoolFlag{
						Name:  "intel",
						Usage: "Extract section intelligence (TRL, entities, limitations) while ingesting",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the indexed corpus",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(libraryFlags(),
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   10,
					},
					&cli.StringFlag{
						Name:  "section",
						Usage: "Restrict to one canonical section (e.g. Methodology)",
					},
					&cli.IntFlag{
						Name:  "year-from",
						Usage: "Restrict to papers published in or after this year",
					},
					&cli.IntFlag{
						Name:  "year-to",
						Usage: "Restrict to papers published in or before this year",
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a question over the indexed corpus",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(libraryFlags(),
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of candidates to retrieve before context selection",
						Value:   10,
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Show corpus statistics",
				Action: statsCommand,
				Flags:  dbFlags(),
			},
			{
				Name:      "delete",
				Usage:     "Remove every chunk of a document from the corpus",
				ArgsUsage: "<doc-id>",
				Action:    deleteCommand,
				Flags:     dbFlags(),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all stored chunks with a new embedding model",
				Action: reembedCommand,
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "sync",
				Usage:  "Pull a Zotero collection and ingest its PDFs",
				Action: syncCommand,
				Flags: append(libraryFlags(),
					&cli.StringFlag{
						Name:     "zotero-config",
						Usage:    "Path to the Zotero YAML config",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Slash-joined collection path (e.g. Projects/Trust Review)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "download-dir",
						Usage: "Directory for downloaded PDFs (default: temp dir)",
					},
					&cli.BoolFlag{
						Name:  "intel",
						Usage: "Extract section intelligence (TRL, entities, limitations) while ingesting",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
	}
}

func libraryFlags() []cli.Flag {
	return append(dbFlags(),
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "nomic-embed-text",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Generator model name",
			Value: "llama3",
		},
	)
}

func openLibrary(c *cli.Context) (*paperit.Library, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return paperit.OpenLibrary(c.String("db"), paperit.WithAIConfig(aiConfig))
}

// paperMeta is the metadata JSON written alongside each PDF, one file per
// paper with the same basename.
type paperMeta struct {
	ZoteroKey        string   `json:"zotero_key"`
	Title            string   `json:"title"`
	Authors          []string `json:"authors"`
	Year             int      `json:"year"`
	Journal          string   `json:"journal"`
	DOI              string   `json:"doi"`
	RootCollection   string   `json:"root_collection"`
	ResearchQuestion string   `json:"research_question"`
}

func (m paperMeta) toDocumentMeta() core.DocumentMeta {
	return core.DocumentMeta{
		DocID:            m.ZoteroKey,
		Title:            m.Title,
		Authors:          strings.Join(m.Authors, ", "),
		Year:             m.Year,
		Journal:          m.Journal,
		DOI:              m.DOI,
		Collection:       m.RootCollection,
		ResearchQuestion: m.ResearchQuestion,
	}
}

func loadPaperMeta(path string) (core.DocumentMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.DocumentMeta{}, err
	}
	var meta paperMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return core.DocumentMeta{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return meta.toDocumentMeta(), nil
}

func ingestCommand(c *cli.Context) error {
	folder := c.Args().First()
	if folder == "" {
		return fmt.Errorf("folder argument is required")
	}

	pdfDir := filepath.Join(folder, "pdfs")
	metaDir := filepath.Join(folder, "metadata")

	entries, err := os.ReadDir(pdfDir)
	if err != nil {
		return fmt.Errorf("read %s: %w", pdfDir, err)
	}

	var docs []ingestion.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ".pdf")
		metaPath := filepath.Join(metaDir, base+".json")

		meta, err := loadPaperMeta(metaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Metadata not found for %s, skipping (%v)\n", entry.Name(), err)
			continue
		}

		text, err := pdftext.ExtractText(filepath.Join(pdfDir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Extraction failed for %s, skipping (%v)\n", entry.Name(), err)
			continue
		}
		docs = append(docs, ingestion.Document{Meta: meta, Text: text})
	}

	if len(docs) == 0 {
		return fmt.Errorf("no ingestible PDFs found under %s", pdfDir)
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	bar := progressbar.Default(int64(len(docs)), "ingesting")
	opts := []ingestion.Option{
		ingestion.WithPoolSize(c.Int("pool-size")),
		ingestion.WithProgress(func(_ string, _ int, _ error) {
			bar.Add(1)
		}),
	}
	if c.Bool("intel") {
		opts = append(opts, ingestion.WithExtractor(lib.Provider().IntelligenceExtractor()))
	}
	pipeline, err := lib.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report := pipeline.IngestBatch(context.Background(), docs)
	bar.Finish()

	fmt.Printf("Ingested %d documents (%d chunks)\n", report.Documents, report.Chunks)
	for docID, err := range report.Failures {
		fmt.Fprintf(os.Stderr, "Failed %s: %v\n", docID, err)
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("%d documents failed", len(report.Failures))
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	retriever, err := lib.NewRetriever()
	if err != nil {
		return err
	}

	var filter *storage.Filter
	if c.String("section") != "" || c.Int("year-from") != 0 || c.Int("year-to") != 0 {
		filter = &storage.Filter{
			Section:  c.String("section"),
			YearFrom: c.Int("year-from"),
			YearTo:   c.Int("year-to"),
		}
	}

	results, err := retriever.Retrieve(context.Background(), query, c.Int("top-k"), filter)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%2d. [%.3f] %s (%d) — %s\n", i+1, r.FinalScore, r.Chunk.Title, r.Chunk.Year, r.Chunk.Section)
		fmt.Printf("    doc=%s sem=%.3f struct=%.2f rec=%.2f div=%.2f dist=%.4f\n",
			r.Chunk.DocID, r.Semantic, r.Structural, r.Recency, r.Diversity, r.Distance)
		fmt.Printf("    %s\n", firstLine(r.Chunk.Text, 160))
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	if question == "" {
		return fmt.Errorf("question argument is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	engine, err := lib.NewQAEngine(qa.WithTopK(c.Int("top-k")))
	if err != nil {
		return err
	}

	answer, err := engine.Ask(context.Background(), question, nil)
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, s := range answer.Sources {
			fmt.Printf("  [%s - %s] %s (%d), score %.3f\n", s.DocID, s.Section, s.Title, s.Year, s.Score)
		}
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	backend, store, err := openStore(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()

	count, err := store.Count(context.Background())
	if err != nil {
		return err
	}

	docs := make(map[string]int)
	sections := make(map[string]int)
	err = store.IterateChunks(context.Background(), func(chunk *core.Chunk) error {
		docs[chunk.DocID]++
		sections[chunk.Section]++
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Chunks:    %d\n", count)
	fmt.Printf("Documents: %d\n", len(docs))
	fmt.Println("Sections:")
	for name, n := range sections {
		fmt.Printf("  %-20s %d\n", name, n)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	docID := c.Args().First()
	if docID == "" {
		return fmt.Errorf("doc-id argument is required")
	}

	backend, store, err := openStore(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := store.DeleteDocument(context.Background(), docID); err != nil {
		return err
	}
	fmt.Printf("Deleted document %s\n", docID)
	return nil
}

func reembedCommand(c *cli.Context) error {
	backend, store, err := openStore(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := reembed.NewReembedder(store, embedder, reembedConfig, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n\n", c.String("embedding-model"))

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func syncCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := zotero.LoadConfig(c.String("zotero-config"))
	if err != nil {
		return err
	}
	client, err := zotero.NewClient(cfg)
	if err != nil {
		return err
	}

	collections, err := client.Collections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	collectionKey, err := zotero.FindCollection(c.String("collection"), collections)
	if err != nil {
		return err
	}

	items, err := client.Items(ctx, collectionKey)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("Collection is empty.")
		return nil
	}

	downloadDir := c.String("download-dir")
	if downloadDir == "" {
		downloadDir, err = os.MkdirTemp("", "paperit-sync-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(downloadDir)
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	var opts []ingestion.Option
	if c.Bool("intel") {
		opts = append(opts, ingestion.WithExtractor(lib.Provider().IntelligenceExtractor()))
	}
	pipeline, err := lib.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	bar := progressbar.Default(int64(len(items)), "syncing")
	ingested, failed := 0, 0

	for _, item := range items {
		bar.Add(1)

		pdfs, err := client.PDFAttachments(ctx, item.Key)
		if err != nil || len(pdfs) == 0 {
			fmt.Fprintf(os.Stderr, "No PDF for %s (%s)\n", item.Key, item.Data.Title)
			continue
		}

		path, err := client.DownloadPDF(ctx, pdfs[0], downloadDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Download failed for %s: %v\n", item.Key, err)
			failed++
			continue
		}

		meta := zotero.ExtractMeta(item, c.String("collection"))
		if _, err := pipeline.IngestPDF(ctx, meta, path); err != nil {
			fmt.Fprintf(os.Stderr, "Ingestion failed for %s: %v\n", item.Key, err)
			failed++
			continue
		}
		ingested++
	}
	bar.Finish()

	fmt.Printf("Synced %d of %d items (%d failed)\n", ingested, len(items), failed)
	if failed > 0 {
		return fmt.Errorf("%d items failed", failed)
	}
	return nil
}

func openStore(dbPath string) (*badger.Backend, *badger.ChunkStore, error) {
	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	store, err := badger.NewChunkStore(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return backend, store, nil
}

func firstLine(text string, limit int) string {
	if i := strings.Index(text, "\n"); i >= 0 {
		text = text[i+1:]
	}
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) > limit {
		text = text[:limit] + "…"
	}
	return text
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
