// Copyright 2025 Calyptra Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/calyptra/loom"
	"github.com/calyptra/loom/ai"
	"github.com/calyptra/loom/backfill"
	"github.com/calyptra/loom/core"
	"github.com/calyptra/loom/fingerprint"
)

func main() {
	app := &cli.App{
		Name:  "loom",
		Usage: "Document ingestion preprocessor: dedup, chunking, and concept graph extraction",
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
				Usage:     "Ingest text files into the knowledge base",
				ArgsUsage: "FILE...",
				Action:    ingestCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "no-ai",
						Usage: "Disable generative extraction and chunk embeddings",
					},
				),
			},
			{
				Name:      "fingerprint",
				Usage:     "Print the dedup fingerprint of a text file",
				ArgsUsage: "FILE",
				Action:    fingerprintCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embedding vectors for all stored chunks",
				Action: reembedCommand,
				Flags: append(backfillFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
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
				),
			},
			{
				Name:   "reextract",
				Usage:  "Re-run concept extraction over all stored documents and rebuild the graph",
				Action: reextractCommand,
				Flags: append(append(aiFlags(), backfillFlags()...),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "no-ai",
						Usage: "Use statistical and rule-based extraction only",
					},
					&cli.BoolFlag{
						Name:  "purge",
						Usage: "Delete all existing entities before rebuilding",
					},
					&cli.IntFlag{
						Name:  "max-concepts",
						Usage: "Maximum concepts kept per document",
						Value: 25,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "generator-host",
			Usage: "Text-generation service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Text-generation model name",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL (defaults to generator-host)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

func backfillFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of documents to process in each batch",
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N documents",
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
	}
}

func openOptions(c *cli.Context) []loom.KnowledgeBaseOption {
	if c.Bool("no-ai") {
		return []loom.KnowledgeBaseOption{loom.WithoutAI()}
	}

	embeddingHost := c.String("embedding-host")
	if embeddingHost == "" {
		embeddingHost = c.String("generator-host")
	}
	config := ai.NewConfig(
		ai.WithGeneratorHost(c.String("generator-host")),
		ai.WithGeneratorModel(c.String("generator-model")),
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	return []loom.KnowledgeBaseOption{loom.WithAIConfig(config)}
}

func backfillConfig(c *cli.Context) (*backfill.Config, error) {
	config := &backfill.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return nil, fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return nil, fmt.Errorf("max-retries must be greater than 0")
	}
	return config, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	kb, err := loom.Open(c.String("db"), openOptions(c)...)
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	pipeline, err := kb.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		metadata := map[string]string{
			core.MetaFilePath: path,
			core.MetaTitle:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		}

		result, err := pipeline.Ingest(ctx, string(data), metadata)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}

		if result.Duplicate {
			fmt.Printf("%s: duplicate of document %d (%s)\n",
				path, result.Match.DocumentId, result.Match.Method)
			continue
		}
		fmt.Printf("%s: document %d, %d chunks, %d concepts, %d relationships (%s)\n",
			path, result.DocumentId, result.Chunks,
			len(result.Concepts), len(result.Relationships), result.Method)
	}
	return nil
}

func fingerprintCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one file is required")
	}

	path := c.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	metadata := map[string]string{
		core.MetaFilePath: path,
		core.MetaTitle:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	fp := fingerprint.Compute(string(data), metadata)

	fmt.Printf("content hash:  %s\n", fp.ContentHash)
	fmt.Printf("metadata hash: %s\n", fp.MetadataHash)
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	config, err := backfillConfig(c)
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		// Generator settings are unused for reembedding.
		ai.WithGeneratorHost(c.String("embedding-host")),
		ai.WithGeneratorModel("unused"),
	)

	kb, err := loom.Open(c.String("db"), loom.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	reembedder, err := kb.NewReembedder(config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n\n", c.String("embedding-model"))

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func reextractCommand(c *cli.Context) error {
	ctx := context.Background()

	baseConfig, err := backfillConfig(c)
	if err != nil {
		return err
	}
	config := &backfill.ReextractConfig{
		Config:      *baseConfig,
		Purge:       c.Bool("purge"),
		MaxConcepts: c.Int("max-concepts"),
	}

	kb, err := loom.Open(c.String("db"), openOptions(c)...)
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	reextractor, err := kb.NewReextractor(config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reextractor: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n\n", c.String("db"))

	if err := reextractor.Run(ctx); err != nil {
		return fmt.Errorf("re-extraction failed: %w", err)
	}
	return nil
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
