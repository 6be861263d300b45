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

package backfill

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/calyptra/loom/ai"
	"github.com/calyptra/loom/core"
	"github.com/calyptra/loom/storage"
)

// Config holds shared configuration for backfill operations.
type Config struct {
	// BatchSize is the number of documents processed per batch
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for failed AI calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the embedding vectors of every stored chunk,
// typically after switching embedding models. Chunk text and boundaries are
// left untouched; only vectors change.
type Reembedder struct {
	documents storage.DocumentStore
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	iterator  *DocumentIterator
}

// NewReembedder creates a reembedder. progress receives human-readable
// progress output (typically os.Stderr).
func NewReembedder(documents storage.DocumentStore, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	return &Reembedder{
		documents: documents,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		iterator:  NewDocumentIterator(documents, config.BatchSize),
	}, nil
}

// Run reembeds the chunks of every stored document.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.iterator.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No documents found (0 documents)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d documents (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(docs []*core.Document) error {
		for _, doc := range docs {
			if err := r.reembedDocument(ctx, doc); err != nil {
				return fmt.Errorf("document %d: %w", doc.Id, err)
			}
		}
		processed += len(docs)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d documents in %v (%.1f documents/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}

func (r *Reembedder) reembedDocument(ctx context.Context, doc *core.Document) error {
	chunks, err := r.documents.GetChunks(ctx, doc.Id)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	var embeddings [][]float32
	err = RetryWithBackoff(ctx, func() error {
		var embErr error
		embeddings, embErr = r.embedder.EmbedTexts(ctx, texts)
		return embErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", r.config.MaxRetries, err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	for i := range chunks {
		chunks[i].Vector = NormalizeVector(embeddings[i])
	}
	return r.documents.PutChunks(ctx, doc.Id, chunks)
}
