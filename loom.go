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

// Package loom assembles the ingestion preprocessing stack on top of a
// single badger-backed store: duplicate detection, adaptive chunking,
// concept extraction, and graph persistence behind one handle.
package loom

import (
	"io"
	"log/slog"

	"github.com/calyptra/loom/ai"
	"github.com/calyptra/loom/ai/openai"
	"github.com/calyptra/loom/ai/prose"
	"github.com/calyptra/loom/backfill"
	"github.com/calyptra/loom/extract"
	"github.com/calyptra/loom/fingerprint"
	"github.com/calyptra/loom/ingestion"
	"github.com/calyptra/loom/storage"
	"github.com/calyptra/loom/storage/badger"
)

// KnowledgeBase bundles the stores and AI services behind one handle.
type KnowledgeBase struct {
	backend   *badger.Backend
	documents storage.DocumentStore
	graph     storage.GraphStore
	provider  ai.AIProvider
	tagger    ai.PhraseTagger
	extractor *extract.Extractor
	logger    *slog.Logger
}

// KnowledgeBaseOption configures a KnowledgeBase.
type KnowledgeBaseOption func(*knowledgeBaseOptions)

type knowledgeBaseOptions struct {
	aiConfig  *ai.Config
	disableAI bool
	inMemory  bool
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(config *ai.Config) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.aiConfig = config
	}
}

// WithoutAI disables the generative AI provider. Extraction falls back to
// statistical and rule-based strategies and chunks are stored without
// embedding vectors.
func WithoutAI() KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.disableAI = true
	}
}

// WithInMemory opens the store in memory, discarding all data on Close.
func WithInMemory() KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.inMemory = true
	}
}

// Open opens (creating if necessary) a knowledge base at filePath.
func Open(filePath string, opts ...KnowledgeBaseOption) (*KnowledgeBase, error) {
	options := &knowledgeBaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	documents, err := badger.NewDocumentStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	graph, err := badger.NewGraphStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	logger := slog.Default()

	var provider ai.AIProvider
	if !options.disableAI {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	tagger, err := prose.NewTagger()
	if err != nil {
		logger.Warn("phrase tagger unavailable, statistical extraction disabled", "err", err)
		tagger = nil
	}

	extractorOpts := []extract.Option{}
	if provider != nil {
		extractorOpts = append(extractorOpts, extract.WithGenerator(provider.Generator()))
	}
	if tagger != nil {
		extractorOpts = append(extractorOpts, extract.WithTagger(tagger))
	}
	extractor, err := extract.NewExtractor(extractorOpts...)
	if err != nil {
		if provider != nil {
			provider.Close()
		}
		backend.Close()
		return nil, err
	}

	return &KnowledgeBase{
		backend:   backend,
		documents: documents,
		graph:     graph,
		provider:  provider,
		tagger:    tagger,
		extractor: extractor,
		logger:    logger,
	}, nil
}

// Close releases the AI provider, extraction workers, and the store.
func (kb *KnowledgeBase) Close() error {
	if kb.provider != nil {
		if err := kb.provider.Close(); err != nil {
			kb.logger.Error("error closing AI provider", "err", err)
		}
	}
	kb.extractor.Release()

	if err := kb.backend.Close(); err != nil {
		kb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentStore exposes the document and chunk store.
func (kb *KnowledgeBase) DocumentStore() storage.DocumentStore {
	return kb.documents
}

// GraphStore exposes the entity and relationship store.
func (kb *KnowledgeBase) GraphStore() storage.GraphStore {
	return kb.graph
}

// NewIngestionPipeline builds an ingestion pipeline with duplicate
// detection enabled and, when an AI provider is configured, chunk
// embedding. The extractor is shared across pipelines; releasing a pipeline
// leaves it usable.
func (kb *KnowledgeBase) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	detector, err := fingerprint.NewDetector(kb.documents)
	if err != nil {
		return nil, err
	}

	baseOpts := []ingestion.Option{ingestion.WithDetector(detector)}
	if kb.provider != nil {
		baseOpts = append(baseOpts, ingestion.WithEmbedder(kb.provider.Embedder()))
	}
	return ingestion.NewPipeline(kb.documents, kb.graph, kb.extractor, append(baseOpts, opts...)...)
}

// NewReembedder builds a backfill reembedder over the stored chunks.
// Requires an AI provider.
func (kb *KnowledgeBase) NewReembedder(config *backfill.Config, progress io.Writer) (*backfill.Reembedder, error) {
	if kb.provider == nil {
		return nil, backfill.ErrEmbedderRequired
	}
	return backfill.NewReembedder(kb.documents, kb.provider.Embedder(), config, progress)
}

// NewReextractor builds a backfill re-extractor that rebuilds the concept
// graph from the stored documents.
func (kb *KnowledgeBase) NewReextractor(config *backfill.ReextractConfig, progress io.Writer) (*backfill.Reextractor, error) {
	return backfill.NewReextractor(kb.documents, kb.graph, kb.extractor, config, progress)
}
