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

package ingestion

import (
	"context"
	"log/slog"
	"maps"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/calyptra/loom/ai"
	"github.com/calyptra/loom/chunker"
	"github.com/calyptra/loom/core"
	"github.com/calyptra/loom/extract"
	"github.com/calyptra/loom/fingerprint"
	"github.com/calyptra/loom/storage"
)

// Pipeline orchestrates single-document ingestion end to end: duplicate
// detection, extraction, relationship inference, chunking, and persistence.
type Pipeline struct {
	documents   storage.DocumentStore
	graph       storage.GraphStore
	extractor   *extract.Extractor
	detector    *fingerprint.Detector
	embedder    ai.Embedder
	pool        *ants.Pool
	sizes       chunker.SizeDefaults
	maxConcepts int
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithDetector enables pre-ingestion duplicate detection. Without it every
// document is ingested unconditionally (its fingerprint is still computed
// and stored).
func WithDetector(detector *fingerprint.Detector) Option {
	return func(p *Pipeline) error {
		p.detector = detector
		return nil
	}
}

// WithEmbedder enables chunk embedding generation during ingestion.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(p *Pipeline) error {
		p.embedder = embedder
		return nil
	}
}

// WithPoolSize sets the worker pool size for IngestMany.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
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

// WithMaxConcepts caps the ranked concept set kept per document.
// Default is extract.DefaultMaxConcepts.
func WithMaxConcepts(n int) Option {
	return func(p *Pipeline) error {
		if n > 0 {
			p.maxConcepts = n
		}
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
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given stores and
// extractor.
func NewPipeline(
	documents storage.DocumentStore,
	graph storage.GraphStore,
	extractor *extract.Extractor,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentStoreRequired
	}
	if graph == nil {
		return nil, ErrGraphStoreRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
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
		documents:   documents,
		graph:       graph,
		extractor:   extractor,
		pool:        pool,
		sizes:       chunker.DefaultSizes(),
		maxConcepts: extract.DefaultMaxConcepts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Result reports the outcome of one document ingestion.
type Result struct {
	DocumentId core.ID
	// Duplicate is true when the dedup detector matched a stored document;
	// Match then names it and nothing was ingested.
	Duplicate bool
	Match     *fingerprint.Match

	Fingerprint   core.Fingerprint
	Chunks        int
	Concepts      []*core.Concept
	Entities      []*core.Entity
	Relationships []*core.RelationshipRecord
	// Method is the extraction strategy that produced the concepts.
	Method extract.Method
}

// Ingest processes one document: dedup check, concept and relationship
// extraction, adaptive chunking, and persistence to both stores. On a
// duplicate hit a terminal result naming the matched document is returned
// and nothing is written.
func (p *Pipeline) Ingest(ctx context.Context, text string, metadata map[string]string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	if p.detector != nil {
		if dup, match := p.detector.IsDuplicate(ctx, text, metadata); dup {
			p.logger.Info("duplicate document skipped",
				"existing", match.DocumentId, "method", match.Method)
			return &Result{DocumentId: match.DocumentId, Duplicate: true, Match: match}, nil
		}
	}
	fp := fingerprint.Compute(text, metadata)

	concepts, generated, method, err := p.extractConcepts(ctx, text)
	if err != nil {
		return nil, err
	}

	relationships := combineRelationships(text, concepts, generated)

	entities, records := buildGraphRecords(concepts, relationships)

	chunks, err := p.buildChunks(ctx, text, metadata)
	if err != nil {
		return nil, err
	}

	doc := &core.Document{
		Text:         text,
		Metadata:     metadata,
		ContentHash:  fp.ContentHash,
		MetadataHash: fp.MetadataHash,
	}
	doc, err = p.documents.AddDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	for _, chunk := range chunks {
		chunk.DocumentId = doc.Id
	}
	if err := p.documents.PutChunks(ctx, doc.Id, chunks); err != nil {
		return nil, err
	}
	if len(entities) > 0 {
		if err := p.graph.UpsertEntities(ctx, entities...); err != nil {
			return nil, err
		}
	}
	if len(records) > 0 {
		if err := p.graph.UpsertRelationships(ctx, records...); err != nil {
			return nil, err
		}
	}

	p.logger.Info("document ingested",
		"id", doc.Id,
		"chunks", len(chunks),
		"concepts", len(concepts),
		"relationships", len(records),
		"method", string(method))

	return &Result{
		DocumentId:    doc.Id,
		Fingerprint:   fp,
		Chunks:        len(chunks),
		Concepts:      concepts,
		Entities:      entities,
		Relationships: records,
		Method:        method,
	}, nil
}

// IngestMany ingests documents concurrently through the worker pool,
// returning per-document results and errors in input order.
func (p *Pipeline) IngestMany(ctx context.Context, texts []string, metadatas []map[string]string) ([]*Result, []error) {
	results := make([]*Result, len(texts))
	errs := make([]error, len(texts))

	var wg sync.WaitGroup
	for i := range texts {
		idx := i
		var metadata map[string]string
		if idx < len(metadatas) {
			metadata = metadatas[idx]
		}
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			results[idx], errs[idx] = p.Ingest(ctx, texts[idx], metadata)
		})
		if submitErr != nil {
			wg.Done()
			errs[idx] = submitErr
		}
	}
	wg.Wait()
	return results, errs
}

// Release frees the worker pool. The pipeline must not be used afterwards.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// extractConcepts runs auto extraction, falls back to whole-document
// rule-based extraction when the chunked pass yields nothing, and ranks and
// truncates the merged set. Pass-2 relationships from the generative path
// are returned alongside the concepts.
func (p *Pipeline) extractConcepts(ctx context.Context, text string) ([]*core.Concept, []*core.Relationship, extract.Method, error) {
	result, err := p.extractor.Extract(ctx, text, extract.MethodAuto)
	if err != nil {
		return nil, nil, "", err
	}

	concepts := result.Concepts
	method := result.Method
	if len(concepts) == 0 {
		p.logger.Debug("extraction yielded no concepts, falling back to rule-based")
		fallback, fbErr := p.extractor.Extract(ctx, text, extract.MethodRule)
		if fbErr != nil {
			return nil, nil, "", fbErr
		}
		concepts = fallback.Concepts
		method = extract.MethodRule
	}

	sort.SliceStable(concepts, func(i, j int) bool {
		return concepts[i].Relevance > concepts[j].Relevance
	})
	if len(concepts) > p.maxConcepts {
		concepts = concepts[:p.maxConcepts]
	}
	return concepts, result.Relationships, method, nil
}

// combineRelationships merges generative pass-2 edges with connector
// pattern inference over the document text. Connector inference fills in
// pairs pass 2 did not cover; for a pair both produced, the generative edge
// wins.
func combineRelationships(text string, concepts []*core.Concept, generated []*core.Relationship) []*core.Relationship {
	relationships := generated

	covered := make(map[string]bool, len(relationships))
	for _, rel := range relationships {
		covered[pairKey(rel.Source, rel.Target)] = true
	}

	for _, rel := range InferRelationships(concepts, text) {
		if covered[pairKey(rel.Source, rel.Target)] {
			continue
		}
		relationships = append(relationships, rel)
	}
	return relationships
}

// pairKey builds an order-insensitive key for a concept pair.
func pairKey(a, b string) string {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if b < a {
		a, b = b, a
	}
	return a + "\x1f" + b
}

// buildGraphRecords converts concepts and relationships to storage-ready
// entities and relationship records with generated ids. Relationships whose
// endpoints did not survive concept truncation are dropped.
func buildGraphRecords(concepts []*core.Concept, relationships []*core.Relationship) ([]*core.Entity, []*core.RelationshipRecord) {
	entities := make([]*core.Entity, 0, len(concepts))
	idsByName := make(map[string]string, len(concepts))
	for _, c := range concepts {
		entity := &core.Entity{
			Id:          uuid.NewString(),
			Name:        c.Name,
			Type:        c.Type,
			Description: c.Description,
			Relevance:   c.Relevance,
		}
		entities = append(entities, entity)
		idsByName[c.Key()] = entity.Id
	}

	records := make([]*core.RelationshipRecord, 0, len(relationships))
	for _, rel := range relationships {
		sourceID, okS := idsByName[strings.ToLower(rel.Source)]
		targetID, okT := idsByName[strings.ToLower(rel.Target)]
		if !okS || !okT {
			continue
		}
		records = append(records, &core.RelationshipRecord{
			SourceId: sourceID,
			TargetId: targetID,
			Type:     rel.Type,
			Strength: rel.Strength,
		})
	}
	return entities, records
}

// buildChunks splits the document with adaptive storage chunk sizing and
// builds chunk records with per-chunk hashes and optional embeddings.
func (p *Pipeline) buildChunks(ctx context.Context, text string, metadata map[string]string) ([]*core.Chunk, error) {
	size := chunker.OptimalChunkSize(text, p.sizes)
	pieces, err := chunker.Chunk(text, size, chunker.DefaultOverlap, true)
	if err != nil {
		return nil, err
	}

	chunks := make([]*core.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = &core.Chunk{
			Id:          uuid.NewString(),
			Text:        piece,
			Length:      len([]rune(piece)),
			Index:       i,
			TotalChunks: len(pieces),
			Hash:        fingerprint.ContentHash(piece),
			Metadata:    maps.Clone(metadata),
		}
	}

	if p.embedder != nil {
		vectors, err := p.embedder.EmbedTexts(ctx, pieces)
		switch {
		case err != nil:
			p.logger.Warn("chunk embedding failed, storing chunks without vectors", "err", err)
		case len(vectors) != len(pieces):
			p.logger.Warn("embedder returned wrong vector count, storing chunks without vectors",
				"expected", len(pieces), "got", len(vectors))
		default:
			for i := range chunks {
				chunks[i].Vector = vectors[i]
			}
		}
	}
	return chunks, nil
}
