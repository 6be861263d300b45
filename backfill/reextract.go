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
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calyptra/loom/core"
	"github.com/calyptra/loom/extract"
	"github.com/calyptra/loom/ingestion"
	"github.com/calyptra/loom/storage"
)

// ReextractConfig configures a re-extraction run.
type ReextractConfig struct {
	Config

	// Purge deletes every existing entity (and its relationships) before
	// rebuilding the graph, so concepts no extraction produces anymore
	// disappear. Without it the run refreshes entities in place.
	Purge bool

	// MaxConcepts caps the ranked concept set kept per document.
	// Defaults to extract.DefaultMaxConcepts.
	MaxConcepts int
}

// DefaultReextractConfig returns a ReextractConfig with sensible defaults.
func DefaultReextractConfig() *ReextractConfig {
	return &ReextractConfig{
		Config:      *DefaultConfig(),
		MaxConcepts: extract.DefaultMaxConcepts,
	}
}

// Reextractor re-runs concept and relationship extraction over every stored
// document and rebuilds the knowledge graph, typically after an extraction
// upgrade. Entities are matched to existing ones by name so stable concepts
// keep their ids across runs.
type Reextractor struct {
	documents storage.DocumentStore
	graph     storage.GraphStore
	extractor *extract.Extractor
	config    *ReextractConfig
	progress  io.Writer
	iterator  *DocumentIterator
}

// NewReextractor creates a re-extractor. progress receives human-readable
// progress output (typically os.Stderr).
func NewReextractor(
	documents storage.DocumentStore,
	graph storage.GraphStore,
	extractor *extract.Extractor,
	config *ReextractConfig,
	progress io.Writer,
) (*Reextractor, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if config == nil {
		config = DefaultReextractConfig()
	}
	if config.MaxConcepts <= 0 {
		config.MaxConcepts = extract.DefaultMaxConcepts
	}
	return &Reextractor{
		documents: documents,
		graph:     graph,
		extractor: extractor,
		config:    config,
		progress:  progress,
		iterator:  NewDocumentIterator(documents, config.BatchSize),
	}, nil
}

// Run re-extracts every stored document and rewrites the graph.
func (r *Reextractor) Run(ctx context.Context) error {
	total, err := r.iterator.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No documents found (0 documents)\n")
		return nil
	}

	if r.config.Purge {
		if err := r.purgeGraph(ctx); err != nil {
			return fmt.Errorf("failed to purge graph: %w", err)
		}
	}

	fmt.Fprintf(r.progress, "Starting re-extraction of %d documents (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(docs []*core.Document) error {
		for _, doc := range docs {
			if err := r.reextractDocument(ctx, doc); err != nil {
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
	fmt.Fprintf(r.progress, "Re-extraction complete. Processed %d documents in %v (%.1f documents/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}

func (r *Reextractor) purgeGraph(ctx context.Context) error {
	entities, err := r.graph.AllEntities(ctx)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		return nil
	}
	ids := make([]string, len(entities))
	for i, entity := range entities {
		ids[i] = entity.Id
	}
	return r.graph.DeleteEntities(ctx, ids...)
}

func (r *Reextractor) reextractDocument(ctx context.Context, doc *core.Document) error {
	var result *extract.Result
	err := RetryWithBackoff(ctx, func() error {
		var exErr error
		result, exErr = r.extractor.Extract(ctx, doc.Text, extract.MethodAuto)
		return exErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return fmt.Errorf("extraction failed after %d attempts: %w", r.config.MaxRetries, err)
	}

	concepts := result.Concepts
	sort.SliceStable(concepts, func(i, j int) bool {
		return concepts[i].Relevance > concepts[j].Relevance
	})
	if len(concepts) > r.config.MaxConcepts {
		concepts = concepts[:r.config.MaxConcepts]
	}
	if len(concepts) == 0 {
		return nil
	}

	entities, idsByName, err := r.resolveEntities(ctx, concepts)
	if err != nil {
		return err
	}

	relationships := mergeRelationships(doc.Text, concepts, result.Relationships)
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

	if err := r.graph.UpsertEntities(ctx, entities...); err != nil {
		return err
	}
	if len(records) > 0 {
		if err := r.graph.UpsertRelationships(ctx, records...); err != nil {
			return err
		}
	}
	return nil
}

// resolveEntities maps concepts to entities, reusing the id of an existing
// entity with the same name so re-runs stay stable.
func (r *Reextractor) resolveEntities(ctx context.Context, concepts []*core.Concept) ([]*core.Entity, map[string]string, error) {
	entities := make([]*core.Entity, 0, len(concepts))
	idsByName := make(map[string]string, len(concepts))

	for _, c := range concepts {
		id := ""
		existing, err := r.graph.FindEntityByName(ctx, c.Name)
		switch {
		case err == nil:
			id = existing.Id
		case errors.Is(err, storage.ErrNotFound):
			id = uuid.NewString()
		default:
			return nil, nil, err
		}

		entities = append(entities, &core.Entity{
			Id:          id,
			Name:        c.Name,
			Type:        c.Type,
			Description: c.Description,
			Relevance:   c.Relevance,
		})
		idsByName[c.Key()] = id
	}
	return entities, idsByName, nil
}

// mergeRelationships keeps extracted edges and fills uncovered concept pairs
// with connector-pattern inference over the document text.
func mergeRelationships(text string, concepts []*core.Concept, extracted []*core.Relationship) []*core.Relationship {
	covered := make(map[string]bool, len(extracted))
	for _, rel := range extracted {
		covered[relPairKey(rel.Source, rel.Target)] = true
	}

	merged := extracted
	for _, rel := range ingestion.InferRelationships(concepts, text) {
		if covered[relPairKey(rel.Source, rel.Target)] {
			continue
		}
		merged = append(merged, rel)
	}
	return merged
}

func relPairKey(a, b string) string {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if b < a {
		a, b = b, a
	}
	return a + "\x1f" + b
}
