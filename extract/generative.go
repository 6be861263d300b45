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

package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/calyptra/loom/ai"
	"github.com/calyptra/loom/core"
)

const SourceGenerative = "generative"

// passOneConcept matches the pass-1 response schema.
type passOneConcept struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	Relevance       float64  `json:"relevance"`
	RelatedConcepts []string `json:"related_concepts"`
}

// passTwoEdge matches the pass-2 response schema.
type passTwoEdge struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Type        string  `json:"type"`
	Strength    float64 `json:"strength"`
	Description string  `json:"description"`
}

// GenerativeStrategy runs two-pass extraction over a text generator.
//
// Pass 1 splits the document with extraction-tuned chunk sizes and issues
// one concept-mining request per chunk, concurrently through a worker pool.
// A chunk whose response is a sentinel or unparseable contributes nothing;
// the pass fails only when every chunk failed and no concepts were
// recovered. Pass 2 takes the consolidated concept set and issues a single
// relationship-inference request; edges whose endpoints are not in the
// concept set are dropped.
type GenerativeStrategy struct {
	generator ai.TextGenerator
	pool      *ants.Pool
	monitor   Monitor
	logger    *slog.Logger
}

// NewGenerativeStrategy creates the strategy. The pool bounds concurrent
// pass-1 requests; a nil pool means chunks run sequentially. A nil monitor
// disables observation.
func NewGenerativeStrategy(generator ai.TextGenerator, pool *ants.Pool, monitor Monitor, logger *slog.Logger) (*GenerativeStrategy, error) {
	if generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerativeStrategy{
		generator: generator,
		pool:      pool,
		monitor:   monitor,
		logger:    logger.With("strategy", SourceGenerative),
	}, nil
}

// Extract runs both passes and returns weighted concepts plus inferred
// relationships. maxConcepts is ignored here: the pass-2 cap governs.
func (s *GenerativeStrategy) Extract(ctx context.Context, text string, maxConcepts int) ([]*core.Concept, []*core.Relationship, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyText
	}

	chunks, err := SplitForExtraction(text)
	if err != nil {
		return nil, nil, err
	}
	s.monitor.Start(SourceGenerative, len(chunks))

	perChunk, failures, err := s.passOne(ctx, chunks)
	if err != nil {
		return nil, nil, err
	}
	if failures == len(chunks) {
		return nil, nil, ErrGenerationFailed
	}

	concepts := consolidateConcepts(perChunk)
	for _, c := range concepts {
		c.Source = SourceGenerative
	}
	concepts = WeightConcepts(concepts, text)
	s.monitor.Consolidated(concepts)

	// No concepts found is a valid outcome; there is nothing to relate.
	if len(concepts) == 0 {
		s.monitor.Finish(0, 0)
		return concepts, nil, nil
	}

	relationships := s.passTwo(ctx, concepts)
	s.monitor.Finish(len(concepts), len(relationships))
	return concepts, relationships, nil
}

// passOne issues one concept request per chunk. The returned slice is
// indexed by chunk; failures counts chunks that produced nothing usable.
// Cancellation is checked at chunk boundaries: a chunk already submitted
// runs to completion, unsubmitted chunks are skipped.
func (s *GenerativeStrategy) passOne(ctx context.Context, chunks []string) ([][]*core.Concept, int, error) {
	results := make([][]*core.Concept, len(chunks))
	failed := make([]bool, len(chunks))

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			failed[i] = true
			continue
		}

		work := func(idx int, text string) func() {
			return func() {
				defer wg.Done()
				concepts, ok := s.extractChunk(ctx, idx, text)
				results[idx] = concepts
				failed[idx] = !ok
			}
		}(i, chunk)

		wg.Add(1)
		if s.pool != nil {
			if err := s.pool.Submit(work); err != nil {
				wg.Done()
				return nil, 0, err
			}
		} else {
			work()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	failures := 0
	for _, f := range failed {
		if f {
			failures++
		}
	}
	return results, failures, nil
}

// extractChunk runs one pass-1 request. ok is false when the request
// errored, the response was a sentinel, or parsing failed.
func (s *GenerativeStrategy) extractChunk(ctx context.Context, idx int, text string) ([]*core.Concept, bool) {
	response, err := s.generator.Generate(ctx, text, buildConceptPrompt(), responseTokenBudget)
	if err != nil {
		s.logger.Warn("chunk generation failed", "chunk", idx, "err", err)
		return nil, false
	}
	if ai.IsSentinel(response) {
		s.logger.Warn("chunk returned sentinel response", "chunk", idx)
		s.monitor.MalformedResponse(idx, response)
		return nil, false
	}

	var parsed []passOneConcept
	if !s.parse(idx, response, &parsed) {
		return nil, false
	}

	concepts := make([]*core.Concept, 0, len(parsed))
	for _, p := range parsed {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		relevance := p.Relevance
		if relevance <= 0 {
			relevance = 0.5
		}
		concepts = append(concepts, &core.Concept{
			Name:        name,
			Type:        normalizeType(p.Type),
			Description: strings.TrimSpace(p.Description),
			Relevance:   relevance,
			Related:     p.RelatedConcepts,
		})
	}
	s.monitor.ChunkExtracted(idx, len(concepts))
	return concepts, true
}

// passTwo infers relationships over the consolidated set. Pass-2 failures
// degrade to zero relationships rather than failing extraction: concepts
// alone are still useful.
func (s *GenerativeStrategy) passTwo(ctx context.Context, concepts []*core.Concept) []*core.Relationship {
	names := make([]string, len(concepts))
	valid := make(map[string]bool, len(concepts))
	for i, c := range concepts {
		names[i] = c.Name
		valid[c.Key()] = true
	}

	response, err := s.generator.Generate(ctx, buildRelationshipPrompt(names), "", responseTokenBudget)
	if err != nil {
		s.logger.Warn("relationship generation failed", "err", err)
		return nil
	}
	if ai.IsSentinel(response) {
		s.logger.Warn("relationship pass returned sentinel response")
		s.monitor.MalformedResponse(-1, response)
		return nil
	}

	var parsed []passTwoEdge
	if !s.parse(-1, response, &parsed) {
		return nil
	}

	relationships := make([]*core.Relationship, 0, len(parsed))
	for _, e := range parsed {
		rel := &core.Relationship{
			Source:      strings.TrimSpace(e.Source),
			Target:      strings.TrimSpace(e.Target),
			Type:        normalizeType(e.Type),
			Strength:    core.ClampStrength(e.Strength),
			Description: strings.TrimSpace(e.Description),
		}
		if !valid[strings.ToLower(rel.Source)] || !valid[strings.ToLower(rel.Target)] {
			s.logger.Debug("dropping relationship with unknown endpoint",
				"source", rel.Source, "target", rel.Target)
			s.monitor.EdgeDropped(rel)
			continue
		}
		relationships = append(relationships, rel)
	}
	return relationships
}

// parse repairs, locates, and unmarshals the first JSON value in a model
// response. Repair runs first: an unquoted key would otherwise unbalance
// the string state of the scanner. Malformed responses are reported to the
// monitor.
func (s *GenerativeStrategy) parse(idx int, response string, v any) bool {
	value, state := FirstJSONValue(repairJSON(response))
	if state != ScanFound {
		s.logger.Warn("no JSON value in response", "chunk", idx, "state", int(state))
		s.monitor.MalformedResponse(idx, response)
		return false
	}
	if err := json.Unmarshal([]byte(value), v); err != nil {
		s.logger.Warn("error parsing response", "chunk", idx, "err", err)
		s.monitor.MalformedResponse(idx, response)
		return false
	}
	return true
}

// normalizeType lowercases a type tag and joins words with underscores.
func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return "abstract_concept"
	}
	return strings.ReplaceAll(t, " ", "_")
}
