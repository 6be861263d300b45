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
	"fmt"
	"strings"

	"github.com/calyptra/loom/core"
)

// connectorStrength is assigned when a lexical connector pattern matches.
const connectorStrength = 0.8

// RelatedType is the default relation assigned when no connector pattern
// matches a concept pair.
const RelatedType = "related_to"

// maxPairwiseConcepts caps the concepts considered for pairwise inference;
// the scan is quadratic in this count.
const maxPairwiseConcepts = 12

// connectorEntry binds a relationship type to the lexical patterns that
// signal it. Each pattern takes the two concept names lowercased.
type connectorEntry struct {
	relType  string
	patterns []string
}

// connectorTable is scanned in order; the first matching pattern decides a
// pair's relationship type.
var connectorTable = []connectorEntry{
	{"prerequisite_of", []string{
		"%s requires %s",
		"%s depends on %s",
		"%s is required for %s",
		"%s is a prerequisite for %s",
	}},
	{"part_of", []string{
		"%s is part of %s",
		"%s belongs to %s",
		"%s is a component of %s",
	}},
	{"type_of", []string{
		"%s is a type of %s",
		"%s is a kind of %s",
		"%s is a form of %s",
		"%s is a subset of %s",
	}},
	{"causes", []string{
		"%s causes %s",
		"%s leads to %s",
		"%s results in %s",
	}},
	{"uses", []string{
		"%s uses %s",
		"%s relies on %s",
		"%s is based on %s",
		"%s is built on %s",
	}},
	{"contrasts_with", []string{
		"%s differs from %s",
		"%s contrasts with %s",
		"%s versus %s",
		"%s rather than %s",
	}},
}

// InferRelationships scans the lowercased document text for lexical
// connector patterns between every concept pair, in both directions. The
// first matching pattern wins and assigns its type at connectorStrength; a
// pair with no match gets the default RelatedType weighted by the mean of
// the two concepts' relevance. Only the first maxPairwiseConcepts concepts
// participate.
func InferRelationships(concepts []*core.Concept, text string) []*core.Relationship {
	if len(concepts) > maxPairwiseConcepts {
		concepts = concepts[:maxPairwiseConcepts]
	}
	lower := strings.ToLower(text)

	var relationships []*core.Relationship
	for i := 0; i < len(concepts); i++ {
		for j := i + 1; j < len(concepts); j++ {
			relationships = append(relationships, relatePair(lower, concepts[i], concepts[j]))
		}
	}
	return relationships
}

// relatePair resolves the relationship for one concept pair.
func relatePair(lower string, a, b *core.Concept) *core.Relationship {
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)

	for _, entry := range connectorTable {
		for _, pattern := range entry.patterns {
			if strings.Contains(lower, fmt.Sprintf(pattern, an, bn)) {
				return &core.Relationship{
					Source:   a.Name,
					Target:   b.Name,
					Type:     entry.relType,
					Strength: connectorStrength,
				}
			}
			if strings.Contains(lower, fmt.Sprintf(pattern, bn, an)) {
				return &core.Relationship{
					Source:   b.Name,
					Target:   a.Name,
					Type:     entry.relType,
					Strength: connectorStrength,
				}
			}
		}
	}

	return &core.Relationship{
		Source:   a.Name,
		Target:   b.Name,
		Type:     RelatedType,
		Strength: core.ClampStrength((a.Relevance + b.Relevance) / 2),
	}
}
