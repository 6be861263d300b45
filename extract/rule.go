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
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/calyptra/loom/core"
)

const SourceRule = "rule"

var (
	// Capitalized phrase spans of up to four words, each word capitalized.
	capitalizedPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z0-9']+(?:[ -][A-Z][a-zA-Z0-9']+){0,3}\b`)

	// Acronyms: 2-6 uppercase letters standing alone.
	acronymPattern = regexp.MustCompile(`\b[A-Z]{2,6}\b`)

	wordPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9'-]*`)
)

// fixedTechnicalTerms are multi-word terms matched literally against the
// lowercased text. They catch established compounds that neither
// capitalization nor keyword co-occurrence would surface.
var fixedTechnicalTerms = []string{
	"natural language processing",
	"operating system",
	"version control",
	"garbage collection",
	"dependency injection",
	"load balancing",
	"fault tolerance",
	"message queue",
	"hash table",
	"binary tree",
	"regular expression",
	"state machine",
	"unit test",
	"source code",
	"open source",
}

// RuleStrategy extracts concepts with regex candidate generation and a
// validity predicate. It is always available and cannot fail at runtime.
type RuleStrategy struct {
	profiles []string
}

// NewRuleStrategy creates a rule-based strategy filtering against the given
// domain stopword profiles in addition to the general set.
func NewRuleStrategy(profiles ...string) *RuleStrategy {
	if len(profiles) == 0 {
		profiles = []string{"tech", "academic"}
	}
	return &RuleStrategy{profiles: profiles}
}

// Extract returns deduplicated, title-cased, alphabetically sorted concepts.
// maxConcepts <= 0 means unlimited.
func (s *RuleStrategy) Extract(ctx context.Context, text string, maxConcepts int) ([]*core.Concept, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	candidates := s.candidates(text)

	seen := make(map[string]bool, len(candidates))
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !validConcept(c, s.profiles...) {
			continue
		}
		name := titleCase(c)
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	sort.Strings(names)

	if maxConcepts > 0 && len(names) > maxConcepts {
		names = names[:maxConcepts]
	}

	concepts := make([]*core.Concept, 0, len(names))
	for _, name := range names {
		concepts = append(concepts, &core.Concept{
			Name:      name,
			Type:      "abstract_concept",
			Relevance: 0.5,
			Source:    SourceRule,
		})
	}
	return concepts, nil
}

// candidates runs all four candidate generators over the text.
func (s *RuleStrategy) candidates(text string) []string {
	var out []string

	// Capitalized spans often pick up a sentence-initial stopword
	// ("The Turing Machine"); trim edges so the core phrase survives the
	// validity predicate.
	for _, span := range capitalizedPattern.FindAllString(text, -1) {
		if trimmed := s.trimEdgeStopwords(span); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	out = append(out, acronymPattern.FindAllString(text, -1)...)

	lower := strings.ToLower(text)
	for _, term := range fixedTechnicalTerms {
		if strings.Contains(lower, term) {
			out = append(out, term)
		}
	}

	out = append(out, s.keywordSpans(lower)...)
	return out
}

// trimEdgeStopwords drops leading and trailing stopwords from a span.
func (s *RuleStrategy) trimEdgeStopwords(span string) string {
	words := strings.Fields(span)
	for len(words) > 0 && isStopword(words[0], s.profiles...) {
		words = words[1:]
	}
	for len(words) > 0 && isStopword(words[len(words)-1], s.profiles...) {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// keywordSpans generates two-word spans where a domain keyword appears as
// head or modifier. This recovers lowercase compounds like "machine
// learning" that the capitalization pattern misses.
func (s *RuleStrategy) keywordSpans(lower string) []string {
	words := wordPattern.FindAllString(lower, -1)
	spans := make([]string, 0)
	for i := 0; i+1 < len(words); i++ {
		if domainKeywords[words[i]] || domainKeywords[words[i+1]] {
			spans = append(spans, words[i]+" "+words[i+1])
		}
	}
	return spans
}

// titleCase uppercases the first letter of each word, lowercasing the rest.
// Fully uppercase words are kept intact so acronyms survive.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == strings.ToUpper(w) && len(w) > 1 {
			continue
		}
		runes := []rune(strings.ToLower(w))
		for j, r := range runes {
			if isAlnum(r) {
				runes[j] = unicode.ToUpper(r)
				break
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
