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


package prose

import (
	"log/slog"
	"strings"

	"github.com/calyptra/loom/ai"
	"github.com/jdkato/prose/v2"
)

// Tagger implements ai.PhraseTagger with a local statistical NLP model.
// No network access is required, which makes it the strongest strategy
// available when a generation backend is not configured.
type Tagger struct {
	logger *slog.Logger
}

// NewTagger creates a statistical phrase tagger.
//
// Returns ai.PhraseTagger interface to enforce abstraction.
func NewTagger() (ai.PhraseTagger, error) {
	return &Tagger{
		logger: slog.Default().With("component", "prose-tagger"),
	}, nil
}

// NounPhrases returns candidate noun-phrase spans: maximal runs of
// adjectives followed by nouns, ending on a noun.
func (t *Tagger) NounPhrases(text string) ([]string, error) {
	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}

	var phrases []string
	var run []prose.Token

	flush := func() {
		// Trim leading adjectives kept without a following noun, and
		// require the run to end on a noun.
		for len(run) > 0 && !isNounTag(run[len(run)-1].Tag) {
			run = run[:len(run)-1]
		}
		if len(run) > 0 {
			words := make([]string, len(run))
			for i, tok := range run {
				words[i] = tok.Text
			}
			phrases = append(phrases, strings.Join(words, " "))
		}
		run = nil
	}

	for _, tok := range doc.Tokens() {
		if isNounTag(tok.Tag) || (isAdjectiveTag(tok.Tag) && startsPhrase(tok)) {
			run = append(run, tok)
			continue
		}
		flush()
	}
	flush()

	return phrases, nil
}

// Entities returns named-entity spans recognized by the NER model.
func (t *Tagger) Entities(text string) ([]string, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	entities := doc.Entities()
	spans := make([]string, 0, len(entities))
	for _, ent := range entities {
		spans = append(spans, ent.Text)
	}
	return spans, nil
}

func isNounTag(tag string) bool {
	return strings.HasPrefix(tag, "NN")
}

func isAdjectiveTag(tag string) bool {
	return strings.HasPrefix(tag, "JJ")
}

// startsPhrase reports whether an adjective may open a new noun phrase.
func startsPhrase(tok prose.Token) bool {
	return len(tok.Text) > 2
}
