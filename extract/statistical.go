package extract

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/calyptra/loom/ai"
	"github.com/calyptra/loom/core"
)

const SourceStatistical = "statistical"

// StatisticalStrategy extracts concepts from noun-phrase and named-entity
// spans produced by an NLP tagger. The spans run through the same validity
// predicate as rule-based candidates.
type StatisticalStrategy struct {
	tagger   ai.PhraseTagger
	fallback *RuleStrategy
	profiles []string
	logger   *slog.Logger
}

// NewStatisticalStrategy creates the strategy. A nil tagger is allowed: the
// strategy then delegates to rule-based extraction transparently.
func NewStatisticalStrategy(tagger ai.PhraseTagger, logger *slog.Logger) *StatisticalStrategy {
	if logger == nil {
		logger = slog.Default()
	}
	profiles := []string{"tech", "academic"}
	return &StatisticalStrategy{
		tagger:   tagger,
		fallback: NewRuleStrategy(profiles...),
		profiles: profiles,
		logger:   logger.With("strategy", SourceStatistical),
	}
}

// Available reports whether a tagger capability is present.
func (s *StatisticalStrategy) Available() bool {
	return s.tagger != nil
}

// Extract returns tagger-derived concepts, or rule-based results when the
// tagger capability is absent.
func (s *StatisticalStrategy) Extract(ctx context.Context, text string, maxConcepts int) ([]*core.Concept, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if s.tagger == nil {
		s.logger.Debug("tagger unavailable, using rule-based extraction")
		return s.fallback.Extract(ctx, text, maxConcepts)
	}

	phrases, err := s.tagger.NounPhrases(text)
	if err != nil {
		return nil, err
	}
	entities, err := s.tagger.Entities(text)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	names := make([]string, 0, len(phrases)+len(entities))
	for _, span := range append(phrases, entities...) {
		if !validConcept(span, s.profiles...) {
			continue
		}
		name := titleCase(span)
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
			Source:    SourceStatistical,
		})
	}
	return concepts, nil
}
