package extract

import (
	"sort"
	"strings"

	"github.com/calyptra/loom/core"
)

const (
	repeatBonus   = 0.05
	earlyBonus    = 0.1
	earlyFraction = 0.2
)

// WeightConcepts adjusts concept relevance from the concept's footprint in
// the full document text: +0.05 per occurrence beyond the first
// (case-insensitive literal match) and +0.1 when the first occurrence falls
// in the opening fifth of the document. Relevance is capped at 1.0 and the
// slice is re-sorted by descending relevance. The input slice is modified
// in place and returned.
func WeightConcepts(concepts []*core.Concept, text string) []*core.Concept {
	lower := strings.ToLower(text)
	earlyCutoff := int(float64(len(lower)) * earlyFraction)

	for _, c := range concepts {
		name := strings.ToLower(c.Name)
		if name == "" {
			continue
		}

		count := strings.Count(lower, name)
		if count > 1 {
			c.Relevance += repeatBonus * float64(count-1)
		}
		if first := strings.Index(lower, name); first >= 0 && first <= earlyCutoff {
			c.Relevance += earlyBonus
		}
		if c.Relevance > 1.0 {
			c.Relevance = 1.0
		}
	}

	sort.SliceStable(concepts, func(i, j int) bool {
		return concepts[i].Relevance > concepts[j].Relevance
	})
	return concepts
}
