package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calyptra/loom/core"
)

func TestWeightConceptsRepeatBonus(t *testing.T) {
	text := strings.Repeat("filler text here. ", 20) + "entropy appears. entropy again. entropy once more."
	concepts := []*core.Concept{
		{Name: "Entropy", Relevance: 0.5},
	}

	WeightConcepts(concepts, text)

	// Three occurrences: two repeats worth 0.05 each.
	assert.InDelta(t, 0.6, concepts[0].Relevance, 0.001)
}

func TestWeightConceptsEarlyBonus(t *testing.T) {
	text := "entropy is introduced first. " + strings.Repeat("filler text follows here. ", 30)
	concepts := []*core.Concept{
		{Name: "Entropy", Relevance: 0.5},
	}

	WeightConcepts(concepts, text)

	assert.InDelta(t, 0.6, concepts[0].Relevance, 0.001)
}

func TestWeightConceptsCapped(t *testing.T) {
	text := strings.Repeat("entropy ", 50)
	concepts := []*core.Concept{
		{Name: "Entropy", Relevance: 0.9},
	}

	WeightConcepts(concepts, text)

	assert.Equal(t, 1.0, concepts[0].Relevance)
}

func TestWeightConceptsAbsentNameUnchanged(t *testing.T) {
	concepts := []*core.Concept{
		{Name: "Phlogiston", Relevance: 0.4},
	}

	WeightConcepts(concepts, "a text that never mentions it")

	assert.Equal(t, 0.4, concepts[0].Relevance)
}

func TestWeightConceptsSortsByRelevance(t *testing.T) {
	text := "entropy entropy entropy entropy. " + strings.Repeat("filler words here. ", 30) + "obscurity."
	concepts := []*core.Concept{
		{Name: "Obscurity", Relevance: 0.3},
		{Name: "Entropy", Relevance: 0.3},
	}

	WeightConcepts(concepts, text)

	assert.Equal(t, "Entropy", concepts[0].Name)
	assert.Equal(t, "Obscurity", concepts[1].Name)
}
