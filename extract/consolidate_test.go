package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/loom/core"
)

func TestConsolidateConceptsMergesAcrossChunks(t *testing.T) {
	chunks := [][]*core.Concept{
		{
			{Name: "Entropy", Type: "theory", Description: "disorder measure", Relevance: 0.6, Related: []string{"Thermodynamics"}},
		},
		{
			{Name: "entropy", Type: "abstract_concept", Description: "information content", Relevance: 0.8, Related: []string{"Shannon"}},
			{Name: "Shannon", Type: "person", Relevance: 0.5},
		},
	}

	out := consolidateConcepts(chunks)

	require.Len(t, out, 2)
	merged := out[0]
	assert.Equal(t, "Entropy", merged.Name)
	assert.Equal(t, "theory", merged.Type)
	assert.Equal(t, "disorder measure; information content", merged.Description)
	assert.Equal(t, 0.8, merged.Relevance)
	assert.ElementsMatch(t, []string{"Thermodynamics", "Shannon"}, merged.Related)
	assert.ElementsMatch(t, []int{0, 1}, merged.ChunkIndices)
}

func TestConsolidateConceptsPreservesFirstSeenOrder(t *testing.T) {
	chunks := [][]*core.Concept{
		{{Name: "Zeta", Relevance: 0.5}, {Name: "Alpha", Relevance: 0.5}},
		{{Name: "Mu", Relevance: 0.5}, {Name: "zeta", Relevance: 0.9}},
	}

	out := consolidateConcepts(chunks)

	require.Len(t, out, 3)
	assert.Equal(t, "Zeta", out[0].Name)
	assert.Equal(t, "Alpha", out[1].Name)
	assert.Equal(t, "Mu", out[2].Name)
}

func TestConsolidateConceptsCap(t *testing.T) {
	var chunk []*core.Concept
	for i := 0; i < maxPassTwoConcepts+10; i++ {
		chunk = append(chunk, &core.Concept{Name: fmt.Sprintf("Concept %02d", i), Relevance: 0.5})
	}

	out := consolidateConcepts([][]*core.Concept{chunk})

	assert.Len(t, out, maxPassTwoConcepts)
	// First-seen retained.
	assert.Equal(t, "Concept 00", out[0].Name)
}

func TestConsolidateConceptsSkipsEmpty(t *testing.T) {
	out := consolidateConcepts([][]*core.Concept{
		{nil, {Name: ""}, {Name: "Kept", Relevance: 0.5}},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "Kept", out[0].Name)
}
