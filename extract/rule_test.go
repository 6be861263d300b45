package extract

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conceptNames(t *testing.T, text string) []string {
	t.Helper()
	concepts, err := NewRuleStrategy().Extract(context.Background(), text, 0)
	require.NoError(t, err)
	names := make([]string, len(concepts))
	for i, c := range concepts {
		names[i] = c.Name
	}
	return names
}

func TestRuleExtractDomainCompounds(t *testing.T) {
	names := conceptNames(t, "Machine learning is a subset of artificial intelligence.")

	assert.Contains(t, names, "Machine Learning")
	assert.Contains(t, names, "Artificial Intelligence")
	assert.NotContains(t, names, "Subset")
	for _, n := range names {
		assert.NotContains(t, n, "subset")
	}
}

func TestRuleExtractCapitalizedPhrases(t *testing.T) {
	names := conceptNames(t, "The Turing Machine was described by Alan Turing.")

	assert.Contains(t, names, "Turing Machine")
	assert.Contains(t, names, "Alan Turing")
}

func TestRuleExtractAcronyms(t *testing.T) {
	names := conceptNames(t, "The server speaks HTTP and gRPC over TCP connections.")

	assert.Contains(t, names, "HTTP")
	assert.Contains(t, names, "TCP")
}

func TestRuleExtractFixedTerms(t *testing.T) {
	names := conceptNames(t, "the course covers natural language processing and related topics")

	assert.Contains(t, names, "Natural Language Processing")
}

func TestRuleExtractDeduplicatesCaseInsensitively(t *testing.T) {
	names := conceptNames(t, "Neural networks are everywhere. NEURAL NETWORKS changed the field. neural networks win.")

	count := 0
	for _, n := range names {
		if strings.EqualFold(n, "neural networks") {
			count++
		}
	}
	assert.Equal(t, 1, count, "expected a single deduplicated entry, got %v", names)
}

func TestRuleExtractSorted(t *testing.T) {
	names := conceptNames(t, "Zebra Pattern comes after Apple Silicon in the Alphabet Song.")

	assert.True(t, sort.StringsAreSorted(names), "names not sorted: %v", names)
}

func TestRuleExtractMaxConcepts(t *testing.T) {
	concepts, err := NewRuleStrategy().Extract(context.Background(),
		"Alpha Wave, Beta Test, Gamma Ray, Delta Force, Epsilon Greedy.", 2)
	require.NoError(t, err)
	assert.Len(t, concepts, 2)
}

func TestRuleExtractProvenance(t *testing.T) {
	concepts, err := NewRuleStrategy().Extract(context.Background(), "Quantum Computing is here.", 0)
	require.NoError(t, err)
	require.NotEmpty(t, concepts)
	for _, c := range concepts {
		assert.Equal(t, SourceRule, c.Source)
	}
}

func TestRuleExtractEmptyText(t *testing.T) {
	_, err := NewRuleStrategy().Extract(context.Background(), "   ", 0)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Machine Learning", titleCase("machine learning"))
	assert.Equal(t, "HTTP", titleCase("HTTP"))
	assert.Equal(t, "TURING Machine", titleCase("TURING machine"))
}
