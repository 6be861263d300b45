package extract

import (
	"github.com/calyptra/loom/core"
)

// maxPassTwoConcepts caps the consolidated set handed to relationship
// inference. First-seen concepts are retained when the cap is exceeded.
const maxPassTwoConcepts = 25

// consolidateConcepts folds per-chunk concept lists into one set keyed by
// case-insensitive name. Duplicates merge: first-seen name and type win,
// distinct descriptions concatenate, relevance takes the maximum, related
// names and chunk indices union. First-seen order is preserved.
func consolidateConcepts(chunks [][]*core.Concept) []*core.Concept {
	index := make(map[string]int)
	out := make([]*core.Concept, 0)

	for chunkIdx, concepts := range chunks {
		for _, c := range concepts {
			if c == nil || c.Name == "" {
				continue
			}
			if len(c.ChunkIndices) == 0 {
				c.ChunkIndices = []int{chunkIdx}
			}
			key := c.Key()
			if pos, ok := index[key]; ok {
				merged := core.MergeConcepts(*out[pos], *c)
				out[pos] = &merged
				continue
			}
			index[key] = len(out)
			out = append(out, c)
		}
	}

	if len(out) > maxPassTwoConcepts {
		out = out[:maxPassTwoConcepts]
	}
	return out
}
