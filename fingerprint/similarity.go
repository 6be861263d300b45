package fingerprint

import (
	"github.com/xrash/smetrics"
)

// TitleSimilarity returns a normalized string-similarity ratio between two
// titles on a 0-100 scale. Titles are normalized the same way as content
// text before comparison, so case and whitespace variations score 100.
//
// The ratio is Levenshtein-based (substitutions cost 2) over the combined
// length, matching the conventional fuzzy-match ratio.
func TitleSimilarity(a, b string) float64 {
	na := NormalizeText(a)
	nb := NormalizeText(b)

	if na == "" && nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	lenSum := len(na) + len(nb)
	dist := smetrics.WagnerFischer(na, nb, 1, 1, 2)
	if dist > lenSum {
		dist = lenSum
	}

	return float64(lenSum-dist) / float64(lenSum) * 100
}
