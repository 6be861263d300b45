package extract

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/calyptra/loom/chunker"
)

// Extraction chunk size tiers. Distinct from storage chunking: these bound
// the prompt so the response fits the generation token budget.
const (
	wholeDocumentLimit = 6_000
	mediumDocumentMax  = 24_000
	mediumChunkSize    = 4_000
	largeChunkSize     = 8_000

	extractionOverlap = 100

	// responseTokenBudget bounds generated output per request.
	responseTokenBudget = 2048
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// EstimateTokens estimates the token count of text. It uses the cl100k_base
// BPE when the encoding is loadable, otherwise falls back to the chars/4
// heuristic so estimation works without network access.
func EstimateTokens(text string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err == nil {
			encoding = enc
		}
	})
	if encoding != nil {
		return len(encoding.Encode(text, nil, nil))
	}
	return len([]rune(text)) / 4
}

// ExtractionChunkSize selects the per-request chunk size for a document of
// the given rune length. Small documents go through whole.
func ExtractionChunkSize(textLen int) int {
	switch {
	case textLen < wholeDocumentLimit:
		return textLen
	case textLen < mediumDocumentMax:
		return mediumChunkSize
	default:
		return largeChunkSize
	}
}

// SplitForExtraction chunks text for per-request generative extraction.
// Documents under the whole-document limit come back as a single chunk.
func SplitForExtraction(text string) ([]string, error) {
	textLen := len([]rune(text))
	if textLen < wholeDocumentLimit {
		return []string{text}, nil
	}
	return chunker.Chunk(text, ExtractionChunkSize(textLen), extractionOverlap, true)
}
