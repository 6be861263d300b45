package ai

import "strings"

// ConceptTypes defines the valid categories for extracted concepts.
// These tags are embedded into generation prompts and applied by the
// rule-based strategy.
var ConceptTypes = []string{
	"abstract_concept",
	"acronym",
	"algorithm",
	"event",
	"field",
	"method",
	"organization",
	"person",
	"place",
	"process",
	"technology",
	"theory",
	"tool",
}

// Error-sentinel prefixes. Some generation backends report failures inline
// as text instead of returning an error; such responses must be treated as
// soft failures by callers.
var sentinelPrefixes = []string{
	"Error:",
	"API Response:",
}

// IsSentinel reports whether generated text is an inline provider error
// rather than usable output.
func IsSentinel(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, prefix := range sentinelPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
