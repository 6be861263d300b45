package extract

import "strings"

// ScanState classifies the outcome of scanning generated text for JSON.
type ScanState int

const (
	// ScanFound means a balanced JSON value was located.
	ScanFound ScanState = iota
	// ScanEmpty means the text contains no opening brace or bracket.
	ScanEmpty
	// ScanMalformed means a JSON value starts but never closes.
	ScanMalformed
)

// FirstJSONValue locates the first balanced JSON object or array embedded in
// generated text, tolerating prose before and after it. Braces inside string
// literals and escaped quotes are handled.
func FirstJSONValue(text string) (string, ScanState) {
	start := -1
	var open, close rune
	for i, r := range text {
		if r == '{' || r == '[' {
			start = i
			open = r
			if r == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", ScanEmpty
	}

	depth := 0
	inString := false
	escaped := false
	runes := []rune(text[start:])
	for i, r := range runes {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case r == '\\' && inString:
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == open:
			depth++
		case r == close:
			depth--
			if depth == 0 {
				return strings.TrimSpace(string(runes[:i+1])), ScanFound
			}
		}
	}
	return "", ScanMalformed
}
