// Copyright 2025 Calyptra Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	lineWhitespace = regexp.MustCompile(`[ \t]+`)
	manyNewlines   = regexp.MustCompile(`\n{3,}`)
)

// Normalize canonicalizes line endings and collapses horizontal whitespace
// runs while preserving paragraph breaks (blank lines).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = lineWhitespace.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	text = strings.Join(lines, "\n")

	text = manyNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// unit is one accumulation element: a paragraph, a sentence of an oversized
// paragraph, or a forced window of an oversized sentence. sep is the
// separator placed before the unit when it follows another unit in a chunk.
type unit struct {
	text string
	sep  string
}

// Chunk splits text into chunks of at most size characters (runes), with
// adjacent chunks sharing up to overlap characters.
//
// Semantic mode splits on paragraph breaks; paragraphs exceeding size are
// split on sentence boundaries; sentences still exceeding size are
// force-split into raw character windows of size-overlap stride, with no
// overlap guarantee inside the forced split. Units accumulate into a chunk
// until adding one more would exceed size; the next chunk is seeded with as
// many trailing units as fit within overlap, walked backward from the
// chunk's end.
//
// Non-semantic mode is a fixed sliding window of stride size-overlap.
//
// Text shorter than size yields exactly one chunk equal to the normalized
// input. overlap >= size is a caller configuration error.
func Chunk(text string, size, overlap int, semantic bool) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrChunkConfig, ErrInvalidSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: %w", ErrChunkConfig, ErrInvalidOverlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: %w (size=%d overlap=%d)", ErrChunkConfig, ErrOverlapTooLarge, size, overlap)
	}

	normalized := Normalize(text)
	if normalized == "" {
		return []string{}, nil
	}
	if utf8.RuneCountInString(normalized) <= size {
		return []string{normalized}, nil
	}

	if semantic {
		return semanticChunks(normalized, size, overlap), nil
	}
	return slidingChunks(normalized, size, overlap), nil
}

func semanticChunks(text string, size, overlap int) []string {
	units := buildUnits(text, size, overlap)

	var chunks []string
	var current []unit
	currentLen := 0

	appendLen := func(u unit, curLen int) int {
		n := utf8.RuneCountInString(u.text)
		if curLen > 0 {
			n += utf8.RuneCountInString(u.sep)
		}
		return n
	}

	for _, u := range units {
		if currentLen > 0 && currentLen+appendLen(u, currentLen) > size {
			chunks = append(chunks, joinUnits(current))

			// Seed the next chunk with trailing units that fit within
			// overlap, walked backward from the chunk's end.
			var seed []unit
			seedLen := 0
			for i := len(current) - 1; i >= 0; i-- {
				n := appendLen(current[i], seedLen)
				if seedLen+n > overlap {
					break
				}
				seed = append([]unit{current[i]}, seed...)
				seedLen += n
			}
			current = seed
			currentLen = seedLen
		}

		currentLen += appendLen(u, currentLen)
		current = append(current, u)
	}

	if len(current) > 0 {
		chunks = append(chunks, joinUnits(current))
	}
	return chunks
}

// buildUnits decomposes the text into paragraph/sentence/forced-window
// units, each guaranteed to fit within size.
func buildUnits(text string, size, overlap int) []unit {
	var units []unit
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= size {
			units = append(units, unit{text: para, sep: "\n\n"})
			continue
		}

		sep := "\n\n" // first unit of the paragraph keeps the paragraph break
		for _, sentence := range SplitSentences(para) {
			if utf8.RuneCountInString(sentence) <= size {
				units = append(units, unit{text: sentence, sep: sep})
			} else {
				// Forced character windows of size-overlap stride.
				for _, window := range forceSplit(sentence, size-overlap) {
					units = append(units, unit{text: window, sep: sep})
					sep = " "
				}
			}
			sep = " "
		}
	}
	return units
}

func joinUnits(units []unit) string {
	var b strings.Builder
	for i, u := range units {
		if i > 0 {
			b.WriteString(u.sep)
		}
		b.WriteString(u.text)
	}
	return b.String()
}

// SplitSentences splits a paragraph on sentence boundaries: a terminator
// (. ! ?), optionally followed by closing quotes or brackets, followed by
// whitespace. Abbreviation handling is deliberately minimal.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		end := i + 1
		for end < len(runes) && (runes[end] == '"' || runes[end] == '\'' || runes[end] == ')' || runes[end] == ']') {
			end++
		}
		if end < len(runes) && unicode.IsSpace(runes[end]) {
			sentence := strings.TrimSpace(string(runes[start:end]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = end
			i = end - 1
		}
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// forceSplit cuts text into consecutive character windows of the given
// stride. Windows are back to back; no overlap.
func forceSplit(text string, stride int) []string {
	if stride <= 0 {
		stride = 1
	}
	runes := []rune(text)
	var windows []string
	for start := 0; start < len(runes); start += stride {
		end := start + stride
		if end > len(runes) {
			end = len(runes)
		}
		window := strings.TrimSpace(string(runes[start:end]))
		if window != "" {
			windows = append(windows, window)
		}
	}
	return windows
}

// slidingChunks is the non-semantic fixed-size sliding window with stride
// size-overlap. The final partial window becomes its own chunk.
func slidingChunks(text string, size, overlap int) []string {
	runes := []rune(text)
	stride := size - overlap

	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
