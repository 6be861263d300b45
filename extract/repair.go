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

package extract

import (
	"regexp"
	"unicode"
)

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// repairJSON fixes formatting defects common in model output before
// unmarshaling: keys missing their opening quote (`, type":` -> `, "type":`)
// and trailing commas before a closing brace or bracket.
func repairJSON(s string) string {
	s = trailingCommaPattern.ReplaceAllString(s, "$1")

	src := []rune(s)
	out := make([]rune, 0, len(src)+16)

	i := 0
	for i < len(src) {
		ch := src[i]
		out = append(out, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(src) && unicode.IsSpace(src[i]) {
			out = append(out, src[i])
			i++
		}

		// A key position occupied by a bare letter means the opening quote
		// was dropped; confirm by finding `":` at the end of the run.
		if i >= len(src) || src[i] == '"' || !unicode.IsLetter(src[i]) {
			continue
		}
		keyStart := i
		for i < len(src) && (unicode.IsLetter(src[i]) || src[i] == '_' || src[i] == ' ') {
			i++
		}
		if i+1 < len(src) && src[i] == '"' && src[i+1] == ':' {
			out = append(out, '"')
		}
		out = append(out, src[keyStart:i]...)
	}

	return string(out)
}
