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
	"regexp"
	"strings"
)

// SizeDefaults holds the tier bases and bounds used by OptimalChunkSize.
type SizeDefaults struct {
	Base          int // documents below LargeThreshold
	LargeBase     int // documents at or above LargeThreshold
	VeryLargeBase int // documents at or above VeryLargeThreshold

	MinSize int
	MaxSize int

	LargeThreshold     int
	VeryLargeThreshold int
}

// DefaultSizes returns the standard sizing configuration for storage chunks.
func DefaultSizes() SizeDefaults {
	return SizeDefaults{
		Base:               1000,
		LargeBase:          1500,
		VeryLargeBase:      2000,
		MinSize:            200,
		MaxSize:            4000,
		LargeThreshold:     100_000,
		VeryLargeThreshold: 1_000_000,
	}
}

// DefaultOverlap is the standard overlap between adjacent storage chunks.
const DefaultOverlap = 150

// Complexity discount factors. Each structural feature applies its discount
// independently; a document with all three gets the product.
const (
	codeFenceDiscount = 0.7
	tableRowDiscount  = 0.8
	bulletDiscount    = 0.9
)

var (
	tableRowPattern = regexp.MustCompile(`(?m)^\s*\|.+\|\s*$`)
	bulletPattern   = regexp.MustCompile(`(?m)^\s*[-*•]\s+\S`)
)

// OptimalChunkSize selects a chunk size for the text: a base size from the
// length tier, multiplied by the structural complexity factor, clamped to
// [MinSize, MaxSize]. Plain prose keeps the tier base unmodified.
func OptimalChunkSize(text string, d SizeDefaults) int {
	base := d.Base
	switch {
	case len(text) >= d.VeryLargeThreshold:
		base = d.VeryLargeBase
	case len(text) >= d.LargeThreshold:
		base = d.LargeBase
	}

	size := int(float64(base) * complexityFactor(text))

	if size < d.MinSize {
		size = d.MinSize
	}
	if size > d.MaxSize {
		size = d.MaxSize
	}
	return size
}

// complexityFactor returns the multiplicative discount for structural
// features present in the text. 1.0 means plain prose.
func complexityFactor(text string) float64 {
	factor := 1.0
	if strings.Contains(text, "```") {
		factor *= codeFenceDiscount
	}
	if tableRowPattern.MatchString(text) {
		factor *= tableRowDiscount
	}
	if bulletPattern.MatchString(text) {
		factor *= bulletDiscount
	}
	return factor
}
