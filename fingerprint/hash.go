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


package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"

	"github.com/calyptra/loom/core"
)

// NoHash is the sentinel returned by MetadataHash when none of the
// identifying metadata fields are present.
const NoHash = "no-metadata"

// metadataHashFields is the fixed subset of metadata fields that contribute
// to the metadata hash.
var metadataHashFields = []string{
	core.MetaTitle,
	core.MetaAuthor,
	core.MetaISBN,
	core.MetaFilePath,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeText collapses whitespace runs to single spaces, lowercases, and
// trims. Two texts that differ only in whitespace or case normalize equal.
func NormalizeText(text string) string {
	return strings.TrimSpace(strings.ToLower(whitespaceRun.ReplaceAllString(text, " ")))
}

// ContentHash returns the SHA-256 hex digest of the normalized text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// MetadataHash returns the SHA-256 hex digest over the present identifying
// metadata fields (title, author, isbn, file_path). Each value is lowercased
// and trimmed; ISBNs additionally have hyphens stripped. Pairs are joined as
// "field:value" sorted by field name. Returns NoHash when no identifying
// field is present.
func MetadataHash(metadata map[string]string) string {
	pairs := make([]string, 0, len(metadataHashFields))
	for _, field := range metadataHashFields {
		value, ok := metadata[field]
		if !ok {
			continue
		}
		value = strings.TrimSpace(strings.ToLower(value))
		if field == core.MetaISBN {
			value = strings.ReplaceAll(value, "-", "")
		}
		if value == "" {
			continue
		}
		pairs = append(pairs, field+":"+value)
	}

	if len(pairs) == 0 {
		return NoHash
	}

	sort.Strings(pairs)
	sum := sha256.Sum256([]byte(strings.Join(pairs, "|")))
	return hex.EncodeToString(sum[:])
}

// Compute returns the full fingerprint for a document's text and metadata.
// The TitleSimilarity field is left at zero; it is populated by the Detector
// only when the fuzzy title scan runs.
func Compute(text string, metadata map[string]string) core.Fingerprint {
	return core.Fingerprint{
		ContentHash:  ContentHash(text),
		MetadataHash: MetadataHash(metadata),
	}
}
