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
	"context"
	"log/slog"

	"github.com/calyptra/loom/core"
)

// Detection method labels reported by Detector.IsDuplicate.
const (
	MethodContentHash     = "content_hash"
	MethodMetadataHash    = "metadata_hash"
	MethodFilePath        = "file_path"
	MethodTitleSimilarity = "title_similarity"
)

// DefaultTitleThreshold is the minimum title-similarity ratio (0-100) for a
// fuzzy title match to count as a duplicate.
const DefaultTitleThreshold = 90.0

// DocumentIndex is the read-only store view the detector needs. Lookups that
// find nothing must return storage.ErrNotFound (or any error; the detector
// treats every lookup failure as "no match").
type DocumentIndex interface {
	FindByContentHash(ctx context.Context, hash string) (*core.Document, error)
	FindByMetadataHash(ctx context.Context, hash string) (*core.Document, error)
	FindByFilePath(ctx context.Context, path string) (*core.Document, error)
	Titles(ctx context.Context) (map[core.ID]string, error)
}

// Match describes a successful duplicate detection.
type Match struct {
	DocumentId core.ID
	Method     string
	Similarity float64 // populated only for title-similarity matches
}

// Detector decides whether an incoming document duplicates a stored one.
// It is safe for concurrent use; the index must tolerate concurrent readers.
type Detector struct {
	index          DocumentIndex
	titleThreshold float64
	logger         *slog.Logger
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithTitleThreshold overrides the fuzzy title-match threshold (0-100).
func WithTitleThreshold(threshold float64) DetectorOption {
	return func(d *Detector) {
		d.titleThreshold = threshold
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) DetectorOption {
	return func(d *Detector) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// NewDetector creates a duplicate detector over the given document index.
func NewDetector(index DocumentIndex, opts ...DetectorOption) (*Detector, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	d := &Detector{
		index:          index,
		titleThreshold: DefaultTitleThreshold,
		logger:         slog.Default().With("component", "dedup-detector"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// IsDuplicate runs the detection chain: exact content-hash lookup, exact
// metadata-hash lookup, exact file_path lookup, then a linear fuzzy
// title-similarity scan over all stored titles. The first hit short-circuits
// and reports its method. Each check independently swallows store errors and
// treats them as "no match"; no check aborts the remaining ones.
func (d *Detector) IsDuplicate(ctx context.Context, text string, metadata map[string]string) (bool, *Match) {
	fp := Compute(text, metadata)

	if doc, err := d.index.FindByContentHash(ctx, fp.ContentHash); err == nil && doc != nil {
		return true, &Match{DocumentId: doc.Id, Method: MethodContentHash}
	} else if err != nil {
		d.logger.Debug("content hash lookup failed", "err", err)
	}

	if fp.MetadataHash != NoHash {
		if doc, err := d.index.FindByMetadataHash(ctx, fp.MetadataHash); err == nil && doc != nil {
			return true, &Match{DocumentId: doc.Id, Method: MethodMetadataHash}
		} else if err != nil {
			d.logger.Debug("metadata hash lookup failed", "err", err)
		}
	}

	if path := metadata[core.MetaFilePath]; path != "" {
		if doc, err := d.index.FindByFilePath(ctx, path); err == nil && doc != nil {
			return true, &Match{DocumentId: doc.Id, Method: MethodFilePath}
		} else if err != nil {
			d.logger.Debug("file path lookup failed", "err", err)
		}
	}

	if title := metadata[core.MetaTitle]; title != "" {
		if match := d.scanTitles(ctx, title); match != nil {
			return true, match
		}
	}

	return false, nil
}

// scanTitles does a linear fuzzy scan of all stored titles and returns the
// first one at or above the threshold.
func (d *Detector) scanTitles(ctx context.Context, title string) *Match {
	titles, err := d.index.Titles(ctx)
	if err != nil {
		d.logger.Debug("title listing failed", "err", err)
		return nil
	}

	for id, stored := range titles {
		if stored == "" {
			continue
		}
		ratio := TitleSimilarity(title, stored)
		if ratio >= d.titleThreshold {
			return &Match{DocumentId: id, Method: MethodTitleSimilarity, Similarity: ratio}
		}
	}
	return nil
}
