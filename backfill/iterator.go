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

package backfill

import (
	"context"
	"errors"

	"github.com/calyptra/loom/core"
	"github.com/calyptra/loom/storage"
)

// DefaultBatchSize is the default number of documents fetched per batch.
const DefaultBatchSize = 100

// DocumentIterator iterates over all stored documents in batches.
type DocumentIterator struct {
	documents storage.DocumentStore
	batchSize int
}

// NewDocumentIterator creates an iterator over the document store.
// batchSize must be > 0; DefaultBatchSize is used otherwise.
func NewDocumentIterator(documents storage.DocumentStore, batchSize int) *DocumentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &DocumentIterator{
		documents: documents,
		batchSize: batchSize,
	}
}

// Count returns the number of stored documents.
func (it *DocumentIterator) Count(ctx context.Context) (int, error) {
	ids, err := it.documents.ListDocumentIDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// ForEach iterates over all documents in id order, calling fn for each
// batch. Iteration stops on the first error from fn. Context cancellation
// is checked between batches. Documents deleted between the id listing and
// the batch fetch are skipped.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]*core.Document) error) error {
	ids, err := it.documents.ListDocumentIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	for i := 0; i < len(ids); i += it.batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		end := i + it.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		batch := make([]*core.Document, 0, end-i)
		for _, id := range ids[i:end] {
			doc, err := it.documents.GetDocument(ctx, id)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					continue
				}
				return err
			}
			batch = append(batch, doc)
		}

		if len(batch) == 0 {
			continue
		}
		if err := fn(batch); err != nil {
			return err
		}
	}

	return nil
}
