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

package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/calyptra/loom/core"
	"github.com/calyptra/loom/fingerprint"
	"github.com/calyptra/loom/storage"
)

// DocumentStore implements storage.DocumentStore for BadgerDB.
type DocumentStore struct {
	backend *Backend
}

var _ storage.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a new DocumentStore.
func NewDocumentStore(backend *Backend) (*DocumentStore, error) {
	return &DocumentStore{backend: backend}, nil
}

// Close releases resources. DocumentStore has no resources of its own.
func (s *DocumentStore) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (s *DocumentStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.backend.WithTransaction(ctx, fn)
}

// AddDocument stores a document with its lookup index entries.
func (s *DocumentStore) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if doc.Id == 0 {
			doc.Id = core.IDFromContent(doc.ContentHash + doc.Text)
		}
		doc.InsertedAt = time.Now().UTC()
		doc.UpdatedAt = doc.InsertedAt

		if err := writeDocument(tx, doc); err != nil {
			return err
		}
		if err := writeDocumentIndexes(tx, doc); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return doc, err
}

// UpdateDocument updates an existing document, migrating index entries that
// the new hashes invalidate.
func (s *DocumentStore) UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readDocument(tx, makeDocumentKey(doc.Id))
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		doc.InsertedAt = old.InsertedAt
		doc.UpdatedAt = time.Now().UTC()

		if err := deleteDocumentIndexes(tx, old); err != nil {
			return err
		}
		if err := writeDocument(tx, doc); err != nil {
			return err
		}
		if err := writeDocumentIndexes(tx, doc); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return doc, err
}

// DeleteDocument removes a document, its chunks, and its index entries.
func (s *DocumentStore) DeleteDocument(ctx context.Context, id core.ID) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		doc, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		if err := deleteDocumentIndexes(tx, doc); err != nil {
			return err
		}
		if err := deleteChunks(tx, id); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListDocumentIDs returns all stored document IDs in ascending order.
func (s *DocumentStore) ListDocumentIDs(ctx context.Context) ([]core.ID, error) {
	var ids []core.ID
	err := s.forEachDocument(func(doc *core.Document) {
		ids = append(ids, doc.Id)
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)
	return ids, nil
}

// PutChunks replaces the stored chunk records for a document.
func (s *DocumentStore) PutChunks(ctx context.Context, docID core.ID, chunks []*core.Chunk) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteChunks(tx, docID); err != nil {
			return err
		}
		for _, chunk := range chunks {
			value, err := storage.MarshalChunk(chunk)
			if err != nil {
				return err
			}
			if err := tx.Set(makeChunkKey(docID, chunk.Index), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunks retrieves a document's chunks in document order.
func (s *DocumentStore) GetChunks(ctx context.Context, docID core.ID) ([]*core.Chunk, error) {
	var chunks []*core.Chunk
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeChunkPrefix(docID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			chunks = append(chunks, chunk)
		}
		return nil
	}, false)
	return chunks, err
}

// FindSimilarChunks scans all chunks and ranks them by cosine similarity.
func (s *DocumentStore) FindSimilarChunks(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.Chunk, error) {
	type scored struct {
		chunk *core.Chunk
		score float32
	}
	var results []scored

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}
			if score := dotProduct(vector, chunk.Vector); score >= minSimilarity {
				results = append(results, scored{chunk: chunk, score: score})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b scored) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return 0
	})
	if len(results) > limit {
		results = results[:limit]
	}

	chunks := make([]*core.Chunk, len(results))
	for i, r := range results {
		chunks[i] = r.chunk
	}
	return chunks, nil
}

// FindByContentHash returns the document with the given content hash.
func (s *DocumentStore) FindByContentHash(ctx context.Context, hash string) (*core.Document, error) {
	return s.findByIndex(makeContentHashKey(hash))
}

// FindByMetadataHash returns the document with the given metadata hash.
func (s *DocumentStore) FindByMetadataHash(ctx context.Context, hash string) (*core.Document, error) {
	return s.findByIndex(makeMetadataHashKey(hash))
}

// FindByFilePath returns the document ingested from the given file path.
func (s *DocumentStore) FindByFilePath(ctx context.Context, path string) (*core.Document, error) {
	return s.findByIndex(makeFilePathKey(path))
}

// Titles returns every stored document's title metadata, keyed by ID.
func (s *DocumentStore) Titles(ctx context.Context) (map[core.ID]string, error) {
	titles := make(map[core.ID]string)
	err := s.forEachDocument(func(doc *core.Document) {
		if title := doc.Title(); title != "" {
			titles[doc.Id] = title
		}
	})
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// Helper methods

func (s *DocumentStore) findByIndex(indexKey []byte) (*core.Document, error) {
	var result *core.Document
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(indexKey)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var docID core.ID
		err = item.Value(func(val []byte) error {
			docID, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}

		result, err = readDocument(tx, makeDocumentKey(docID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

func (s *DocumentStore) forEachDocument(visit func(doc *core.Document)) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc != nil {
				visit(doc)
			}
		}
		return nil
	}, false)
}

func writeDocument(tx *badger.Txn, doc *core.Document) error {
	value, err := storage.MarshalDocument(doc)
	if err != nil {
		return err
	}
	return tx.Set(makeDocumentKey(doc.Id), value)
}

// writeDocumentIndexes maintains the dedup lookup entries. The metadata
// hash sentinel for hashless documents is not indexed: it would alias every
// untagged document to one slot.
func writeDocumentIndexes(tx *badger.Txn, doc *core.Document) error {
	id := storage.MarshalID(doc.Id)

	if doc.ContentHash != "" {
		if err := tx.Set(makeContentHashKey(doc.ContentHash), id); err != nil {
			return err
		}
	}
	if doc.MetadataHash != "" && doc.MetadataHash != fingerprint.NoHash {
		if err := tx.Set(makeMetadataHashKey(doc.MetadataHash), id); err != nil {
			return err
		}
	}
	if path := doc.Metadata[core.MetaFilePath]; path != "" {
		if err := tx.Set(makeFilePathKey(path), id); err != nil {
			return err
		}
	}
	return nil
}

func deleteDocumentIndexes(tx *badger.Txn, doc *core.Document) error {
	if doc.ContentHash != "" {
		if err := tx.Delete(makeContentHashKey(doc.ContentHash)); err != nil {
			return err
		}
	}
	if doc.MetadataHash != "" && doc.MetadataHash != fingerprint.NoHash {
		if err := tx.Delete(makeMetadataHashKey(doc.MetadataHash)); err != nil {
			return err
		}
	}
	if path := doc.Metadata[core.MetaFilePath]; path != "" {
		if err := tx.Delete(makeFilePathKey(path)); err != nil {
			return err
		}
	}
	return nil
}

func deleteChunks(tx *badger.Txn, docID core.ID) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeChunkPrefix(docID)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// readDocument reads a document from the transaction. A missing key yields
// (nil, nil).
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
