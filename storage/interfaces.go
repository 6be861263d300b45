package storage

import (
	"context"

	"github.com/calyptra/loom/core"
)

// Store provides common operations shared across all stores.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentStore persists documents and their chunk records, and serves the
// lookups the duplicate detector runs before ingestion. It satisfies
// fingerprint.DocumentIndex.
type DocumentStore interface {
	Store

	// AddDocument stores a document. For a document with Id=0 a
	// content-based ID is generated. Sets InsertedAt/UpdatedAt.
	// Returns the document with ID and timestamps populated.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// UpdateDocument updates an existing document, refreshing UpdatedAt.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// DeleteDocument removes a document, its chunks, and its index entries.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.ID) error

	// GetDocument retrieves a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// ListDocumentIDs returns the IDs of all stored documents, ascending.
	ListDocumentIDs(ctx context.Context) ([]core.ID, error)

	// PutChunks replaces the stored chunk records for a document.
	PutChunks(ctx context.Context, docID core.ID, chunks []*core.Chunk) error

	// GetChunks retrieves a document's chunks in document order.
	GetChunks(ctx context.Context, docID core.ID) ([]*core.Chunk, error)

	// FindSimilarChunks finds chunks whose embedding vector has cosine
	// similarity >= minSimilarity with the query vector, best first, up to
	// limit results. Chunks without embeddings are skipped.
	FindSimilarChunks(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.Chunk, error)

	// FindByContentHash returns the document with the given content hash.
	// Returns ErrNotFound when no document matches.
	FindByContentHash(ctx context.Context, hash string) (*core.Document, error)

	// FindByMetadataHash returns the document with the given metadata hash.
	// Returns ErrNotFound when no document matches.
	FindByMetadataHash(ctx context.Context, hash string) (*core.Document, error)

	// FindByFilePath returns the document ingested from the given file path.
	// Returns ErrNotFound when no document matches.
	FindByFilePath(ctx context.Context, path string) (*core.Document, error)

	// Titles returns the title metadata of every stored document, keyed by
	// document ID. Documents without titles are omitted.
	Titles(ctx context.Context) (map[core.ID]string, error)
}

// GraphStore persists extracted entities and the relationship records
// linking them.
type GraphStore interface {
	Store

	// UpsertEntities stores entities, replacing existing records with the
	// same ID and refreshing the name index.
	UpsertEntities(ctx context.Context, entities ...*core.Entity) error

	// UpsertRelationships stores relationship records. The
	// (source, target, type) triple identifies a record; re-upserting
	// overwrites its strength.
	UpsertRelationships(ctx context.Context, relationships ...*core.RelationshipRecord) error

	// GetEntity retrieves an entity by ID.
	// Returns ErrNotFound if the entity doesn't exist.
	GetEntity(ctx context.Context, id string) (*core.Entity, error)

	// FindEntityByName retrieves an entity by case-insensitive name.
	// Returns ErrNotFound if no entity matches.
	FindEntityByName(ctx context.Context, name string) (*core.Entity, error)

	// AllEntities returns every stored entity.
	AllEntities(ctx context.Context) ([]*core.Entity, error)

	// RelationshipsFor returns the relationship records where the entity
	// appears as source or target.
	RelationshipsFor(ctx context.Context, entityID string) ([]*core.RelationshipRecord, error)

	// DeleteEntities removes entities and every relationship record
	// touching them. Missing IDs are ignored.
	DeleteEntities(ctx context.Context, ids ...string) error
}
