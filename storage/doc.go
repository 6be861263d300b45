// Package storage defines the persistence interfaces for the knowledge
// base: DocumentStore for documents, their chunks, and the dedup lookup
// index, and GraphStore for extracted entities and relationship records.
//
// Implementations must be thread-safe and tolerate concurrent readers; the
// ingestion pipeline runs many documents in parallel against one store.
// Lookups that find nothing return ErrNotFound rather than nil results.
//
// The badger subpackage provides the embedded BadgerDB implementation.
package storage
