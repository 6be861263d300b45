// Package ingestion orchestrates document ingestion into the knowledge
// base: duplicate detection, adaptive storage chunking, multi-strategy
// concept extraction, connector-pattern relationship inference, and
// persistence of the resulting document, chunk, entity, and relationship
// records.
//
// The pipeline is invoked once per document and holds no cross-document
// mutable state beyond read access to the dedup index, so many documents
// may be ingested concurrently; IngestMany bounds that concurrency with a
// worker pool.
package ingestion
