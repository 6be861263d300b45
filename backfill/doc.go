// Package backfill reprocesses documents that are already stored: it can
// regenerate chunk embeddings after an embedding model change, and re-run
// concept extraction to rebuild the knowledge graph after an extraction
// upgrade (for example from rule-based to generative).
//
// Operations iterate documents in batches with progress reporting and retry
// transient failures with exponential backoff.
package backfill
