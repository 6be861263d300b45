// Package fingerprint computes dedup signals for documents entering the
// knowledge base.
//
// Two hashes are produced per document: a content hash over normalized text
// (whitespace and case invariant) and a metadata hash over a fixed subset of
// identifying metadata fields. The Detector combines exact hash lookups with
// a fuzzy title-similarity scan to decide whether an incoming document is
// already stored. Store errors during detection are treated as "no match"
// so that a degraded store never blocks ingestion.
package fingerprint
