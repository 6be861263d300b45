// Package extract implements multi-strategy concept and relationship
// extraction from document text.
//
// Three strategies are available, in descending order of capability:
//
//   - Generative: a two-pass path over a text-generation model. Pass 1 mines
//     concepts per chunk concurrently; pass 2 infers cross-chunk
//     relationships over the consolidated concept set.
//   - Statistical: noun-phrase and named-entity spans from an NLP tagger,
//     filtered by the same validity predicate the rule strategy uses.
//   - Rule: regex candidate generation (capitalized phrases, domain-keyword
//     co-occurrence, fixed technical terms, acronyms) plus a validity
//     predicate. Always available, never fails.
//
// The Extractor entry point selects a strategy by Method. MethodAuto prefers
// generative, then statistical, then rule, stepping down when a strategy is
// unavailable or fails at runtime, so extraction always completes with the
// best results the current capabilities allow.
package extract
