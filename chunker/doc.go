// Package chunker splits document text into bounded, optionally overlapping
// chunks for storage and for extraction prompts.
//
// Chunk sizes adapt to the document: a base size is picked from length tiers
// and then discounted for structural complexity (tables, code fences, bullet
// lists), since structured text loses more meaning when split mid-element.
//
// Semantic mode splits on paragraph breaks, falls back to sentence
// boundaries for oversized paragraphs, and force-splits any sentence that
// still exceeds the budget. Forced splits carry no overlap guarantee; that
// is a documented limitation of character windowing, not a defect.
package chunker
