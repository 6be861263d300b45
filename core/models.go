package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical content
// always maps to the same identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Recognized metadata keys. A document's metadata map may carry arbitrary
// additional freeform keys; these are the ones the pipeline inspects.
const (
	MetaTitle       = "title"
	MetaAuthor      = "author"
	MetaCategory    = "category"
	MetaSubcategory = "subcategory"
	MetaSource      = "source"
	MetaISBN        = "isbn"
	MetaFilePath    = "file_path"
)

// Document represents a free-form text document submitted for ingestion.
// It exists as a unit only until it is split into Chunks; the stored record
// keeps the raw text alongside its fingerprint hashes for dedup lookups.
type Document struct {
	Id           ID
	Text         string
	Metadata     map[string]string
	ContentHash  string
	MetadataHash string
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// Title returns the document's title metadata, or "" if absent.
func (d *Document) Title() string {
	return d.Metadata[MetaTitle]
}

// Chunk is a bounded contiguous span of a document's text. Adjacent chunks
// may share an overlap region. Chunk order reconstructs document order.
type Chunk struct {
	Id          string
	DocumentId  ID
	Text        string
	Length      int
	Index       int
	TotalChunks int
	Hash        string
	Metadata    map[string]string
	Vector      []float32 // Embedding for the caller's similarity index (optional)
}

// Concept represents a semantic concept extracted from a document.
// The Name is a case-insensitive unique key within one document's concept
// set. Concepts are treated as immutable values: consolidation produces new
// values via MergeConcepts rather than mutating in place.
type Concept struct {
	Name         string
	Type         string
	Description  string
	Relevance    float64
	Source       string // extraction strategy provenance: "rule", "statistical", "generative"
	Related      []string
	ChunkIndices []int
}

// Key returns the case-insensitive identity key for the concept.
func (c Concept) Key() string {
	return strings.ToLower(strings.TrimSpace(c.Name))
}

// MergeConcepts folds b into a, producing a new Concept. The first-seen
// value (a) supplies the canonical name and type; distinct description text
// is appended, related names are unioned, chunk indices are accumulated, and
// relevance keeps the maximum of the two.
func MergeConcepts(a, b Concept) Concept {
	merged := a

	if b.Description != "" && b.Description != a.Description &&
		!strings.Contains(a.Description, b.Description) {
		if merged.Description == "" {
			merged.Description = b.Description
		} else {
			merged.Description = merged.Description + "; " + b.Description
		}
	}

	if b.Relevance > merged.Relevance {
		merged.Relevance = b.Relevance
	}

	merged.Related = unionStrings(a.Related, b.Related)
	merged.ChunkIndices = unionInts(a.ChunkIndices, b.ChunkIndices)

	return merged
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		key := strings.ToLower(s)
		if !seen[key] {
			seen[key] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		key := strings.ToLower(s)
		if !seen[key] {
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

func unionInts(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, v := range a {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Relationship strength bounds.
const (
	MinStrength = 0.1
	MaxStrength = 1.0
)

// Relationship links two concepts by name within one document.
type Relationship struct {
	Source      string
	Target      string
	Type        string
	Strength    float64
	Description string
}

// ClampStrength bounds a relationship strength to [MinStrength, MaxStrength].
func ClampStrength(s float64) float64 {
	if s < MinStrength {
		return MinStrength
	}
	if s > MaxStrength {
		return MaxStrength
	}
	return s
}

// Fingerprint holds the dedup signals computed for a document.
type Fingerprint struct {
	ContentHash     string
	MetadataHash    string
	TitleSimilarity float64 // 0-100 against the closest stored title, when computed
}

// Entity is a storage-ready concept record with a generated id, emitted by
// the ingestion orchestrator.
type Entity struct {
	Id          string
	Name        string
	Type        string
	Description string
	Relevance   float64
}

// RelationshipRecord is a storage-ready relationship tuple referencing
// entity ids.
type RelationshipRecord struct {
	SourceId string
	TargetId string
	Type     string
	Strength float64
}
