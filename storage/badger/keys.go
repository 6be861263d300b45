package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/calyptra/loom/core"
)

// Key prefixes for different data types
const (
	documentPrefix     = "docrec"
	documentHashPrefix = "dochsh"
	documentMetaPrefix = "docmta"
	documentPathPrefix = "docpth"
	chunkPrefix        = "chkrec"
	entityPrefix       = "entrec"
	entityNamePrefix   = "entnam"
	relationPrefix     = "relrec"
	relationRevPrefix  = "relrev"
)

// keySep separates variable-length components inside composite keys. It
// cannot occur in UUIDs or hex hashes.
const keySep = "\x1f"

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeContentHashKey indexes a document by its content hash.
func makeContentHashKey(hash string) []byte {
	return []byte(documentHashPrefix + ":" + hash)
}

// makeMetadataHashKey indexes a document by its metadata hash.
func makeMetadataHashKey(hash string) []byte {
	return []byte(documentMetaPrefix + ":" + hash)
}

// makeFilePathKey indexes a document by its source file path.
func makeFilePathKey(path string) []byte {
	return []byte(documentPathPrefix + ":" + path)
}

// makeChunkKey generates a composite key for one chunk of a document.
// Format: prefix:docID:index, both numeric parts BigEndian so iteration
// yields chunks in document order.
func makeChunkKey(docID core.ID, index int) []byte {
	prefix := []byte(chunkPrefix + ":")
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}

// makeChunkPrefix generates the iteration prefix for a document's chunks.
func makeChunkPrefix(docID core.ID) []byte {
	prefix := []byte(chunkPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makeEntityKey generates a key for an entity by ID.
func makeEntityKey(id string) []byte {
	return []byte(entityPrefix + ":" + id)
}

// makeEntityNameKey indexes an entity by case-insensitive name.
func makeEntityNameKey(name string) []byte {
	return []byte(entityNamePrefix + ":" + strings.ToLower(strings.TrimSpace(name)))
}

// makeRelationKey generates a key for a relationship record.
// Format: prefix:sourceID\x1ftargetID\x1ftype
func makeRelationKey(sourceID, targetID, relType string) []byte {
	return []byte(relationPrefix + ":" + sourceID + keySep + targetID + keySep + relType)
}

// makeRelationSourcePrefix generates the iteration prefix for an entity's
// outgoing relationships.
func makeRelationSourcePrefix(sourceID string) []byte {
	return []byte(relationPrefix + ":" + sourceID + keySep)
}

// makeRelationRevKey generates the reverse-index key for a relationship.
// Format: prefix:targetID\x1fsourceID\x1ftype
func makeRelationRevKey(sourceID, targetID, relType string) []byte {
	return []byte(relationRevPrefix + ":" + targetID + keySep + sourceID + keySep + relType)
}

// makeRelationTargetPrefix generates the iteration prefix for an entity's
// incoming relationships.
func makeRelationTargetPrefix(targetID string) []byte {
	return []byte(relationRevPrefix + ":" + targetID + keySep)
}
