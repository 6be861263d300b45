package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/loom/core"
)

func TestIDRoundTrip(t *testing.T) {
	ids := []core.ID{0, 1, 255, 1 << 20, 1<<63 + 42}
	for _, id := range ids {
		data := MarshalID(id)
		got, err := UnmarshalID(data)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestUnmarshalIDTruncated(t *testing.T) {
	data := MarshalID(core.ID(1 << 40))
	_, err := UnmarshalID(data[:1])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := &core.Document{
		Id:   core.IDFromContent("test"),
		Text: "Some document text.",
		Metadata: map[string]string{
			core.MetaTitle:  "A Title",
			core.MetaAuthor: "An Author",
		},
		ContentHash:  "abc123",
		MetadataHash: "def456",
		InsertedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	data, err := MarshalDocument(doc)
	require.NoError(t, err)
	got, err := UnmarshalDocument(data)
	require.NoError(t, err)

	assert.Equal(t, doc, got)
}

func TestChunkRoundTrip(t *testing.T) {
	chunk := &core.Chunk{
		Id:          "chunk-1",
		DocumentId:  42,
		Text:        "chunk text",
		Length:      10,
		Index:       2,
		TotalChunks: 5,
		Hash:        "deadbeef",
		Vector:      []float32{0.1, 0.2},
	}

	data, err := MarshalChunk(chunk)
	require.NoError(t, err)
	got, err := UnmarshalChunk(data)
	require.NoError(t, err)

	assert.Equal(t, chunk, got)
}

func TestUnmarshalDocumentMalformed(t *testing.T) {
	_, err := UnmarshalDocument([]byte("not json"))
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
