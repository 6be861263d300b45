package badger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/loom/core"
	"github.com/calyptra/loom/storage"
)

func testEntity(name string) *core.Entity {
	return &core.Entity{
		Id:        uuid.NewString(),
		Name:      name,
		Type:      "technology",
		Relevance: 0.7,
	}
}

func TestEntityUpsertAndGet(t *testing.T) {
	_, graph := newTestStores(t)
	ctx := context.Background()

	entity := testEntity("Graph Database")
	require.NoError(t, graph.UpsertEntities(ctx, entity))

	got, err := graph.GetEntity(ctx, entity.Id)
	require.NoError(t, err)
	assert.Equal(t, entity, got)
}

func TestEntityGetMissing(t *testing.T) {
	_, graph := newTestStores(t)

	_, err := graph.GetEntity(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEntityFindByNameCaseInsensitive(t *testing.T) {
	_, graph := newTestStores(t)
	ctx := context.Background()

	entity := testEntity("Machine Learning")
	require.NoError(t, graph.UpsertEntities(ctx, entity))

	got, err := graph.FindEntityByName(ctx, "machine learning")
	require.NoError(t, err)
	assert.Equal(t, entity.Id, got.Id)

	got, err = graph.FindEntityByName(ctx, "  MACHINE LEARNING  ")
	require.NoError(t, err)
	assert.Equal(t, entity.Id, got.Id)
}

func TestEntityUpsertOverwrites(t *testing.T) {
	_, graph := newTestStores(t)
	ctx := context.Background()

	entity := testEntity("Entropy")
	require.NoError(t, graph.UpsertEntities(ctx, entity))

	entity.Description = "updated description"
	entity.Relevance = 0.9
	require.NoError(t, graph.UpsertEntities(ctx, entity))

	got, err := graph.GetEntity(ctx, entity.Id)
	require.NoError(t, err)
	assert.Equal(t, "updated description", got.Description)
	assert.Equal(t, 0.9, got.Relevance)

	all, err := graph.AllEntities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRelationshipsForBothDirections(t *testing.T) {
	_, graph := newTestStores(t)
	ctx := context.Background()

	a, b, c := testEntity("A"), testEntity("B"), testEntity("C")
	require.NoError(t, graph.UpsertEntities(ctx, a, b, c))

	require.NoError(t, graph.UpsertRelationships(ctx,
		&core.RelationshipRecord{SourceId: a.Id, TargetId: b.Id, Type: "uses", Strength: 0.8},
		&core.RelationshipRecord{SourceId: c.Id, TargetId: a.Id, Type: "part_of", Strength: 0.6},
		&core.RelationshipRecord{SourceId: b.Id, TargetId: c.Id, Type: "causes", Strength: 0.5},
	))

	rels, err := graph.RelationshipsFor(ctx, a.Id)
	require.NoError(t, err)
	require.Len(t, rels, 2)

	types := []string{rels[0].Type, rels[1].Type}
	assert.ElementsMatch(t, []string{"uses", "part_of"}, types)
}

func TestRelationshipUpsertOverwritesStrength(t *testing.T) {
	_, graph := newTestStores(t)
	ctx := context.Background()

	a, b := testEntity("A"), testEntity("B")
	require.NoError(t, graph.UpsertEntities(ctx, a, b))

	rel := &core.RelationshipRecord{SourceId: a.Id, TargetId: b.Id, Type: "uses", Strength: 0.5}
	require.NoError(t, graph.UpsertRelationships(ctx, rel))
	rel.Strength = 0.9
	require.NoError(t, graph.UpsertRelationships(ctx, rel))

	rels, err := graph.RelationshipsFor(ctx, a.Id)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, 0.9, rels[0].Strength)
}

func TestDeleteEntitiesRemovesRelationships(t *testing.T) {
	_, graph := newTestStores(t)
	ctx := context.Background()

	a, b := testEntity("A"), testEntity("B")
	require.NoError(t, graph.UpsertEntities(ctx, a, b))
	require.NoError(t, graph.UpsertRelationships(ctx,
		&core.RelationshipRecord{SourceId: a.Id, TargetId: b.Id, Type: "uses", Strength: 0.8},
	))

	require.NoError(t, graph.DeleteEntities(ctx, a.Id))

	_, err := graph.GetEntity(ctx, a.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = graph.FindEntityByName(ctx, "A")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	rels, err := graph.RelationshipsFor(ctx, b.Id)
	require.NoError(t, err)
	assert.Empty(t, rels)

	// Deleting a missing entity is not an error.
	assert.NoError(t, graph.DeleteEntities(ctx, uuid.NewString()))
}
