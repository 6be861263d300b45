package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/calyptra/loom/core"
	"github.com/calyptra/loom/storage"
)

// GraphStore implements storage.GraphStore for BadgerDB.
type GraphStore struct {
	backend *Backend
}

var _ storage.GraphStore = (*GraphStore)(nil)

// NewGraphStore creates a new GraphStore.
func NewGraphStore(backend *Backend) (*GraphStore, error) {
	return &GraphStore{backend: backend}, nil
}

// Close releases resources. GraphStore has no resources of its own.
func (s *GraphStore) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (s *GraphStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.backend.WithTransaction(ctx, fn)
}

// UpsertEntities stores entities and refreshes their name index entries.
func (s *GraphStore) UpsertEntities(ctx context.Context, entities ...*core.Entity) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, entity := range entities {
			value, err := storage.MarshalEntity(entity)
			if err != nil {
				return err
			}
			if err := tx.Set(makeEntityKey(entity.Id), value); err != nil {
				return err
			}
			if err := tx.Set(makeEntityNameKey(entity.Name), []byte(entity.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// UpsertRelationships stores relationship records with their reverse-index
// entries.
func (s *GraphStore) UpsertRelationships(ctx context.Context, relationships ...*core.RelationshipRecord) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, rel := range relationships {
			value, err := storage.MarshalRelationshipRecord(rel)
			if err != nil {
				return err
			}
			key := makeRelationKey(rel.SourceId, rel.TargetId, rel.Type)
			if err := tx.Set(key, value); err != nil {
				return err
			}
			revKey := makeRelationRevKey(rel.SourceId, rel.TargetId, rel.Type)
			if err := tx.Set(revKey, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEntity retrieves an entity by ID.
func (s *GraphStore) GetEntity(ctx context.Context, id string) (*core.Entity, error) {
	var result *core.Entity
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEntity(tx, makeEntityKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindEntityByName retrieves an entity by case-insensitive name.
func (s *GraphStore) FindEntityByName(ctx context.Context, name string) (*core.Entity, error) {
	var result *core.Entity
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEntityNameKey(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var entityID string
		if err := item.Value(func(val []byte) error {
			entityID = string(val)
			return nil
		}); err != nil {
			return err
		}

		result, err = readEntity(tx, makeEntityKey(entityID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// AllEntities returns every stored entity.
func (s *GraphStore) AllEntities(ctx context.Context) ([]*core.Entity, error) {
	var results []*core.Entity
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entityPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entity *core.Entity
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entity, err = storage.UnmarshalEntity(val)
				return err
			})
			if err != nil {
				return err
			}
			if entity != nil {
				results = append(results, entity)
			}
		}
		return nil
	}, false)
	return results, err
}

// RelationshipsFor returns relationship records where the entity appears as
// source or target.
func (s *GraphStore) RelationshipsFor(ctx context.Context, entityID string) ([]*core.RelationshipRecord, error) {
	var results []*core.RelationshipRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, prefix := range [][]byte{
			makeRelationSourcePrefix(entityID),
			makeRelationTargetPrefix(entityID),
		} {
			if err := collectRelations(tx, prefix, &results); err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteEntities removes entities, their name index entries, and every
// relationship touching them.
func (s *GraphStore) DeleteEntities(ctx context.Context, ids ...string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			entity, err := readEntity(tx, makeEntityKey(id))
			if err != nil {
				return err
			}
			if entity == nil {
				continue
			}

			if err := tx.Delete(makeEntityNameKey(entity.Name)); err != nil {
				return err
			}
			if err := deleteRelationsTouching(tx, id); err != nil {
				return err
			}
			if err := tx.Delete(makeEntityKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Helper methods

func collectRelations(tx *badger.Txn, prefix []byte, out *[]*core.RelationshipRecord) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var rel *core.RelationshipRecord
		err := iter.Item().Value(func(val []byte) error {
			var err error
			rel, err = storage.UnmarshalRelationshipRecord(val)
			return err
		})
		if err != nil {
			return err
		}
		if rel != nil {
			*out = append(*out, rel)
		}
	}
	return nil
}

// deleteRelationsTouching removes forward and reverse records for every
// relationship where the entity is source or target.
func deleteRelationsTouching(tx *badger.Txn, entityID string) error {
	var doomed []*core.RelationshipRecord
	for _, prefix := range [][]byte{
		makeRelationSourcePrefix(entityID),
		makeRelationTargetPrefix(entityID),
	} {
		if err := collectRelations(tx, prefix, &doomed); err != nil {
			return err
		}
	}

	for _, rel := range doomed {
		if err := tx.Delete(makeRelationKey(rel.SourceId, rel.TargetId, rel.Type)); err != nil {
			return err
		}
		if err := tx.Delete(makeRelationRevKey(rel.SourceId, rel.TargetId, rel.Type)); err != nil {
			return err
		}
	}
	return nil
}

// readEntity reads an entity from the transaction. A missing key yields
// (nil, nil).
func readEntity(tx *badger.Txn, key []byte) (*core.Entity, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entity *core.Entity
	err = item.Value(func(val []byte) error {
		var err error
		entity, err = storage.UnmarshalEntity(val)
		return err
	})
	return entity, err
}
