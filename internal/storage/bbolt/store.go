// Package bbolt provides a BoltDB-backed initiative store.
//
// Initiative state is channel-keyed and read back in bulk at startup,
// which maps onto nested buckets: one per channel, one key per character.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/louisbranch/storyteller.space/internal/storage"
)

const initiativeBucket = "initiative"

// Store provides a BoltDB-backed initiative store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetInitiative replaces the character's entry in the channel.
func (s *Store) SetInitiative(ctx context.Context, row storage.InitiativeRow) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(row.ChannelID) == "" {
		return fmt.Errorf("channel id is required")
	}
	if strings.TrimSpace(row.Character) == "" {
		return fmt.Errorf("character is required")
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal initiative row: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		channel, err := channelBucket(tx, row.ChannelID, true)
		if err != nil {
			return err
		}
		return channel.Put([]byte(row.Character), payload)
	})
}

// SetInitiativeAction stores a declared action for a character.
func (s *Store) SetInitiativeAction(ctx context.Context, channelID, character, action string) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		channel, err := channelBucket(tx, channelID, false)
		if err != nil {
			return err
		}
		if channel == nil {
			return storage.ErrNotFound
		}
		payload := channel.Get([]byte(character))
		if payload == nil {
			return storage.ErrNotFound
		}

		var row storage.InitiativeRow
		if err := json.Unmarshal(payload, &row); err != nil {
			return fmt.Errorf("unmarshal initiative row: %w", err)
		}
		row.Action = action

		updated, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal initiative row: %w", err)
		}
		return channel.Put([]byte(character), updated)
	})
}

// RemoveInitiative deletes the character's entry.
func (s *Store) RemoveInitiative(ctx context.Context, channelID, character string) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		channel, err := channelBucket(tx, channelID, false)
		if err != nil || channel == nil {
			return err
		}
		return channel.Delete([]byte(character))
	})
}

// ClearInitiative deletes every entry in the channel.
func (s *Store) ClearInitiative(ctx context.Context, channelID string) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(initiativeBucket))
		if root == nil {
			return fmt.Errorf("initiative bucket is missing")
		}
		if root.Bucket([]byte(channelID)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(channelID))
	})
}

// InitiativeRows returns every persisted entry across channels.
func (s *Store) InitiativeRows(ctx context.Context) ([]storage.InitiativeRow, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var rows []storage.InitiativeRow
	err := s.db.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(initiativeBucket))
		if root == nil {
			return fmt.Errorf("initiative bucket is missing")
		}
		return root.ForEachBucket(func(channelID []byte) error {
			channel := root.Bucket(channelID)
			return channel.ForEach(func(_, payload []byte) error {
				var row storage.InitiativeRow
				if err := json.Unmarshal(payload, &row); err != nil {
					return fmt.Errorf("unmarshal initiative row: %w", err)
				}
				rows = append(rows, row)
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(initiativeBucket))
		if err != nil {
			return fmt.Errorf("create initiative bucket: %w", err)
		}
		return nil
	})
}

// channelBucket returns the channel's sub-bucket, creating it on demand
// when create is set. A nil bucket without error means the channel has no
// entries.
func channelBucket(tx *bbolt.Tx, channelID string, create bool) (*bbolt.Bucket, error) {
	root := tx.Bucket([]byte(initiativeBucket))
	if root == nil {
		return nil, fmt.Errorf("initiative bucket is missing")
	}
	if create {
		channel, err := root.CreateBucketIfNotExists([]byte(channelID))
		if err != nil {
			return nil, fmt.Errorf("create channel bucket: %w", err)
		}
		return channel, nil
	}
	return root.Bucket([]byte(channelID)), nil
}

var _ storage.InitiativeStore = (*Store)(nil)
