package buffer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/social/domain"
)

// Store persists pending edge repairs in BoltDB, oldest first.
// A second bucket maps item ids to their ordered keys so re-enqueueing an id replaces it.
// Items that exhaust their retries or outlive the retention window are parked in a
// dead-letter bucket until an operator revives them.
type Store struct {
	db     *bolt.DB
	bucket []byte
	ids    []byte
	dead   []byte
}

// Open initializes the BoltDB file and ensures the buckets exist.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "repairs"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:     db,
		bucket: []byte(bucket),
		ids:    []byte(bucket + "_ids"),
		dead:   []byte(bucket + "_dead"),
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{s.bucket, s.ids, s.dead} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Enqueue stores item, replacing any queued item with the same id.
// Retry bookkeeping of the replaced item is kept.
func (s *Store) Enqueue(item Item) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if !item.Change.Valid() {
		return domain.ErrInvalidPayload
	}
	item.normalize()

	return s.db.Update(func(tx *bolt.Tx) error {
		return s.put(tx, item)
	})
}

func (s *Store) put(tx *bolt.Tx, item Item) error {
	b, ids := tx.Bucket(s.bucket), tx.Bucket(s.ids)
	if oldKey := ids.Get([]byte(item.ID)); oldKey != nil {
		if raw := b.Get(oldKey); raw != nil {
			var previous Item
			if err := json.Unmarshal(raw, &previous); err == nil {
				item.Retries = max(item.Retries, previous.Retries)
				item.EnqueuedAt = previous.EnqueuedAt
			}
		}
		if err := b.Delete(oldKey); err != nil {
			return err
		}
	}

	key := buildKey(item)
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	if err := b.Put(key, payload); err != nil {
		return err
	}
	return ids.Put([]byte(item.ID), key)
}

// GetBatch returns up to limit items without removing them.
func (s *Store) GetBatch(limit int) ([]Item, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil && len(items) < limit; k, v = c.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				continue
			}
			item.bucketKey = append([]byte(nil), k...)
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

// Remove deletes the provided item from the queue.
func (s *Store) Remove(item Item) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return s.remove(tx, item)
	})
}

func (s *Store) remove(tx *bolt.Tx, item Item) error {
	b, ids := tx.Bucket(s.bucket), tx.Bucket(s.ids)
	key := item.bucketKey
	if current := ids.Get([]byte(item.ID)); current != nil {
		key = append([]byte(nil), current...)
	}
	if len(key) == 0 {
		return nil
	}
	if err := b.Delete(key); err != nil {
		return err
	}
	return ids.Delete([]byte(item.ID))
}

// Bury moves item from the queue to the dead-letter bucket, keeping its retry record.
func (s *Store) Bury(item Item) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := s.remove(tx, item); err != nil {
			return err
		}
		return s.bury(tx, item)
	})
}

func (s *Store) bury(tx *bolt.Tx, item Item) error {
	item.bucketKey = nil
	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return tx.Bucket(s.dead).Put([]byte(item.ID), payload)
}

// DeadLetters returns up to limit parked items.
func (s *Store) DeadLetters(limit int) ([]Item, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}
	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.dead).Cursor()
		for k, v := c.First(); k != nil && len(items) < limit; k, v = c.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				continue
			}
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

// DeadSize returns the number of parked items.
func (s *Store) DeadSize() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.dead).Stats().KeyN
		return nil
	})
	return count, err
}

// Revive moves every parked item back to the queue with a fresh retry budget.
func (s *Store) Revive() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	revived := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		dead := tx.Bucket(s.dead)
		var items []Item
		if err := dead.ForEach(func(_, v []byte) error {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				return nil
			}
			items = append(items, item)
			return nil
		}); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, item := range items {
			if err := dead.Delete([]byte(item.ID)); err != nil {
				return err
			}
			item.Retries = 0
			item.Timestamp = now
			item.EnqueuedAt = now
			if err := s.put(tx, item); err != nil {
				return err
			}
		}
		revived = len(items)
		return nil
	})
	return revived, err
}

// Requeue moves an item to the back of the queue after a failed attempt.
func (s *Store) Requeue(item Item) error {
	item.bucketKey = nil
	item.Timestamp = time.Now().UTC()
	return s.Enqueue(item)
}

// Size returns the number of queued items.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Cleanup parks items first enqueued before olderThan in the dead-letter bucket.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	parked := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		var stale []Item
		err := tx.Bucket(s.bucket).ForEach(func(k, v []byte) error {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				return nil
			}
			if item.EnqueuedAt.Before(olderThan) {
				item.bucketKey = append([]byte(nil), k...)
				stale = append(stale, item)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, item := range stale {
			if err := s.remove(tx, item); err != nil {
				return err
			}
			if err := s.bury(tx, item); err != nil {
				return err
			}
		}
		parked = len(stale)
		return nil
	})
	return parked, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes Bolt statistics for monitoring endpoints.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

func buildKey(item Item) []byte {
	return []byte(fmt.Sprintf("%020d_%s", item.Timestamp.UnixNano(), item.ID))
}
