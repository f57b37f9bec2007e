package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

var uniqueBucket = []byte("unique")

// Store keeps aggregate documents in a bbolt file, one bucket per kind.
// Every write runs in a single bolt transaction, so the version check and the
// unique index update are atomic.
type Store struct {
	db *bolt.DB
}

var _ repository.AggregateStore = (*Store)(nil)

// Open creates the file if needed and prepares the unique index bucket.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(uniqueBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(uniqueBucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

func (s *Store) Get(ctx context.Context, kind, id string) (*domain.Aggregate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doc *domain.Aggregate
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		doc, err = load(tx, kind, id)
		return err
	})
	return doc, err
}

func (s *Store) FindByUniqueKey(ctx context.Context, kind, key string) (*domain.Aggregate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doc *domain.Aggregate
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(uniqueBucket).Get(uniqueIndexKey(kind, key))
		if id == nil {
			return domain.ErrAggregateNotFound
		}
		var err error
		doc, err = load(tx, kind, string(id))
		return err
	})
	return doc, err
}

func (s *Store) List(ctx context.Context, filter repository.AggregateFilter) ([]domain.Aggregate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var docs []domain.Aggregate
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			kind, ok := kindOf(name)
			if !ok || (filter.Kind != "" && kind != filter.Kind) {
				return nil
			}
			return b.ForEach(func(_, v []byte) error {
				var doc domain.Aggregate
				if err := json.Unmarshal(v, &doc); err != nil {
					return err
				}
				if matches(doc, filter) {
					docs = append(docs, doc)
				}
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(docs) {
			return nil, nil
		}
		docs = docs[filter.Offset:]
	}
	if limit := repository.ClampLimit(filter.Limit); len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *Store) Insert(ctx context.Context, aggregate *domain.Aggregate) error {
	if aggregate == nil || aggregate.Kind == "" {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if aggregate.ID == "" {
		aggregate.ID = uuid.NewString()
	}

	doc := *aggregate
	doc.Version = 1
	doc.CreatedAt = time.Time{}
	doc.Touch()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(kindBucket(doc.Kind))
		if err != nil {
			return err
		}
		if b.Get([]byte(doc.ID)) != nil {
			return domain.ErrDuplicateKey
		}
		if err := claimUniqueKey(tx, doc.Kind, doc.UniqueKey, doc.ID); err != nil {
			return err
		}
		return put(b, &doc)
	})
	if err != nil {
		return err
	}

	aggregate.Version = doc.Version
	aggregate.CreatedAt = doc.CreatedAt
	aggregate.UpdatedAt = doc.UpdatedAt
	return nil
}

func (s *Store) Update(ctx context.Context, aggregate *domain.Aggregate) error {
	if aggregate == nil || aggregate.ID == "" || aggregate.Kind == "" {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var saved domain.Aggregate
	err := s.db.Update(func(tx *bolt.Tx) error {
		current, err := load(tx, aggregate.Kind, aggregate.ID)
		if err != nil {
			return err
		}
		if current.Version != aggregate.Version {
			return domain.ErrVersionConflict
		}
		if current.UniqueKey != aggregate.UniqueKey {
			if err := claimUniqueKey(tx, aggregate.Kind, aggregate.UniqueKey, aggregate.ID); err != nil {
				return err
			}
			if current.UniqueKey != "" {
				if err := tx.Bucket(uniqueBucket).Delete(uniqueIndexKey(current.Kind, current.UniqueKey)); err != nil {
					return err
				}
			}
		}

		saved = *aggregate
		saved.Version = current.Version + 1
		saved.CreatedAt = current.CreatedAt
		saved.Touch()
		return put(tx.Bucket(kindBucket(saved.Kind)), &saved)
	})
	if err != nil {
		return err
	}

	aggregate.Version = saved.Version
	aggregate.CreatedAt = saved.CreatedAt
	aggregate.UpdatedAt = saved.UpdatedAt
	return nil
}

func (s *Store) Delete(ctx context.Context, kind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		current, err := load(tx, kind, id)
		if err != nil {
			return err
		}
		if current.UniqueKey != "" {
			if err := tx.Bucket(uniqueBucket).Delete(uniqueIndexKey(kind, current.UniqueKey)); err != nil {
				return err
			}
		}
		return tx.Bucket(kindBucket(kind)).Delete([]byte(id))
	})
}

func load(tx *bolt.Tx, kind, id string) (*domain.Aggregate, error) {
	b := tx.Bucket(kindBucket(kind))
	if b == nil {
		return nil, domain.ErrAggregateNotFound
	}
	raw := b.Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrAggregateNotFound
	}
	var doc domain.Aggregate
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func put(b *bolt.Bucket, doc *domain.Aggregate) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return b.Put([]byte(doc.ID), raw)
}

func claimUniqueKey(tx *bolt.Tx, kind, key, id string) error {
	if key == "" {
		return nil
	}
	idx := tx.Bucket(uniqueBucket)
	k := uniqueIndexKey(kind, key)
	if owner := idx.Get(k); owner != nil && string(owner) != id {
		return domain.ErrDuplicateKey
	}
	return idx.Put(k, []byte(id))
}

func matches(doc domain.Aggregate, filter repository.AggregateFilter) bool {
	if filter.OwnerID != "" && doc.OwnerID != filter.OwnerID {
		return false
	}
	if filter.LabelValue == "" {
		return true
	}
	for _, key := range filter.LabelKeys {
		if doc.Labels[key] == filter.LabelValue {
			return true
		}
	}
	return false
}

var kindPrefix = []byte("doc:")

func kindBucket(kind string) []byte {
	return append(append([]byte(nil), kindPrefix...), kind...)
}

func kindOf(bucket []byte) (string, bool) {
	if !bytes.HasPrefix(bucket, kindPrefix) {
		return "", false
	}
	return string(bucket[len(kindPrefix):]), true
}

func uniqueIndexKey(kind, key string) []byte {
	return []byte(kind + "\x00" + key)
}
