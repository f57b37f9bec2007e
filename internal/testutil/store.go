// Package testutil provides bbolt-backed fixtures for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
	"github.com/fastygo/social/repository/boltdb"
	"github.com/fastygo/social/repository/document"
)

// NewStore opens a fresh bbolt document store that is closed when the test ends.
func NewStore(t *testing.T) *boltdb.Store {
	t.Helper()
	store, err := boltdb.Open(filepath.Join(t.TempDir(), "aggregates.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Repos bundles the typed repositories over one store.
type Repos struct {
	Store         repository.AggregateStore
	Accounts      repository.AccountRepository
	Profiles      repository.ProfileRepository
	Groups        repository.GroupRepository
	Posts         repository.PostRepository
	Conversations repository.ConversationRepository
}

// NewRepos wires every typed repository to store.
func NewRepos(store repository.AggregateStore) Repos {
	return Repos{
		Store:         store,
		Accounts:      document.NewAccountRepository(store),
		Profiles:      document.NewProfileRepository(store),
		Groups:        document.NewGroupRepository(store),
		Posts:         document.NewPostRepository(store),
		Conversations: document.NewConversationRepository(store),
	}
}

// FaultyStore wraps a store and lets a test fail selected updates.
type FaultyStore struct {
	repository.AggregateStore

	mu         sync.Mutex
	failUpdate func(doc *domain.Aggregate) error
	beforeSave func(doc *domain.Aggregate)
}

func NewFaultyStore(inner repository.AggregateStore) *FaultyStore {
	return &FaultyStore{AggregateStore: inner}
}

// FailUpdates installs fn; a non-nil result is returned instead of saving.
func (s *FaultyStore) FailUpdates(fn func(doc *domain.Aggregate) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUpdate = fn
}

// BeforeUpdate installs fn to run ahead of every update, e.g. to race a concurrent writer.
func (s *FaultyStore) BeforeUpdate(fn func(doc *domain.Aggregate)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeSave = fn
}

func (s *FaultyStore) Update(ctx context.Context, doc *domain.Aggregate) error {
	s.mu.Lock()
	fail, before := s.failUpdate, s.beforeSave
	s.mu.Unlock()

	if before != nil {
		before(doc)
	}
	if fail != nil {
		if err := fail(doc); err != nil {
			return err
		}
	}
	return s.AggregateStore.Update(ctx, doc)
}

// OwnedBy matches profile documents of userID.
func OwnedBy(doc *domain.Aggregate, kind, userID string) bool {
	return doc.Kind == kind && doc.OwnerID == userID
}
