package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fastygo/social/domain"
)

// SeedAccount stores an account with the given email and an empty profile for it.
func SeedAccount(t *testing.T, repos Repos, email, first, last string) *domain.Account {
	t.Helper()
	ctx := context.Background()

	account := &domain.Account{Email: email, FirstName: first, LastName: last}
	require.NoError(t, repos.Accounts.Create(ctx, account))
	require.NoError(t, repos.Profiles.Create(ctx, &domain.Profile{UserID: account.ID}))
	return account
}

// Profile loads the profile of userID or fails the test.
func Profile(t *testing.T, repos Repos, userID string) *domain.Profile {
	t.Helper()
	profile, err := repos.Profiles.GetByUser(context.Background(), userID)
	require.NoError(t, err)
	return profile
}

// RepairQueue records enqueued edge changes in memory.
type RepairQueue struct {
	mu      sync.Mutex
	changes []domain.EdgeChange
	Err     error
}

func (q *RepairQueue) Enqueue(_ context.Context, change domain.EdgeChange) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.changes = append(q.changes, change)
	return nil
}

// Changes returns a copy of everything enqueued so far.
func (q *RepairQueue) Changes() []domain.EdgeChange {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.EdgeChange(nil), q.changes...)
}

// Sessions is an in-memory repository.SessionRepository.
type Sessions struct {
	mu    sync.Mutex
	items map[string]domain.Session
}

func NewSessions() *Sessions {
	return &Sessions{items: make(map[string]domain.Session)}
}

func (m *Sessions) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *Sessions) Save(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.ID] = *s
	return nil
}

func (m *Sessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *Sessions) Extend(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.ExpiresAt = time.Now().Add(ttl)
	m.items[id] = s
	return nil
}
