package boltdb

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newDoc(kind, owner, key string) *domain.Aggregate {
	return &domain.Aggregate{
		Kind:      kind,
		OwnerID:   owner,
		UniqueKey: key,
		Payload:   json.RawMessage(`{"n":1}`),
	}
}

func TestInsertAssignsIdentity(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	doc := newDoc(domain.KindPost, "u1", "")
	require.NoError(t, store.Insert(ctx, doc))

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, 1, doc.Version)
	assert.False(t, doc.CreatedAt.IsZero())

	loaded, err := store.Get(ctx, domain.KindPost, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.OwnerID, loaded.OwnerID)
	assert.JSONEq(t, `{"n":1}`, string(loaded.Payload))
}

func TestInsertRejectsTakenUniqueKey(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newDoc(domain.KindGroup, "u1", "code:go")))
	err := store.Insert(ctx, newDoc(domain.KindGroup, "u2", "code:go"))
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	// keys are scoped per kind
	require.NoError(t, store.Insert(ctx, newDoc(domain.KindProfile, "u2", "code:go")))
}

func TestUpdateComparesVersion(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	doc := newDoc(domain.KindProfile, "u1", "owner:u1")
	require.NoError(t, store.Insert(ctx, doc))

	stale := *doc
	doc.Payload = json.RawMessage(`{"n":2}`)
	require.NoError(t, store.Update(ctx, doc))
	assert.Equal(t, 2, doc.Version)

	stale.Payload = json.RawMessage(`{"n":3}`)
	assert.ErrorIs(t, store.Update(ctx, &stale), domain.ErrVersionConflict)

	loaded, err := store.Get(ctx, domain.KindProfile, doc.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":2}`, string(loaded.Payload))
	assert.Equal(t, doc.CreatedAt.UnixNano(), loaded.CreatedAt.UnixNano())
}

func TestUpdateMovesUniqueKey(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	first := newDoc(domain.KindGroup, "u1", "code:a")
	second := newDoc(domain.KindGroup, "u1", "code:b")
	require.NoError(t, store.Insert(ctx, first))
	require.NoError(t, store.Insert(ctx, second))

	second.UniqueKey = "code:a"
	assert.ErrorIs(t, store.Update(ctx, second), domain.ErrDuplicateKey)

	first.UniqueKey = "code:c"
	require.NoError(t, store.Update(ctx, first))

	_, err := store.FindByUniqueKey(ctx, domain.KindGroup, "code:a")
	assert.ErrorIs(t, err, domain.ErrAggregateNotFound)

	found, err := store.FindByUniqueKey(ctx, domain.KindGroup, "code:c")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	doc := newDoc(domain.KindPost, "u1", "")
	doc.ID = "missing"
	assert.ErrorIs(t, store.Update(ctx, doc), domain.ErrAggregateNotFound)
	assert.ErrorIs(t, store.Delete(ctx, domain.KindPost, "missing"), domain.ErrAggregateNotFound)
}

func TestDeleteReleasesUniqueKey(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	doc := newDoc(domain.KindAccount, "", "email:a@example.com")
	require.NoError(t, store.Insert(ctx, doc))
	require.NoError(t, store.Delete(ctx, domain.KindAccount, doc.ID))

	require.NoError(t, store.Insert(ctx, newDoc(domain.KindAccount, "", "email:a@example.com")))
}

func TestListFilters(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	a := newDoc(domain.KindConversation, "u1", "pair:u1|u2")
	a.Labels = map[string]string{"participant1": "u1", "participant2": "u2"}
	b := newDoc(domain.KindConversation, "u3", "pair:u1|u3")
	b.Labels = map[string]string{"participant1": "u3", "participant2": "u1"}
	c := newDoc(domain.KindConversation, "u2", "pair:u2|u3")
	c.Labels = map[string]string{"participant1": "u2", "participant2": "u3"}
	for _, doc := range []*domain.Aggregate{a, b, c} {
		require.NoError(t, store.Insert(ctx, doc))
	}
	require.NoError(t, store.Insert(ctx, newDoc(domain.KindPost, "u1", "")))

	docs, err := store.List(ctx, repository.AggregateFilter{
		Kind:       domain.KindConversation,
		LabelKeys:  []string{"participant1", "participant2"},
		LabelValue: "u1",
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, []string{docs[0].ID, docs[1].ID})

	docs, err = store.List(ctx, repository.AggregateFilter{OwnerID: "u1"})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = store.List(ctx, repository.AggregateFilter{Kind: domain.KindConversation, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = store.List(ctx, repository.AggregateFilter{Kind: domain.KindConversation, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestPing(t *testing.T) {
	store := createTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
