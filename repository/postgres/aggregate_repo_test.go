package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

// newTestStore connects to TEST_DATABASE_URL and recreates the aggregates table.
func newTestStore(t *testing.T) repository.AggregateStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../assets/migrations/000001_create_aggregates.up.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS aggregates`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	return NewAggregateStore(pool)
}

func TestAggregateStoreVersioning(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &domain.Aggregate{
		Kind:      domain.KindGroup,
		OwnerID:   "alice",
		UniqueKey: "code:go",
		Payload:   []byte(`{"name":"Gophers"}`),
		Labels:    map[string]string{"name": "Gophers"},
	}
	require.NoError(t, store.Insert(ctx, doc))
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, 1, doc.Version)

	stale := *doc
	require.NoError(t, store.Update(ctx, doc))
	assert.Equal(t, 2, doc.Version)
	assert.ErrorIs(t, store.Update(ctx, &stale), domain.ErrVersionConflict)

	dup := &domain.Aggregate{Kind: domain.KindGroup, UniqueKey: "code:go", Payload: []byte(`{}`)}
	assert.ErrorIs(t, store.Insert(ctx, dup), domain.ErrDuplicateKey)

	found, err := store.FindByUniqueKey(ctx, domain.KindGroup, "code:go")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, found.ID)
	assert.JSONEq(t, `{"name":"Gophers"}`, string(found.Payload))

	listed, err := store.List(ctx, repository.AggregateFilter{
		Kind:       domain.KindGroup,
		LabelKeys:  []string{"name"},
		LabelValue: "Gophers",
	})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, store.Delete(ctx, domain.KindGroup, doc.ID))
	_, err = store.Get(ctx, domain.KindGroup, doc.ID)
	assert.ErrorIs(t, err, domain.ErrAggregateNotFound)
	assert.ErrorIs(t, store.Update(ctx, doc), domain.ErrAggregateNotFound)
}
