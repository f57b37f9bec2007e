package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/social/domain"
	"github.com/fastygo/social/repository"
)

const uniqueViolation = "23505"

type aggregateStore struct {
	pool *pgxpool.Pool
}

// NewAggregateStore creates a Postgres-backed AggregateStore implementation.
func NewAggregateStore(pool *pgxpool.Pool) repository.AggregateStore {
	return &aggregateStore{pool: pool}
}

const selectColumns = `id, kind, owner_id, unique_key, version, payload, labels, created_at, updated_at`

func (r *aggregateStore) Get(ctx context.Context, kind, id string) (*domain.Aggregate, error) {
	query := `SELECT ` + selectColumns + ` FROM aggregates WHERE kind = $1 AND id = $2`
	return scanAggregate(r.pool.QueryRow(ctx, query, kind, id))
}

func (r *aggregateStore) FindByUniqueKey(ctx context.Context, kind, key string) (*domain.Aggregate, error) {
	query := `SELECT ` + selectColumns + ` FROM aggregates WHERE kind = $1 AND unique_key = $2`
	return scanAggregate(r.pool.QueryRow(ctx, query, kind, key))
}

func (r *aggregateStore) List(ctx context.Context, filter repository.AggregateFilter) ([]domain.Aggregate, error) {
	query := `
	SELECT ` + selectColumns + `
	FROM aggregates
	WHERE ($1 = '' OR kind = $1)
	  AND ($2 = '' OR owner_id = $2)
	  AND ($3 = '' OR EXISTS (
		SELECT 1 FROM jsonb_each_text(COALESCE(labels, '{}'::jsonb)) AS l
		WHERE l.key = ANY($4::text[]) AND l.value = $3
	  ))
	ORDER BY updated_at DESC
	LIMIT $5 OFFSET $6
	`
	keys := filter.LabelKeys
	if keys == nil {
		keys = []string{}
	}
	rows, err := r.pool.Query(ctx, query,
		filter.Kind,
		filter.OwnerID,
		filter.LabelValue,
		keys,
		repository.ClampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggregates []domain.Aggregate
	for rows.Next() {
		entity, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, *entity)
	}
	return aggregates, rows.Err()
}

func (r *aggregateStore) Insert(ctx context.Context, aggregate *domain.Aggregate) error {
	if aggregate == nil || aggregate.Kind == "" {
		return domain.ErrInvalidPayload
	}
	if aggregate.ID == "" {
		aggregate.ID = uuid.NewString()
	}
	labels, err := labelsParam(aggregate.Labels)
	if err != nil {
		return err
	}

	const query = `
	INSERT INTO aggregates (id, kind, owner_id, unique_key, version, payload, labels, created_at, updated_at)
	VALUES ($1, $2, $3, $4, 1, $5, $6, NOW(), NOW())
	RETURNING version, created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		aggregate.ID,
		aggregate.Kind,
		aggregate.OwnerID,
		uniqueKeyParam(aggregate.UniqueKey),
		[]byte(aggregate.Payload),
		labels,
	).Scan(&aggregate.Version, &aggregate.CreatedAt, &aggregate.UpdatedAt); err != nil {
		return translateError(err)
	}
	return nil
}

func (r *aggregateStore) Update(ctx context.Context, aggregate *domain.Aggregate) error {
	if aggregate == nil || aggregate.ID == "" || aggregate.Kind == "" {
		return domain.ErrInvalidPayload
	}
	labels, err := labelsParam(aggregate.Labels)
	if err != nil {
		return err
	}

	const query = `
	UPDATE aggregates
	SET owner_id = $4,
		unique_key = $5,
		payload = $6,
		labels = $7,
		version = version + 1,
		updated_at = NOW()
	WHERE kind = $1 AND id = $2 AND version = $3
	RETURNING version, updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		aggregate.Kind,
		aggregate.ID,
		aggregate.Version,
		aggregate.OwnerID,
		uniqueKeyParam(aggregate.UniqueKey),
		[]byte(aggregate.Payload),
		labels,
	).Scan(&aggregate.Version, &aggregate.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return translateError(err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM aggregates WHERE kind = $1 AND id = $2)`,
		aggregate.Kind, aggregate.ID,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrAggregateNotFound
	}
	return domain.ErrVersionConflict
}

func (r *aggregateStore) Delete(ctx context.Context, kind, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM aggregates WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAggregateNotFound
	}
	return nil
}

func (r *aggregateStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanAggregate(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Aggregate, error) {
	var entity domain.Aggregate
	var (
		uniqueKey *string
		payload   []byte
		labels    []byte
	)

	if err := row.Scan(
		&entity.ID,
		&entity.Kind,
		&entity.OwnerID,
		&uniqueKey,
		&entity.Version,
		&payload,
		&labels,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAggregateNotFound
		}
		return nil, err
	}

	if uniqueKey != nil {
		entity.UniqueKey = *uniqueKey
	}
	entity.Payload = make([]byte, len(payload))
	copy(entity.Payload, payload)
	if len(labels) > 0 {
		if err := json.Unmarshal(labels, &entity.Labels); err != nil {
			return nil, err
		}
	}

	return &entity, nil
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.WrapError(domain.ErrCodeConflict, pgErr.ConstraintName, domain.ErrDuplicateKey)
	}
	return err
}
