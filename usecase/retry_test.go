package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/social/domain"
)

var fastPolicy = RetryPolicy{MaxAttempts: 4, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

func TestRetryOnConflictRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := RetryOnConflict(context.Background(), fastPolicy, func() error {
		attempts++
		if attempts < 3 {
			return domain.ErrVersionConflict
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryOnConflictStopsOnOtherErrors(t *testing.T) {
	attempts := 0
	err := RetryOnConflict(context.Background(), fastPolicy, func() error {
		attempts++
		return domain.ErrAlreadyLiked
	})

	assert.ErrorIs(t, err, domain.ErrAlreadyLiked)
	assert.Equal(t, domain.ReasonAlreadyLiked, domain.ReasonOf(err))
	assert.Equal(t, 1, attempts)
}

func TestRetryOnConflictGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	err := RetryOnConflict(context.Background(), fastPolicy, func() error {
		attempts++
		return domain.ErrVersionConflict
	})

	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.Equal(t, 4, attempts)
}

func TestRetryOnConflictKeepsWrappedCause(t *testing.T) {
	cause := errors.New("disk full")
	err := RetryOnConflict(context.Background(), fastPolicy, func() error {
		return domain.WrapError(domain.ErrCodeInternal, "save profile", cause)
	})

	assert.ErrorIs(t, err, cause)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
}

func TestRetryPolicyDefaults(t *testing.T) {
	p := RetryPolicy{}.withDefaults()
	assert.Equal(t, DefaultRetryPolicy, p)

	p = RetryPolicy{MaxAttempts: 2, InitialInterval: time.Second, MaxInterval: time.Millisecond}.withDefaults()
	assert.Equal(t, time.Second, p.MaxInterval)
}

type counter struct {
	Value   int
	Version int
}

func TestMutateReloadsAfterConflict(t *testing.T) {
	stored := counter{Version: 1}
	loads, saves := 0, 0

	load := func(context.Context) (*counter, error) {
		loads++
		c := stored
		return &c, nil
	}
	save := func(_ context.Context, c *counter) error {
		saves++
		if saves == 1 {
			// another writer got there first
			stored = counter{Value: 10, Version: 2}
			return domain.ErrVersionConflict
		}
		if c.Version != stored.Version {
			return domain.ErrVersionConflict
		}
		c.Version++
		stored = *c
		return nil
	}

	result, err := Mutate(context.Background(), fastPolicy, load, save, func(c *counter) (bool, error) {
		c.Value++
		return true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 11, result.Value)
	assert.Equal(t, 2, loads)
	assert.Equal(t, counter{Value: 11, Version: 3}, stored)
}

func TestMutateSkipsSaveWhenUnchanged(t *testing.T) {
	saved := false
	_, err := Mutate(context.Background(), fastPolicy,
		func(context.Context) (*counter, error) { return &counter{}, nil },
		func(context.Context, *counter) error {
			saved = true
			return nil
		},
		func(*counter) (bool, error) { return false, nil },
	)

	require.NoError(t, err)
	assert.False(t, saved)
}
