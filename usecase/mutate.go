package usecase

import "context"

// Mutate loads an aggregate, applies fn and saves the result, repeating the whole
// sequence while the save loses a version race. fn reports false when the aggregate
// is unchanged, in which case nothing is written.
func Mutate[T any](
	ctx context.Context,
	policy RetryPolicy,
	load func(ctx context.Context) (T, error),
	save func(ctx context.Context, v T) error,
	fn func(v T) (bool, error),
) (T, error) {
	var result T
	err := RetryOnConflict(ctx, policy, func() error {
		v, err := load(ctx)
		if err != nil {
			return err
		}
		changed, err := fn(v)
		if err != nil {
			return err
		}
		if changed {
			if err := save(ctx, v); err != nil {
				return err
			}
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
