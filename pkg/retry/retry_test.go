package retry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/kiogloss/storefront/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func TestDoWithResult(t *testing.T) {
	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		var calls int
		cfg := retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.LinearBackoff(time.Millisecond),
		}

		v, err := retry.DoWithResult(t.Context(), cfg, func() (int, error) {
			calls++
			if calls < 3 {
				return 0, errTransient
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 3, calls)
	})

	t.Run("BudgetSpent", func(t *testing.T) {
		var calls int
		cfg := retry.RetryConfig{
			MaxAttempts: 2,
			Backoff:     retry.LinearBackoff(time.Millisecond),
		}

		_, err := retry.DoWithResult(t.Context(), cfg, func() (int, error) {
			calls++
			return 0, errTransient
		})
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 2, calls)
	})

	t.Run("NonRetryableStopsEarly", func(t *testing.T) {
		fatal := errors.New("fatal")
		var calls int
		cfg := retry.RetryConfig{
			MaxAttempts: 5,
			Backoff:     retry.LinearBackoff(time.Millisecond),
			ShouldRetry: func(err error) bool { return errors.Is(err, errTransient) },
		}

		_, err := retry.DoWithResult(t.Context(), cfg, func() (int, error) {
			calls++
			return 0, fatal
		})
		assert.ErrorIs(t, err, fatal)
		assert.Equal(t, 1, calls)
	})
}
