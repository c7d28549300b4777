package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/appgate/internal/errors"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		wrapped := apperrors.Wrap(apperrors.ErrNotFound, "application lookup")

		assert.Error(t, wrapped)
		assert.Equal(t, "application lookup: not found", wrapped.Error())
		assert.True(t, apperrors.Is(wrapped, apperrors.ErrNotFound))
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.NoError(t, apperrors.Wrap(nil, "context"))
	})

	t.Run("preserves chain across multiple wraps", func(t *testing.T) {
		inner := apperrors.Wrap(apperrors.ErrUnavailable, "permissions call")
		outer := fmt.Errorf("resolve access level: %w", inner)

		assert.True(t, apperrors.Is(outer, apperrors.ErrUnavailable))
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		apperrors.ErrNotFound,
		apperrors.ErrInvalidInput,
		apperrors.ErrUnauthorized,
		apperrors.ErrForbidden,
		apperrors.ErrTimeout,
		apperrors.ErrUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, apperrors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}
