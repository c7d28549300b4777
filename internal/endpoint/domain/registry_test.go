package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/appgate/internal/errors"
)

func TestNewRegistry(t *testing.T) {
	t.Run("preserves registration order and defaults path to id", func(t *testing.T) {
		registry, err := NewRegistry(
			EndpointDescriptor{ID: "info", Readable: true},
			EndpointDescriptor{ID: "env", Readable: true},
			EndpointDescriptor{
				ID:       "loggers-name",
				Path:     "loggers/{name}",
				Readable: true,
				Writable: true,
				Selector: "name",
			},
		)
		require.NoError(t, err)

		all := registry.All()
		require.Len(t, all, 3)
		assert.Equal(t, "info", all[0].ID)
		assert.Equal(t, "info", all[0].Path)
		assert.Equal(t, "env", all[1].ID)
		assert.Equal(t, "loggers-name", all[2].ID)
		assert.Equal(t, "loggers/{name}", all[2].Path)
		assert.Equal(t, 3, registry.Len())
	})

	t.Run("rejects selector without path placeholder", func(t *testing.T) {
		_, err := NewRegistry(
			EndpointDescriptor{ID: "loggers-name", Readable: true, Selector: "name"},
		)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("rejects descriptor without operations", func(t *testing.T) {
		_, err := NewRegistry(EndpointDescriptor{ID: "info"})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("rejects restricted-readable without read", func(t *testing.T) {
		_, err := NewRegistry(EndpointDescriptor{ID: "info", Writable: true, RestrictedReadable: true})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("rejects empty id", func(t *testing.T) {
		_, err := NewRegistry(EndpointDescriptor{Readable: true})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("rejects reserved self id", func(t *testing.T) {
		_, err := NewRegistry(EndpointDescriptor{ID: "self", Readable: true})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		_, err := NewRegistry(
			EndpointDescriptor{ID: "info", Readable: true},
			EndpointDescriptor{ID: "info", Readable: true},
		)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestRegistryLookup(t *testing.T) {
	registry, err := NewRegistry(
		EndpointDescriptor{ID: "info", Readable: true, RestrictedReadable: true, Discoverable: true},
	)
	require.NoError(t, err)

	descriptor, ok := registry.Lookup("info")
	require.True(t, ok)
	assert.True(t, descriptor.RestrictedReadable)
	assert.True(t, descriptor.Discoverable)

	_, ok = registry.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryMatch(t *testing.T) {
	registry, err := NewRegistry(
		EndpointDescriptor{ID: "loggers", Readable: true, Writable: true},
		EndpointDescriptor{
			ID:       "loggers-name",
			Path:     "loggers/{name}",
			Readable: true,
			Writable: true,
			Selector: "name",
		},
		EndpointDescriptor{ID: "info", Readable: true},
	)
	require.NoError(t, err)

	descriptor, ok := registry.Match("loggers", false)
	require.True(t, ok)
	assert.Equal(t, "loggers", descriptor.ID)

	descriptor, ok = registry.Match("loggers", true)
	require.True(t, ok)
	assert.Equal(t, "loggers-name", descriptor.ID)

	_, ok = registry.Match("info", true)
	assert.False(t, ok, "info takes no selector")

	_, ok = registry.Match("missing", false)
	assert.False(t, ok)
}

func TestDescriptorTemplated(t *testing.T) {
	descriptor := EndpointDescriptor{
		ID:       "loggers-name",
		Path:     "loggers/{name}",
		Readable: true,
		Writable: true,
		Selector: "name",
	}
	assert.True(t, descriptor.Templated())

	readOnly := EndpointDescriptor{ID: "info", Readable: true}
	assert.False(t, readOnly.Templated())
}
