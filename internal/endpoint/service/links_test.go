package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/appgate/internal/access/domain"
)

func TestLinkSetBuilderNone(t *testing.T) {
	builder := NewLinkSetBuilder(newTestRegistry(t), "/app")

	links := builder.Build(accessDomain.AccessLevelNone)
	assert.Equal(t, 0, links.Len())
}

func TestLinkSetBuilderRestricted(t *testing.T) {
	builder := NewLinkSetBuilder(newTestRegistry(t), "/app")

	links := builder.Build(accessDomain.AccessLevelRestricted)

	// exactly self and info; env is readable at RESTRICTED but not advertised
	assert.Equal(t, []string{"self", "info"}, links.Names())

	self, ok := links.Get("self")
	require.True(t, ok)
	assert.Equal(t, "/app", self.Href)
	assert.False(t, self.Templated)

	info, ok := links.Get("info")
	require.True(t, ok)
	assert.Equal(t, "/app/info", info.Href)
	assert.False(t, info.Templated)
}

func TestLinkSetBuilderFull(t *testing.T) {
	registry := newTestRegistry(t)
	builder := NewLinkSetBuilder(registry, "/app")

	links := builder.Build(accessDomain.AccessLevelFull)

	// one entry per registered endpoint plus self
	assert.Equal(t, registry.Len()+1, links.Len())
	assert.Equal(
		t,
		[]string{"self", "info", "env", "health", "loggers", "loggers-name"},
		links.Names(),
	)

	named, ok := links.Get("loggers-name")
	require.True(t, ok)
	assert.Equal(t, "/app/loggers/{name}", named.Href)
	assert.True(t, named.Templated)

	plain, ok := links.Get("loggers")
	require.True(t, ok)
	assert.Equal(t, "/app/loggers", plain.Href)
	assert.False(t, plain.Templated)
}

func TestLinkSetBuilderTrimsTrailingSlash(t *testing.T) {
	builder := NewLinkSetBuilder(newTestRegistry(t), "/app/")

	links := builder.Build(accessDomain.AccessLevelRestricted)
	self, _ := links.Get("self")
	assert.Equal(t, "/app", self.Href)
	info, _ := links.Get("info")
	assert.Equal(t, "/app/info", info.Href)
}

func TestLinkSetBuilderIdempotent(t *testing.T) {
	builder := NewLinkSetBuilder(newTestRegistry(t), "/app")

	for _, level := range []accessDomain.AccessLevel{
		accessDomain.AccessLevelRestricted,
		accessDomain.AccessLevelFull,
	} {
		first, err := json.Marshal(builder.Build(level))
		require.NoError(t, err)
		second, err := json.Marshal(builder.Build(level))
		require.NoError(t, err)

		assert.Equal(t, first, second, "link set for %s must be byte-identical across calls", level)
	}
}
