package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkSetOrdering(t *testing.T) {
	set := NewLinkSet()
	set.Add("self", LinkEntry{Href: "https://example.com/app"})
	set.Add("info", LinkEntry{Href: "https://example.com/app/info"})
	set.Add("loggers-name", LinkEntry{Href: "https://example.com/app/loggers/{name}", Templated: true})

	assert.Equal(t, []string{"self", "info", "loggers-name"}, set.Names())
	assert.Equal(t, 3, set.Len())

	entry, ok := set.Get("loggers-name")
	require.True(t, ok)
	assert.True(t, entry.Templated)

	_, ok = set.Get("env")
	assert.False(t, ok)
}

func TestLinkSetAddKeepsPositionOnOverwrite(t *testing.T) {
	set := NewLinkSet()
	set.Add("self", LinkEntry{Href: "first"})
	set.Add("info", LinkEntry{Href: "second"})
	set.Add("self", LinkEntry{Href: "replaced"})

	assert.Equal(t, []string{"self", "info"}, set.Names())
	entry, _ := set.Get("self")
	assert.Equal(t, "replaced", entry.Href)
}

func TestLinkSetMarshalJSON(t *testing.T) {
	set := NewLinkSet()
	set.Add("self", LinkEntry{Href: "https://example.com/app"})
	set.Add("info", LinkEntry{Href: "https://example.com/app/info"})

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`{
			"self": {"href": "https://example.com/app", "templated": false},
			"info": {"href": "https://example.com/app/info", "templated": false}
		}`,
		string(data),
	)

	// self must serialize before info
	assert.Less(t, strings.Index(string(data), `"self"`), strings.Index(string(data), `"info"`))
}

func TestLinkSetMarshalIsByteStable(t *testing.T) {
	build := func() *LinkSet {
		set := NewLinkSet()
		set.Add("self", LinkEntry{Href: "/app"})
		set.Add("info", LinkEntry{Href: "/app/info"})
		set.Add("env", LinkEntry{Href: "/app/env"})
		return set
	}

	first, err := json.Marshal(build())
	require.NoError(t, err)
	second, err := json.Marshal(build())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
