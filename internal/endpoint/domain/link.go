package domain

import (
	"bytes"
	"encoding/json"
)

// LinkEntry is one hypermedia link in a discovery response.
type LinkEntry struct {
	// Href is the link target. Templated links contain a {selector} placeholder.
	Href string `json:"href"`

	// Templated is true iff Href contains a path selector placeholder.
	Templated bool `json:"templated"`
}

// LinkSet is an ordered mapping of link name to entry. Names are unique and
// serialization preserves insertion order, so identical inputs always produce
// byte-identical JSON.
type LinkSet struct {
	names   []string
	entries map[string]LinkEntry
}

// NewLinkSet creates an empty link set.
func NewLinkSet() *LinkSet {
	return &LinkSet{entries: make(map[string]LinkEntry)}
}

// Add appends a named link. Adding an existing name overwrites the entry but
// keeps the original position.
func (s *LinkSet) Add(name string, entry LinkEntry) {
	if _, exists := s.entries[name]; !exists {
		s.names = append(s.names, name)
	}
	s.entries[name] = entry
}

// Get returns the entry for the given name.
func (s *LinkSet) Get(name string) (LinkEntry, bool) {
	entry, ok := s.entries[name]
	return entry, ok
}

// Names returns the link names in insertion order.
func (s *LinkSet) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Len returns the number of links in the set.
func (s *LinkSet) Len() int {
	return len(s.names)
}

// MarshalJSON serializes the set as a JSON object in insertion order.
func (s *LinkSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}

		nameJSON, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(nameJSON)
		buf.WriteByte(':')

		entryJSON, err := json.Marshal(s.entries[name])
		if err != nil {
			return nil, err
		}
		buf.Write(entryJSON)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
