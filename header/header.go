// Package header implements the case-insensitive field-name/field-value
// container the engine uses for both inbound and outbound messages, plus
// the line-oriented absorber that feeds it from a byte stream.
//
// Field names are stored exactly as first received (spec invariant: "A
// header field-name is stored exactly as first received; comparisons are
// case-insensitive"); lookups fold case. Serialization is deterministic:
// case-insensitive lexicographic order over field names, so two runs over
// the same logical header set always produce byte-identical output.
package header

import (
	"sort"
	"strings"
)

// entry is one stored field: the name exactly as received, and its value
// (repeated fields already joined with "," by Add, obs-fold continuations
// with ", " by AddFoldedJoin).
type entry struct {
	name  string
	value string
}

// Map is a case-insensitive field-name to field-value container.
type Map struct {
	entries []entry
	index   map[string]int // lower(name) -> index into entries
}

// New returns an empty header map.
func New() *Map {
	return &Map{index: make(map[string]int, 8)}
}

func fold(name string) string {
	return strings.ToLower(name)
}

// Get returns the value stored for name, and whether it was present.
func (m *Map) Get(name string) (string, bool) {
	if m == nil || m.index == nil {
		return "", false
	}
	i, ok := m.index[fold(name)]
	if !ok {
		return "", false
	}
	return m.entries[i].value, true
}

// GetDefault returns the stored value for name, or def if absent.
func (m *Map) GetDefault(name, def string) string {
	if v, ok := m.Get(name); ok {
		return v
	}
	return def
}

// Has reports whether a field named name (compared case-insensitively) is
// stored. An empty Add never stores a field, so Has reports false for it.
func (m *Map) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Set replaces any existing value for name with value. An empty value
// clears the field entirely (mirrors the "inserting an empty value is a
// no-op" rule for Add, generalized: Set never leaves an empty entry behind).
func (m *Map) Set(name, value string) {
	if m.index == nil {
		m.index = make(map[string]int, 8)
	}
	key := fold(name)
	if value == "" {
		if i, ok := m.index[key]; ok {
			m.removeAt(i)
		}
		return
	}
	if i, ok := m.index[key]; ok {
		m.entries[i] = entry{name: m.entries[i].name, value: value}
		return
	}
	m.entries = append(m.entries, entry{name: name, value: value})
	m.index[key] = len(m.entries) - 1
}

// Add appends value to any existing value for name, joined by ",", per
// RFC 2616 §4.2 combination of repeated fields. Inserting an empty value is
// a no-op. If name is not yet present, value becomes the initial value
// (first-received casing is preserved).
func (m *Map) Add(name, value string) {
	if value == "" {
		return
	}
	if m.index == nil {
		m.index = make(map[string]int, 8)
	}
	key := fold(name)
	if i, ok := m.index[key]; ok {
		old := m.entries[i].value
		if old == "" {
			m.entries[i].value = value
		} else {
			m.entries[i].value = old + "," + value
		}
		return
	}
	m.entries = append(m.entries, entry{name: name, value: value})
	m.index[key] = len(m.entries) - 1
}

// AddFoldedJoin appends continuation text onto the existing value for name
// joined by ", " (used by the line parser for obs-fold continuations, which
// are conventionally joined with a space after the comma for readability).
func (m *Map) AddFoldedJoin(name, value string) {
	if m.index == nil {
		m.index = make(map[string]int, 8)
	}
	key := fold(name)
	if i, ok := m.index[key]; ok {
		old := m.entries[i].value
		if old == "" {
			m.entries[i].value = value
		} else {
			m.entries[i].value = old + ", " + value
		}
		return
	}
	m.entries = append(m.entries, entry{name: name, value: value})
	m.index[key] = len(m.entries) - 1
}

// Del removes name, if present.
func (m *Map) Del(name string) {
	if m.index == nil {
		return
	}
	if i, ok := m.index[fold(name)]; ok {
		m.removeAt(i)
	}
}

// removeAt deletes entries[i] and reindexes the entries that shifted.
func (m *Map) removeAt(i int) {
	name := m.entries[i].name
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, fold(name))
	for k, v := range m.index {
		if v > i {
			m.index[k] = v - 1
		}
	}
}

// Names returns the stored field names in case-insensitive lexicographic
// order — the same order Write uses, so tests can assert on it directly.
func (m *Map) Names() []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.name
	}
	sort.Slice(names, func(i, j int) bool {
		return fold(names[i]) < fold(names[j])
	})
	return names
}

// Len reports the number of distinct fields stored.
func (m *Map) Len() int {
	return len(m.entries)
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	out := New()
	for _, e := range m.sorted() {
		out.Set(e.name, e.value)
	}
	return out
}

// sorted returns entries in case-insensitive lexicographic name order.
func (m *Map) sorted() []entry {
	out := make([]entry, len(m.entries))
	copy(out, m.entries)
	sort.Slice(out, func(i, j int) bool {
		return fold(out[i].name) < fold(out[j].name)
	})
	return out
}

// Write appends the canonical "name: value\r\n" serialization of every
// field to buf, in case-insensitive sorted order, and returns the extended
// slice. It does not append the terminating blank line; callers that
// assemble a full message do that once after headers and body framing are
// decided.
func (m *Map) Write(buf []byte) []byte {
	for _, e := range m.sorted() {
		buf = append(buf, e.name...)
		buf = append(buf, ':', ' ')
		buf = append(buf, e.value...)
		buf = append(buf, '\r', '\n')
	}
	return buf
}

// String renders the header map the way Write does, for debugging and for
// tests asserting on exact wire text.
func (m *Map) String() string {
	return string(m.Write(nil))
}

// Each calls fn once per field in case-insensitive sorted order.
func (m *Map) Each(fn func(name, value string)) {
	for _, e := range m.sorted() {
		fn(e.name, e.value)
	}
}
