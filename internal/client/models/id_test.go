package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectID_StripsReservedFields(t *testing.T) {
	raw := map[string]any{
		"_id":      "abc",
		"_created": "2024-03-01T10:00:00Z",
		"_updated": "2024-03-02T11:30:00Z",
		"_version": "v1",
		"name":     "a",
	}

	id := InjectID(raw)

	require.NotNil(t, id)
	assert.Equal(t, "abc", id.ID())
	assert.Equal(t, "v1", id.Version())
	assert.NotContains(t, raw, "_created")
	assert.NotContains(t, raw, "_updated")
	assert.NotContains(t, raw, "_version")
	assert.Same(t, id, raw["_id"])
	assert.Equal(t, "a", raw["name"])
}

func TestInjectID_NumericVersion(t *testing.T) {
	raw := map[string]any{"_id": "x", "_version": float64(1700000000)}
	id := InjectID(raw)
	assert.Equal(t, "1700000000", id.Version())
}

func TestID_Timestamps(t *testing.T) {
	id := NewID("a", "v1", "2024-03-01T10:00:00Z", "")

	created, ok := id.Created()
	require.True(t, ok)
	assert.True(t, created.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Local, created.Location())

	_, ok = id.Updated()
	assert.False(t, ok, "absent timestamp must report false")

	bad := NewID("a", "v1", "yesterday", "")
	_, ok = bad.Created()
	assert.False(t, ok)
}

func TestID_EqualIgnoresTimestamps(t *testing.T) {
	a := NewID("1", "v1", "2024-03-01T10:00:00Z", "2024-03-01T10:00:00Z")
	b := NewID("1", "v1", "2020-01-01T00:00:00Z", "")
	c := NewID("1", "v2", "2024-03-01T10:00:00Z", "2024-03-01T10:00:00Z")
	d := NewID("2", "v1", "", "")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "different version must not be equal")
	assert.False(t, a.Equal(d), "different id must not be equal")
	assert.False(t, a.Equal(nil))

	seen := map[IDKey]bool{a.Key(): true}
	assert.True(t, seen[b.Key()])
	assert.False(t, seen[c.Key()])
}

func TestID_String(t *testing.T) {
	assert.Equal(t, "abc", NewID("abc", "v", "", "").String())
}
