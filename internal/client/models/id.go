package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/common"
)

// ID holds the server-assigned identity of a document along with its
// version and timestamps. It is immutable once injected.
type ID struct {
	id      string
	created string
	updated string
	version string
}

// IDKey is the comparable part of an ID, usable as a map key.
type IDKey struct {
	ID      string
	Version string
}

// NewID builds an ID from its raw wire values. Timestamps may be empty.
func NewID(id, version, created, updated string) *ID {
	return &ID{id: id, version: version, created: created, updated: updated}
}

// InjectID extracts the reserved fields from raw, deletes them and stores the
// resulting *ID under the _id key. It must be called once per raw payload.
func InjectID(raw map[string]any) *ID {
	id := &ID{
		id:      wireString(raw[common.FieldID]),
		created: wireString(raw[common.FieldCreated]),
		updated: wireString(raw[common.FieldUpdated]),
		version: wireString(raw[common.FieldVersion]),
	}
	delete(raw, common.FieldCreated)
	delete(raw, common.FieldUpdated)
	delete(raw, common.FieldVersion)
	raw[common.FieldID] = id
	return id
}

func wireString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}

// ID returns the document id.
func (i *ID) ID() string { return i.id }

// Version returns the document version (ETag).
func (i *ID) Version() string { return i.version }

// Created returns the creation time of the first version in the local zone.
func (i *ID) Created() (time.Time, bool) { return parseTimestamp(i.created) }

// Updated returns the creation time of the current version in the local zone.
func (i *ID) Updated() (time.Time, bool) { return parseTimestamp(i.updated) }

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(common.TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.Local(), true
}

// Key returns the (id, version) pair that defines equality.
func (i *ID) Key() IDKey {
	return IDKey{ID: i.id, Version: i.version}
}

// Equal reports whether both ids refer to the same document at the same
// version. Timestamps are ignored.
func (i *ID) Equal(other *ID) bool {
	if i == nil || other == nil {
		return i == other
	}
	return i.Key() == other.Key()
}

func (i *ID) String() string { return i.id }

func (i *ID) GoString() string {
	return fmt.Sprintf("models.ID(_id=%q, _version=%q)", i.id, i.version)
}
