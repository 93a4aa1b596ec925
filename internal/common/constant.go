// Package common contains shared constants and sentinel errors used across
// gophdocs components.
package common

// Reserved document fields on the wire. They are consumed by identity
// injection and never appear in a document body handed to callers.
const (
	FieldID      = "_id"
	FieldCreated = "_created"
	FieldUpdated = "_updated"
	FieldVersion = "_version"
)

// RequestIDHeaderName is the HTTP header carrying the per-request id
// generated by the transport.
const RequestIDHeaderName = "X-Request-Id"

// IfMatchHeaderName carries the optimistic-concurrency precondition.
const IfMatchHeaderName = "If-Match"

// TimestampLayout is the server format of _created/_updated.
const TimestampLayout = "2006-01-02T15:04:05Z"

// AsOfLayout is the format of the as_of query parameter (always UTC).
const AsOfLayout = "2006-01-02 15:04:05"
