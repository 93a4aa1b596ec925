// Package baseline stores the last known server state of documents, used as
// the base of JSON Patch updates.
//
// # Overview
//
// A baseline is the JSON encoding of a document body (identity fields
// excluded, attachments encoded as reference tokens) keyed by document id.
// The encoding doubles as the deep copy: later local edits never reach a
// stored baseline.
//
// Two implementations are provided:
//
//   - MemoryRepository: per-session, in-process map.
//   - SQLiteRepository: survives restarts, so a CLI can fetch in one run and
//     patch-update in another. OpenSQLite applies embedded goose migrations.
//
// # Concurrency
//
// Both implementations are safe for concurrent use. Serializing the
// read-diff-write cycle of one document id is the caller's job.
//
// Key Types
//
//   - Repository: interface used by the docstore client
//   - MemoryRepository: in-memory implementation
//   - SQLiteRepository: SQLite implementation over dbx.DBTX
package baseline
