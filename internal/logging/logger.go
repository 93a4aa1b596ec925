// Package logging is the structured logger shared by the transport, the
// docstore client and the CLI.
package logging

import "context"

// Logger takes a message plus alternating key/value pairs:
//
//	log.Warn(ctx, "version conflict", "collection", col, "id", id)
type Logger interface {
	// Debug is used for per-request traces and listing summaries.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn reports failures the caller can recover from, such as a stale
	// version on update.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}
