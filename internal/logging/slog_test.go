package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	ctx := context.Background()

	log.Debug(ctx, "http request", "status", 200)
	log.Info(ctx, "attachment uploaded", "ref", "abc")
	log.Warn(ctx, "version conflict", "id", "d1")
	log.Error(ctx, "baseline store failed", "id", "d2")

	out := buf.String()
	for _, want := range []string{
		`level=DEBUG msg="http request" status=200`,
		`level=INFO msg="attachment uploaded" ref=abc`,
		`level=WARN msg="version conflict" id=d1`,
		`level=ERROR msg="baseline store failed" id=d2`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	log.With("collection", "things").Info(context.Background(), "update sent", "mode", "patch")

	assert.Contains(t, buf.String(), `msg="update sent" collection=things mode=patch`)
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, tt.verbose)
			ctx := context.Background()

			log.Debug(ctx, "listing fetched", "pages", 2)
			log.Info(ctx, "skipped")
			log.Warn(ctx, "version conflict")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("pages=2")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("msg=skipped")))
			assert.Contains(t, out, `msg="version conflict"`)
			assert.NotContains(t, out, "time=")
		})
	}
}

func TestNop_Discards(t *testing.T) {
	var l Logger = NewNop()
	ctx := context.Background()
	l.Debug(ctx, "x")
	l.With("k", "v").Error(ctx, "y")
}
