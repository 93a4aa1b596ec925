package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithRetries(2, time.Millisecond)}, opts...)
	c, err := NewHTTPClient(srv.URL+"/", "secret", opts...)
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("localhost:8050", "")
	require.Error(t, err)
}

func TestDo_SendsHeadersAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, key, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "secret", key)
		_, err := uuid.Parse(r.Header.Get("X-Request-Id"))
		assert.NoError(t, err)
		assert.Equal(t, "v1", r.Header.Get("If-Match"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "/api/docstore/docs", r.URL.Path)
		assert.Equal(t, "x", r.URL.Query().Get("q"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a", body["name"])

		_, _ = io.WriteString(w, `{"n": 10000000000000001}`)
	})

	var out map[string]any
	err := c.Do(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/api/docstore/docs",
		Query:  url.Values{"q": {"x"}},
		Header: http.Header{"If-Match": {"v1"}},
		JSON:   map[string]any{"name": "a"},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, json.Number("10000000000000001"), out["n"])
}

func TestDo_RawBodyKeepsContentType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json-patch+json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `[{"op":"remove","path":"/a"}]`, string(b))
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.Do(context.Background(), &Request{
		Method:      http.MethodPatch,
		Path:        "/p",
		Body:        strings.NewReader(`[{"op":"remove","path":"/a"}]`),
		ContentType: "application/json-patch+json",
	}, nil)
	require.NoError(t, err)
}

func TestDo_MapsStatusCodes(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusPreconditionFailed, common.ErrVersionConflict},
		{http.StatusNotFound, common.ErrorNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.code)
			})
			err := c.Do(context.Background(), &Request{Method: http.MethodPost, Path: "/x"}, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, "nope", se.Body)
		})
	}
}

func TestDo_GenericStatusIsOpaque(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad query", http.StatusBadRequest)
	})
	err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"}, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Nil(t, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "400")
}

func TestDo_RetriesGetOnUnavailable(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"ok":true}`)
	})

	var out map[string]any
	require.NoError(t, c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"}, &out))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, true, out["ok"])
}

func TestDo_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_DoesNotRetryWrites(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := c.Do(context.Background(), &Request{Method: http.MethodPost, Path: "/x", JSON: map[string]any{}}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c, err := NewHTTPClient(srv.URL, "", WithRetries(0, 0))
	require.NoError(t, err)

	err = c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStream_ReturnsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "raw bytes")
	})

	rc, err := c.Stream(context.Background(), &Request{Method: http.MethodGet, Path: "/f"})
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "raw bytes", string(b))
}

func TestDo_EmptyBodyLeavesOutUntouched(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var out json.RawMessage
	require.NoError(t, c.Do(context.Background(), &Request{Method: http.MethodDelete, Path: "/x"}, &out))
	assert.Nil(t, out)
}

func TestDo_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"a":`)
	})

	var out map[string]any
	err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"}, &out)
	assert.ErrorContains(t, err, "decode response")
}
