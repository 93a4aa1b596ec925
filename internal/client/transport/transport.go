package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Request describes one call to the docstore API. At most one of JSON and
// Body is set; JSON is encoded with encoding/json.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	JSON        any
	Body        io.Reader
	ContentType string
}

// Doer is the transport contract used by the docstore core.
type Doer interface {
	// Do sends req and decodes the JSON response into out (skipped if nil).
	Do(ctx context.Context, req *Request, out any) error

	// Stream sends req and returns the raw response body. The caller closes it.
	Stream(ctx context.Context, req *Request) (io.ReadCloser, error)
}
