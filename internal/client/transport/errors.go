package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophdocs/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is returned for every non-2xx response. It unwraps to the
// sentinel matching the status, if any, so callers can use errors.Is.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
	kind   error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error { return e.kind }

// mapStatus picks the sentinel for an HTTP status code.
func mapStatus(code int) error {
	switch code {
	case http.StatusPreconditionFailed:
		return common.ErrVersionConflict
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return nil
	}
}
