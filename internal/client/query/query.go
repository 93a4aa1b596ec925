// Package query describes docstore queries and resolves them to request
// parameters. The server evaluates queries as Lua; this package only renders
// and serializes them.
package query

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/common"
)

// Query is one of Filter, Script, StoredQuery or Composite.
type Query interface {
	apply(v url.Values) error
}

// Filter is a plain short-query expression, sent as is.
type Filter string

// Script is a raw Lua script.
type Script string

// StoredQuery names a query stored on the server, with its arguments.
type StoredQuery struct {
	Name string
	Args any
}

// Composite wraps an expression built with Where, And, Or and Not.
type Composite struct {
	Expr Expr
}

func (f Filter) apply(v url.Values) error {
	if f != "" {
		v.Set("query", string(f))
	}
	return nil
}

func (s Script) apply(v url.Values) error {
	if s != "" {
		v.Set("script", string(s))
	}
	return nil
}

func (s StoredQuery) apply(v url.Values) error {
	if s.Name == "" {
		return fmt.Errorf("stored query: empty name")
	}
	args, err := json.Marshal(s.Args)
	if err != nil {
		return fmt.Errorf("stored query %s: encode args: %w", s.Name, err)
	}
	v.Set("stored_query", s.Name)
	v.Set("stored_query_args", string(args))
	return nil
}

func (c Composite) apply(v url.Values) error {
	if c.Expr == nil {
		return nil
	}
	v.Set("query", c.Expr.String())
	return nil
}

// Resolve returns the wire parameters for q. A nil query yields no
// parameters (match everything).
func Resolve(q Query) (url.Values, error) {
	v := url.Values{}
	if q == nil {
		return v, nil
	}
	if err := q.apply(v); err != nil {
		return nil, err
	}
	return v, nil
}

// FormatAsOf renders t as the as_of parameter value. The zero time yields "".
func FormatAsOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(common.AsOfLayout)
}
