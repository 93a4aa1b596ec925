// Package iterator implements the cursor protocol shared by the docstore
// listing endpoints. Pages are fetched lazily, one blocking request at a
// time, when the caller asks for an item past the buffered page.
package iterator

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/gophdocs/internal/client/pointers"
	"github.com/dmitrijs2005/gophdocs/internal/client/transport"
)

// Response is the wire shape of a listing page.
type Response struct {
	Data       []json.RawMessage `json:"data"`
	Pointers   pointers.Table    `json:"pointers"`
	Cursor     string            `json:"cursor"`
	Pagination *Pagination       `json:"pagination"`
}

// Pagination is the optional block some endpoints use instead of a
// top-level cursor.
type Pagination struct {
	Cursor  string `json:"cursor"`
	HasMore *bool  `json:"has_more"`
}

func (r *Response) next() (cursor string, more bool) {
	cursor = r.Cursor
	if r.Pagination != nil {
		if r.Pagination.Cursor != "" {
			cursor = r.Pagination.Cursor
		}
		if r.Pagination.HasMore != nil && !*r.Pagination.HasMore {
			return cursor, false
		}
	}
	return cursor, cursor != "" && len(r.Data) > 0
}

// ParseFunc turns one raw item into T, resolving pointers with table.
type ParseFunc[T any] func(ctx context.Context, raw json.RawMessage, table pointers.Table) (T, error)

// Config parameterizes a listing. Limit caps the total number of items
// (0 means unbounded), PerPage the size of each page (0 lets the server
// decide).
type Config struct {
	Path    string
	Params  url.Values
	Cursor  string
	Limit   int
	PerPage int
}

// Iterator is a forward-only, non-restartable sequence. It is not safe for
// concurrent use.
type Iterator[T any] struct {
	doer  transport.Doer
	cfg   Config
	parse ParseFunc[T]

	buf     []T
	item    T
	cursor  string
	more    bool
	yielded int
	pages   int
	err     error
}

func New[T any](doer transport.Doer, cfg Config, parse ParseFunc[T]) *Iterator[T] {
	return &Iterator[T]{doer: doer, cfg: cfg, parse: parse, cursor: cfg.Cursor, more: true}
}

// Next advances to the next item, fetching a page if needed. It returns
// false at the end of the sequence or on error; check Err.
func (it *Iterator[T]) Next(ctx context.Context) bool {
	if it.err != nil || it.limitReached() {
		return false
	}
	for len(it.buf) == 0 {
		if !it.more {
			return false
		}
		if err := it.fetch(ctx); err != nil {
			it.err = err
			return false
		}
	}
	it.item, it.buf = it.buf[0], it.buf[1:]
	it.yielded++
	return true
}

// Item returns the current item.
func (it *Iterator[T]) Item() T { return it.item }

// Err returns the first error met while fetching or parsing.
func (it *Iterator[T]) Err() error { return it.err }

// Cursor returns the server cursor following the last fetched page, usable
// to resume a listing later.
func (it *Iterator[T]) Cursor() string { return it.cursor }

// Pages returns how many page requests were issued.
func (it *Iterator[T]) Pages() int { return it.pages }

// All adapts the iterator to a range-over-func sequence. Iteration stops
// after yielding an error.
func (it *Iterator[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for it.Next(ctx) {
			if !yield(it.Item(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect drains the iterator.
func (it *Iterator[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	for it.Next(ctx) {
		out = append(out, it.Item())
	}
	return out, it.Err()
}

func (it *Iterator[T]) limitReached() bool {
	return it.cfg.Limit > 0 && it.yielded >= it.cfg.Limit
}

func (it *Iterator[T]) pageSize() int {
	remaining := it.cfg.Limit - it.yielded
	switch {
	case it.cfg.Limit > 0 && it.cfg.PerPage > 0:
		return min(remaining, it.cfg.PerPage)
	case it.cfg.PerPage > 0:
		return it.cfg.PerPage
	case it.cfg.Limit > 0:
		return remaining
	default:
		return 0
	}
}

func (it *Iterator[T]) fetch(ctx context.Context) error {
	params := url.Values{}
	for k, vs := range it.cfg.Params {
		for _, v := range vs {
			if v != "" {
				params.Add(k, v)
			}
		}
	}
	if it.cursor != "" {
		params.Set("cursor", it.cursor)
	}
	if n := it.pageSize(); n > 0 {
		params.Set("limit", strconv.Itoa(n))
	}

	var resp Response
	it.pages++
	err := it.doer.Do(ctx, &transport.Request{Method: http.MethodGet, Path: it.cfg.Path, Query: params}, &resp)
	if err != nil {
		return err
	}

	items := make([]T, 0, len(resp.Data))
	for i, raw := range resp.Data {
		item, err := it.parse(ctx, raw, resp.Pointers)
		if err != nil {
			return fmt.Errorf("%s: item %d: %w", it.cfg.Path, i, err)
		}
		items = append(items, item)
	}

	it.buf = items
	it.cursor, it.more = resp.next()
	return nil
}
