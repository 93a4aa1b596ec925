package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/client/iterator"
	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/client/pointers"
	"github.com/dmitrijs2005/gophdocs/internal/client/query"
	"github.com/dmitrijs2005/gophdocs/internal/client/transport"
	"github.com/dmitrijs2005/gophdocs/internal/common"
)

// Collection is a named group of documents. Handles are cheap and safe for
// concurrent use; they share the baseline cache of their Client.
type Collection struct {
	name string
	c    *Client
}

// ListOptions bound a listing. Limit caps the total number of documents,
// PerPage the size of each page request, Cursor resumes a previous listing.
type ListOptions struct {
	Limit   int
	PerPage int
	Cursor  string
}

// QueryOptions extend ListOptions with a point in time to query at.
type QueryOptions struct {
	ListOptions
	AsOf time.Time
}

func (col *Collection) Name() string { return col.name }

func (col *Collection) String() string { return "Collection(" + col.name + ")" }

func (col *Collection) path() string {
	return apiPrefix + url.PathEscape(col.name)
}

func (col *Collection) docPath(id string) string {
	return col.path() + "/" + url.PathEscape(id)
}

// Insert creates doc and injects its identity. A document that already has
// one is updated instead.
func (col *Collection) Insert(ctx context.Context, doc models.Document) (*models.ID, error) {
	if doc == nil {
		return nil, common.ErrNotADocument
	}
	if doc.ID() != nil {
		return col.Update(ctx, doc)
	}

	body, err := doc.EncodeBody()
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	err = col.c.doer.Do(ctx, &transport.Request{
		Method: http.MethodPost,
		Path:   col.path(),
		JSON:   json.RawMessage(body),
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", col.name, err)
	}

	id, err := injectResponseID(raw)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", col.name, err)
	}
	doc[common.FieldID] = id

	if err := col.storeBaseline(ctx, id.ID(), body); err != nil {
		return nil, err
	}
	return id, nil
}

// Delete removes every target: a Document, an *ID, an ID or an id string.
// Targets are validated before any request is sent. The baseline of a
// deleted document is left in place.
func (col *Collection) Delete(ctx context.Context, targets ...any) error {
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		id, err := targetID(t)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		err := col.c.doer.Do(ctx, &transport.Request{Method: http.MethodDelete, Path: col.docPath(id)}, nil)
		if err != nil {
			return fmt.Errorf("delete %s/%s: %w", col.name, id, err)
		}
	}
	return nil
}

func targetID(t any) (string, error) {
	switch v := t.(type) {
	case models.Document:
		return documentID(v)
	case map[string]any:
		return documentID(models.Document(v))
	case *models.ID:
		if v == nil || v.ID() == "" {
			return "", common.ErrMissingID
		}
		return v.ID(), nil
	case models.ID:
		if v.ID() == "" {
			return "", common.ErrMissingID
		}
		return v.ID(), nil
	case string:
		if v == "" {
			return "", common.ErrMissingID
		}
		return v, nil
	default:
		return "", fmt.Errorf("%w: %T", common.ErrNotADocument, t)
	}
}

func documentID(doc models.Document) (string, error) {
	id := doc.ID()
	if id == nil || id.ID() == "" {
		return "", common.ErrMissingID
	}
	return id.ID(), nil
}

// GetByID fetches the latest version of a document and records it as the
// baseline for the next Update. target is anything Delete accepts.
func (col *Collection) GetByID(ctx context.Context, target any) (models.Document, error) {
	id, err := targetID(target)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data     json.RawMessage `json:"data"`
		Pointers pointers.Table  `json:"pointers"`
	}
	if err := col.c.doer.Do(ctx, &transport.Request{Method: http.MethodGet, Path: col.docPath(id)}, &resp); err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", col.name, id, err)
	}

	doc, err := col.parse(ctx, resp.Data, resp.Pointers, true)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", col.name, id, err)
	}
	return doc, nil
}

// GetVersions lists the past versions of a document, newest first.
func (col *Collection) GetVersions(target any, opts ListOptions) (*iterator.Iterator[models.Document], error) {
	id, err := targetID(target)
	if err != nil {
		return nil, fmt.Errorf("versions %s: %w", col.name, err)
	}
	return iterator.New(col.c.doer, iterator.Config{
		Path:    col.docPath(id) + "/_versions",
		Cursor:  opts.Cursor,
		Limit:   opts.Limit,
		PerPage: opts.PerPage,
	}, col.parseFunc(false)), nil
}

// Query returns a lazy iterator over the documents matching q. A nil q
// matches every document.
func (col *Collection) Query(q query.Query, opts QueryOptions) (*iterator.Iterator[models.Document], error) {
	params, err := query.Resolve(q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", col.name, err)
	}
	if asOf := query.FormatAsOf(opts.AsOf); asOf != "" {
		params.Set("as_of", asOf)
	}

	return iterator.New(col.c.doer, iterator.Config{
		Path:    col.path(),
		Params:  params,
		Cursor:  opts.Cursor,
		Limit:   opts.Limit,
		PerPage: opts.PerPage,
	}, col.parseFunc(true)), nil
}

// Get returns the first document matching q, or nil when there is none.
func (col *Collection) Get(ctx context.Context, q query.Query) (models.Document, error) {
	it, err := col.Query(q, QueryOptions{ListOptions: ListOptions{Limit: 1}})
	if err != nil {
		return nil, err
	}
	if it.Next(ctx) {
		return it.Item(), nil
	}
	return nil, it.Err()
}

// MapReduce runs a map/reduce job over the collection. The result is
// returned as decoded, its shape depends on the scripts.
func (col *Collection) MapReduce(ctx context.Context, mapScript, reduceScript query.Script, asOf time.Time) (map[string]any, error) {
	var resp struct {
		Data map[string]any `json:"data"`
	}
	err := col.c.doer.Do(ctx, &transport.Request{
		Method: http.MethodPost,
		Path:   col.path() + "/_map_reduce",
		Query:  url.Values{"as_of": {query.FormatAsOf(asOf)}},
		JSON: map[string]string{
			"map":    string(mapScript),
			"reduce": string(reduceScript),
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("map/reduce %s: %w", col.name, err)
	}
	return resp.Data, nil
}

// Checkpoint records doc as the baseline of its id unless one exists.
func (col *Collection) Checkpoint(ctx context.Context, doc models.Document) error {
	id, err := documentID(doc)
	if err != nil {
		return err
	}
	body, err := doc.EncodeBody()
	if err != nil {
		return err
	}

	unlock := col.c.locks.Lock(id)
	defer unlock()

	if _, err := col.c.baselines.SetIfAbsent(ctx, id, body); err != nil {
		return fmt.Errorf("checkpoint %s/%s: %w", col.name, id, err)
	}
	return nil
}

// Forget drops the baseline of id so that its next Update sends the full
// body.
func (col *Collection) Forget(ctx context.Context, id string) error {
	unlock := col.c.locks.Lock(id)
	defer unlock()

	if err := col.c.baselines.Delete(ctx, id); err != nil {
		return fmt.Errorf("forget %s/%s: %w", col.name, id, err)
	}
	return nil
}

func (col *Collection) parseFunc(checkpoint bool) iterator.ParseFunc[models.Document] {
	return func(ctx context.Context, raw json.RawMessage, table pointers.Table) (models.Document, error) {
		return col.parse(ctx, raw, table, checkpoint)
	}
}

// parse decodes a raw document, injects its identity and resolves its
// pointers. Documents with an unresolvable pointer are discarded.
func (col *Collection) parse(ctx context.Context, raw json.RawMessage, table pointers.Table, checkpoint bool) (models.Document, error) {
	m, err := models.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	id := models.InjectID(m)
	if err := pointers.ResolveDocument(m, table); err != nil {
		return nil, err
	}
	doc := models.Document(m)

	if checkpoint && id.ID() != "" {
		body, err := doc.EncodeBody()
		if err != nil {
			return nil, err
		}
		if err := col.storeBaseline(ctx, id.ID(), body); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (col *Collection) storeBaseline(ctx context.Context, id string, body []byte) error {
	unlock := col.c.locks.Lock(id)
	defer unlock()

	if err := col.c.baselines.Set(ctx, id, body); err != nil {
		return fmt.Errorf("store baseline %s/%s: %w", col.name, id, err)
	}
	return nil
}

func injectResponseID(raw json.RawMessage) (*models.ID, error) {
	m, err := models.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	id := models.InjectID(m)
	if id.ID() == "" {
		return nil, errors.New("response has no id")
	}
	return id, nil
}
