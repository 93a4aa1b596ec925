package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wI2L/jsondiff"

	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/client/transport"
	"github.com/dmitrijs2005/gophdocs/internal/common"
)

const patchContentType = "application/json-patch+json"

// Update saves doc. When a baseline is known only the JSON Patch from the
// baseline to doc is sent, otherwise the whole body replaces the stored
// document. Both are conditional on the version doc was read at and fail
// with common.ErrVersionConflict when it is stale.
//
// On success the new identity is injected into doc and the saved body
// becomes the baseline. On failure the previous baseline is kept rather than
// consumed, so a retry after re-fetching still diffs against it.
func (col *Collection) Update(ctx context.Context, doc models.Document) (*models.ID, error) {
	if doc == nil {
		return nil, common.ErrNotADocument
	}
	prev := doc.ID()
	if prev == nil || prev.ID() == "" {
		return nil, common.ErrMissingID
	}

	unlock := col.c.locks.Lock(prev.ID())
	defer unlock()

	body, err := doc.EncodeBody()
	if err != nil {
		return nil, err
	}

	base, err := col.c.baselines.Get(ctx, prev.ID())
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", col.name, prev.ID(), err)
	}

	req := &transport.Request{
		Path:   col.docPath(prev.ID()),
		Header: http.Header{common.IfMatchHeaderName: {prev.Version()}},
	}
	if base != nil {
		patch, err := diff(base, body)
		if err != nil {
			return nil, fmt.Errorf("update %s/%s: %w", col.name, prev.ID(), err)
		}
		req.Method = http.MethodPatch
		req.Body = bytes.NewReader(patch)
		req.ContentType = patchContentType
	} else {
		req.Method = http.MethodPost
		req.JSON = json.RawMessage(body)
	}
	col.c.logger.Debug(ctx, "updating document",
		"collection", col.name, "id", prev.ID(), "version", prev.Version(), "method", req.Method)

	var raw json.RawMessage
	if err := col.c.doer.Do(ctx, req, &raw); err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			col.c.logger.Warn(ctx, "version conflict",
				"collection", col.name, "id", prev.ID(), "version", prev.Version())
		}
		return nil, fmt.Errorf("update %s/%s: %w", col.name, prev.ID(), err)
	}

	id := responseID(raw, prev)
	doc[common.FieldID] = id

	if err := col.c.baselines.Set(ctx, id.ID(), body); err != nil {
		return nil, fmt.Errorf("store baseline %s/%s: %w", col.name, id.ID(), err)
	}
	return id, nil
}

// diff returns the RFC 6902 patch turning base into body. No change yields
// an empty array. Numbers are compared and emitted as json.Number so integers
// beyond 2^53 keep every digit.
func diff(base, body []byte) ([]byte, error) {
	patch, err := jsondiff.CompareJSON(base, body, jsondiff.UnmarshalFunc(unmarshalNumbers))
	if err != nil {
		return nil, fmt.Errorf("diff against baseline: %w", err)
	}
	if len(patch) == 0 {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	return b, nil
}

func unmarshalNumbers(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}

// responseID reads the identity returned by a write. Servers answering
// with an empty body or no id keep the document on its previous id.
func responseID(raw json.RawMessage, prev *models.ID) *models.ID {
	m, err := models.Decode(raw)
	if err != nil {
		return prev
	}
	id := models.InjectID(m)
	switch {
	case id.ID() != "":
		return id
	case id.Version() != "":
		return models.NewID(prev.ID(), id.Version(), "", "")
	default:
		return prev
	}
}
