// Package pointers rewrites reference tokens embedded in decoded documents
// into attachment handles, using the pointers table that accompanies every
// docstore response.
package pointers

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/common"
)

// Table maps a reference token to its raw node description.
type Table map[string]json.RawMessage

// Resolve walks v and replaces every reference token found in object values
// and array elements with a *models.Attachment. Objects are updated in place,
// arrays are rebuilt. Values that are already attachments are left alone, so
// resolving twice is a no-op.
//
// A token missing from table fails with common.ErrPointerNotFound; v may then
// be partially rewritten and must be discarded by the caller.
func Resolve(v any, table Table) (any, error) {
	switch value := v.(type) {
	case string:
		if !models.IsRef(value) {
			return value, nil
		}
		return attachment(value, table)
	case map[string]any:
		if err := resolveObject(value, table); err != nil {
			return nil, err
		}
		return value, nil
	case models.Document:
		if err := resolveObject(value, table); err != nil {
			return nil, err
		}
		return value, nil
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			r, err := Resolve(item, table)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return v, nil
	}
}

// ResolveDocument resolves doc in place.
func ResolveDocument(doc map[string]any, table Table) error {
	return resolveObject(doc, table)
}

func resolveObject(m map[string]any, table Table) error {
	for k, item := range m {
		r, err := Resolve(item, table)
		if err != nil {
			return err
		}
		m[k] = r
	}
	return nil
}

func attachment(token string, table Table) (*models.Attachment, error) {
	raw, ok := table[token]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrPointerNotFound, token)
	}
	node, err := models.NodeFromRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("pointer %s: %w", token, err)
	}
	return models.NewAttachment(token, node), nil
}
