// Package models defines the client-side data model of gophdocs: documents,
// their server-assigned identity, and attachment handles.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophdocs/internal/common"
)

// Document is a JSON object as returned by the docstore. Once fetched or
// inserted it carries its *ID under the reserved _id key.
type Document map[string]any

// ID returns the injected identity, or nil when the document was never
// fetched or inserted.
func (d Document) ID() *ID {
	id, _ := d[common.FieldID].(*ID)
	return id
}

// Body returns a shallow copy of the user fields, identity excluded.
func (d Document) Body() map[string]any {
	body := make(map[string]any, len(d))
	for k, v := range d {
		if k == common.FieldID {
			continue
		}
		body[k] = v
	}
	return body
}

// EncodeBody returns the JSON encoding of Body. Attachments encode as their
// reference tokens.
func (d Document) EncodeBody() ([]byte, error) {
	b, err := json.Marshal(d.Body())
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

// Decode parses a JSON object keeping numbers as json.Number.
func Decode(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, common.ErrNotADocument
	}
	return m, nil
}

// ToDocument converts v into a Document. Maps are used as-is, other values
// are accepted only if they encode to a JSON object.
func ToDocument(v any) (Document, error) {
	switch value := v.(type) {
	case nil:
		return nil, common.ErrNotADocument
	case Document:
		if value == nil {
			return nil, common.ErrNotADocument
		}
		return value, nil
	case map[string]any:
		if value == nil {
			return nil, common.ErrNotADocument
		}
		return Document(value), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNotADocument, err)
	}
	m, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %T", common.ErrNotADocument, v)
	}
	return Document(m), nil
}
