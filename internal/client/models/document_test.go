package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRef(t *testing.T) {
	assert.True(t, IsRef("@filetree/ref:abcd"))
	assert.True(t, IsRef(RefFor("abcd")))
	assert.False(t, IsRef("filetree/ref:abcd"))
	assert.False(t, IsRef(""))
}

func TestDocument_IDAndBody(t *testing.T) {
	doc := Document{"name": "a"}
	assert.Nil(t, doc.ID())

	id := NewID("1", "v1", "", "")
	doc["_id"] = id
	assert.Same(t, id, doc.ID())
	assert.Equal(t, map[string]any{"name": "a"}, doc.Body())
	assert.Contains(t, doc, "_id", "Body must not mutate the document")
}

func TestDocument_EncodeBodyWritesAttachmentTokens(t *testing.T) {
	att := NewAttachment("@filetree/ref:f00d", Node{Ref: "f00d", Name: "a.txt", Size: 3})
	doc := Document{
		"_id":   NewID("1", "v1", "", ""),
		"file":  att,
		"files": []any{att, "plain"},
	}

	b, err := doc.EncodeBody()
	require.NoError(t, err)
	assert.JSONEq(t, `{"file":"@filetree/ref:f00d","files":["@filetree/ref:f00d","plain"]}`, string(b))
}

func TestDecode_KeepsNumbers(t *testing.T) {
	m, err := Decode([]byte(`{"n": 12345678901234567890}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234567890"), m["n"])

	_, err = Decode([]byte(`null`))
	assert.ErrorIs(t, err, common.ErrNotADocument)
}

func TestToDocument(t *testing.T) {
	type person struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		in      any
		want    Document
		wantErr bool
	}{
		{name: "document", in: Document{"a": "b"}, want: Document{"a": "b"}},
		{name: "map", in: map[string]any{"a": "b"}, want: Document{"a": "b"}},
		{name: "struct", in: person{Name: "x"}, want: Document{"name": "x"}},
		{name: "nil", in: nil, wantErr: true},
		{name: "slice", in: []string{"a"}, wantErr: true},
		{name: "string", in: "abc", wantErr: true},
		{name: "nil map", in: map[string]any(nil), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToDocument(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrNotADocument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNodeFromRaw(t *testing.T) {
	n, err := NodeFromRaw(json.RawMessage(`{"ref":"f00d","name":"a.txt","type":"file","size":3,"metadata":{"k":"v"}}`))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", n.Name)
	assert.Equal(t, int64(3), n.Size)
	assert.Equal(t, "v", n.Metadata["k"])

	_, err = NodeFromRaw(json.RawMessage(`[1]`))
	assert.Error(t, err)
}
