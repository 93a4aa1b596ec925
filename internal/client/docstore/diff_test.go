package docstore

import (
	"encoding/json"
	"testing"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_AppliedToBaseYieldsBody(t *testing.T) {
	tests := []struct {
		name string
		base string
		body string
	}{
		{"replace scalar", `{"name":"a"}`, `{"name":"b"}`},
		{"add and remove", `{"a":1,"b":2}`, `{"b":2,"c":[1,2]}`},
		{"nested", `{"o":{"x":{"y":1}},"l":[1,2,3]}`, `{"o":{"x":{"y":2,"z":false}},"l":[3,2]}`},
		{"type change", `{"v":"1"}`, `{"v":{"n":1}}`},
		{"from empty", `{}`, `{"k":["@filetree/ref:abc"]}`},
		{"to empty", `{"a":true}`, `{}`},
		{"unchanged", `{"a":[{"b":1}]}`, `{"a":[{"b":1}]}`},
		{"integer above 2^53", `{"n":1,"big":9007199254740993}`, `{"n":2,"big":9007199254740995}`},
		{"large negative", `{"neg":-9223372036854775807}`, `{"neg":-9223372036854775805}`},
		{"decimal precision", `{"d":0.10000000000000000555}`, `{"d":0.10000000000000000556}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := diff([]byte(tt.base), []byte(tt.body))
			require.NoError(t, err)

			patch, err := jsonpatch.DecodePatch(p)
			require.NoError(t, err)
			got, err := patch.Apply([]byte(tt.base))
			require.NoError(t, err)
			assert.Equal(t, decodeNumbers(t, tt.body), decodeNumbers(t, string(got)))
		})
	}
}

func TestDiff_KeepsNumberDigits(t *testing.T) {
	p, err := diff([]byte(`{"n":1,"big":9007199254740993}`), []byte(`{"n":2,"big":9007199254740995}`))
	require.NoError(t, err)

	assert.Contains(t, string(p), "9007199254740995")
	assert.NotContains(t, string(p), "9007199254740996")

	var ops []map[string]any
	require.NoError(t, unmarshalNumbers(p, &ops))
	assert.ElementsMatch(t, []map[string]any{
		{"op": "replace", "path": "/n", "value": json.Number("2")},
		{"op": "replace", "path": "/big", "value": json.Number("9007199254740995")},
	}, ops)
}

func decodeNumbers(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, unmarshalNumbers([]byte(s), &v))
	return v
}

func TestDiff_InvalidBaseline(t *testing.T) {
	_, err := diff([]byte(`{`), []byte(`{}`))
	assert.Error(t, err)
}
