package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		want    url.Values
		wantErr bool
	}{
		{name: "nil", q: nil, want: url.Values{}},
		{name: "filter", q: Filter(`doc.name == "a"`), want: url.Values{"query": {`doc.name == "a"`}}},
		{name: "empty filter", q: Filter(""), want: url.Values{}},
		{name: "script", q: Script("return true"), want: url.Values{"script": {"return true"}}},
		{
			name: "stored query",
			q:    StoredQuery{Name: "by_tag", Args: map[string]any{"tag": "go"}},
			want: url.Values{"stored_query": {"by_tag"}, "stored_query_args": {`{"tag":"go"}`}},
		},
		{name: "stored query without name", q: StoredQuery{}, wantErr: true},
		{
			name: "composite",
			q:    Composite{Expr: And(Where("name").Eq("a"), Not(Where("n").Gt(3)))},
			want: url.Values{"query": {`(doc.name == "a" and not (doc.n > 3))`}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.q)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_ParametersAreMutuallyExclusive(t *testing.T) {
	for _, q := range []Query{Filter("x"), Script("y"), StoredQuery{Name: "z"}, Composite{Expr: Where("a").Eq(1)}} {
		v, err := Resolve(q)
		require.NoError(t, err)
		n := 0
		for _, k := range []string{"query", "script", "stored_query"} {
			if v.Has(k) {
				n++
			}
		}
		assert.Equal(t, 1, n, "query %#v", q)
	}
}

func TestExpr_String(t *testing.T) {
	assert.Equal(t, `doc.a ~= nil`, Where("a").Ne(nil).String())
	assert.Equal(t, `(doc.a <= 1.5 or doc.b.c >= 2 or doc.d < true)`,
		Or(Where("a").Lte(1.5), Where("b.c").Gte(int64(2)), Where("d").Lt(true)).String())
	assert.Equal(t, `doc.s == "say \"hi\""`, Where("s").Eq(`say "hi"`).String())
}

func TestFormatAsOf(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 5, 6, 12, 30, 45, 0, loc)

	assert.Equal(t, "2024-05-06 10:30:45", FormatAsOf(ts))
	assert.Equal(t, "", FormatAsOf(time.Time{}))
}
