package cli

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/common"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func (a *App) print(v any) error {
	v = render(v)
	if a.format == formatYAML {
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render turns decoded documents into plain values both encoders agree on:
// identities are expanded back to their reserved fields and numbers lose
// their json.Number wrapper.
func render(v any) any {
	switch value := v.(type) {
	case models.Document:
		return renderDocument(value)
	case []models.Document:
		out := make([]any, len(value))
		for i, d := range value {
			out[i] = renderDocument(d)
		}
		return out
	case *models.ID:
		return renderID(value, map[string]any{})
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = render(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = render(item)
		}
		return out
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return n
		}
		if f, err := value.Float64(); err == nil {
			return f
		}
		return value.String()
	default:
		return v
	}
}

func renderDocument(doc models.Document) map[string]any {
	out := render(doc.Body()).(map[string]any)
	if id := doc.ID(); id != nil {
		renderID(id, out)
	}
	return out
}

func renderID(id *models.ID, out map[string]any) map[string]any {
	if id == nil {
		return out
	}
	out[common.FieldID] = id.ID()
	out[common.FieldVersion] = id.Version()
	if t, ok := id.Created(); ok {
		out[common.FieldCreated] = t.Format(time.RFC3339)
	}
	if t, ok := id.Updated(); ok {
		out[common.FieldUpdated] = t.Format(time.RFC3339)
	}
	return out
}
