package models

import (
	"encoding/json"
	"fmt"
)

// Node is the filetree node description delivered in a response pointers
// table or returned by an upload.
type Node struct {
	Ref         string         `json:"ref" yaml:"ref"`
	Name        string         `json:"name" yaml:"name"`
	Type        string         `json:"type" yaml:"type"`
	Size        int64          `json:"size" yaml:"size"`
	Mode        uint32         `json:"mode,omitempty" yaml:"mode,omitempty"`
	ModTime     string         `json:"mtime,omitempty" yaml:"mtime,omitempty"`
	ContentType string         `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	URL         string         `json:"url,omitempty" yaml:"url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NodeFromRaw parses a raw pointers table entry.
func NodeFromRaw(raw json.RawMessage) (Node, error) {
	var n Node
	if err := json.Unmarshal(raw, &n); err != nil {
		return Node{}, fmt.Errorf("decode node: %w", err)
	}
	return n, nil
}

// Attachment pairs a reference token with its resolved node. It encodes back
// to the bare token, so documents holding attachments round-trip unchanged.
type Attachment struct {
	Pointer string
	Node    Node
}

func NewAttachment(pointer string, node Node) *Attachment {
	return &Attachment{Pointer: pointer, Node: node}
}

func (a *Attachment) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Pointer)
}

func (a *Attachment) MarshalYAML() (any, error) {
	return a.Pointer, nil
}

func (a *Attachment) String() string {
	return fmt.Sprintf("Attachment(%s, name=%q, size=%d)", a.Pointer, a.Node.Name, a.Node.Size)
}
