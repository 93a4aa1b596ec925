// Package docstore is the entry point of the gophdocs client: a Client hands
// out Collection handles whose methods insert, fetch, query and update
// documents. Updates are sent as JSON Patch diffs against the last state the
// client saw of each document.
package docstore

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophdocs/internal/client/attachment"
	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/client/repositories/baseline"
	"github.com/dmitrijs2005/gophdocs/internal/client/transport"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
)

const apiPrefix = "/api/docstore/"

type Client struct {
	doer        transport.Doer
	baselines   baseline.Repository
	attachments *attachment.Service
	logger      logging.Logger
	locks       *keyedMutex
}

type Option func(*Client)

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithAttachments replaces the attachment service built from the transport.
func WithAttachments(s *attachment.Service) Option {
	return func(c *Client) { c.attachments = s }
}

// New returns a client sending requests through doer. The baseline
// repository belongs to the caller; a nil repository gets a fresh in-memory
// one.
func New(doer transport.Doer, baselines baseline.Repository, opts ...Option) *Client {
	if baselines == nil {
		baselines = baseline.NewMemoryRepository()
	}
	c := &Client{
		doer:      doer,
		baselines: baselines,
		logger:    logging.NewNop(),
		locks:     newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.attachments == nil {
		c.attachments = attachment.NewService(doer)
	}
	return c
}

// Collection returns a handle for name. No request is made.
func (c *Client) Collection(name string) *Collection {
	return &Collection{name: name, c: c}
}

// Collections lists the collections known to the server.
func (c *Client) Collections(ctx context.Context) ([]*Collection, error) {
	var resp struct {
		Collections []string `json:"collections"`
	}
	if err := c.doer.Do(ctx, &transport.Request{Method: http.MethodGet, Path: apiPrefix}, &resp); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	cols := make([]*Collection, 0, len(resp.Collections))
	for _, name := range resp.Collections {
		cols = append(cols, c.Collection(name))
	}
	return cols, nil
}

// AddAttachment uploads the file at path. Store the result in a document
// field to reference it.
func (c *Client) AddAttachment(ctx context.Context, path string) (*models.Attachment, error) {
	return c.attachments.Upload(ctx, path)
}

func (c *Client) AddAttachmentReader(ctx context.Context, name string, r io.Reader, contentType string) (*models.Attachment, error) {
	return c.attachments.UploadReader(ctx, name, r, contentType)
}

// OpenAttachment streams the content of a. The caller closes the reader.
func (c *Client) OpenAttachment(ctx context.Context, a *models.Attachment) (io.ReadCloser, error) {
	return c.attachments.Open(ctx, a)
}

// DownloadAttachment writes the content of a to a local path or an
// s3://bucket/key URL.
func (c *Client) DownloadAttachment(ctx context.Context, a *models.Attachment, dst string) error {
	return c.attachments.DownloadTo(ctx, a, dst)
}

// ClearBaselines drops every recorded baseline. The next Update of each
// document sends its full body.
func (c *Client) ClearBaselines(ctx context.Context) error {
	if err := c.baselines.Clear(ctx); err != nil {
		return fmt.Errorf("clear baselines: %w", err)
	}
	return nil
}
