// Package attachment uploads and downloads the files referenced from
// documents. Uploads return an *models.Attachment whose pointer can be
// stored in any document field.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophdocs/internal/client/models"
	"github.com/dmitrijs2005/gophdocs/internal/client/transport"
	"github.com/dmitrijs2005/gophdocs/internal/filex"
)

const (
	uploadPath = "/api/filetree/upload"
	filePath   = "/api/filetree/file/"
)

var ErrNoObjectStore = errors.New("no object store configured")

type Service struct {
	doer    transport.Doer
	objects ObjectPutter
}

type Option func(*Service)

// WithObjectStore enables s3:// destinations in DownloadTo.
func WithObjectStore(p ObjectPutter) Option {
	return func(s *Service) { s.objects = p }
}

func NewService(doer transport.Doer, opts ...Option) *Service {
	s := &Service{doer: doer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload sends the file at path. The content type is guessed from the
// extension.
func (s *Service) Upload(ctx context.Context, path string) (*models.Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	return s.UploadReader(ctx, filepath.Base(path), f, mime.TypeByExtension(filepath.Ext(path)))
}

// UploadReader streams r as a file named name.
func (s *Service) UploadReader(ctx context.Context, name string, r io.Reader, contentType string) (*models.Attachment, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writePart(mw, name, r, contentType))
	}()

	var node models.Node
	err := s.doer.Do(ctx, &transport.Request{
		Method:      http.MethodPost,
		Path:        uploadPath,
		Body:        pr,
		ContentType: mw.FormDataContentType(),
	}, &node)
	// unblocks the writer goroutine if the request ended early
	_ = pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	if node.Ref == "" {
		return nil, fmt.Errorf("upload %s: response has no ref", name)
	}
	return models.NewAttachment(models.RefFor(node.Ref), node), nil
}

func writePart(mw *multipart.Writer, name string, r io.Reader, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, name)}
	h["Content-Type"] = []string{contentType}

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}

// Open returns the content of a. The caller closes the reader.
func (s *Service) Open(ctx context.Context, a *models.Attachment) (io.ReadCloser, error) {
	ref := nodeRef(a)
	if ref == "" {
		return nil, errors.New("attachment has no ref")
	}
	rc, err := s.doer.Stream(ctx, &transport.Request{Method: http.MethodGet, Path: filePath + url.PathEscape(ref)})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", ref, err)
	}
	return rc, nil
}

// DownloadTo writes the content of a to dst: a local path or an
// s3://bucket/key URL.
func (s *Service) DownloadTo(ctx context.Context, a *models.Attachment, dst string) error {
	if bucket, key, ok := parseS3URL(dst); ok {
		return s.exportToS3(ctx, a, bucket, key)
	}

	if err := filex.EnsureParentDir(dst); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if err := s.copyTo(ctx, a, f); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return err
	}
	return f.Close()
}

func (s *Service) copyTo(ctx context.Context, a *models.Attachment, w io.Writer) error {
	rc, err := s.Open(ctx, a)
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("download %s: %w", nodeRef(a), err)
	}
	return nil
}

func nodeRef(a *models.Attachment) string {
	if a == nil {
		return ""
	}
	if a.Node.Ref != "" {
		return a.Node.Ref
	}
	return strings.TrimPrefix(a.Pointer, models.RefPrefix)
}
