package cli

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/client/attachment"
	"github.com/dmitrijs2005/gophdocs/internal/client/config"
	"github.com/dmitrijs2005/gophdocs/internal/client/docstore"
	"github.com/dmitrijs2005/gophdocs/internal/client/repositories/baseline"
	"github.com/dmitrijs2005/gophdocs/internal/client/transport"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
)

const retryBackoff = 100 * time.Millisecond

// App carries what a command needs once flags are parsed.
type App struct {
	config *config.Config
	client *docstore.Client
	logger logging.Logger
	db     *sql.DB

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	format string
}

func newApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{in: in, out: out, errOut: errOut, format: formatJSON, logger: logging.NewNop()}
}

// init connects the app to the configured server and baseline store.
func (a *App) init(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	a.config = cfg
	a.logger = logger

	doer, err := transport.NewHTTPClient(cfg.ServerURL, cfg.APIKey,
		transport.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		transport.WithRetries(cfg.RetryAttempts, retryBackoff),
		transport.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	var repo baseline.Repository
	if cfg.BaselineDSN != "" {
		sqliteRepo, db, err := baseline.OpenSQLite(ctx, cfg.BaselineDSN)
		if err != nil {
			return err
		}
		repo, a.db = sqliteRepo, db
	}

	s3c, err := attachment.NewS3Client(ctx, attachment.S3Config{
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
	})
	if err != nil {
		return errors.Join(err, a.Close())
	}

	a.client = docstore.New(doer, repo,
		docstore.WithLogger(logger),
		docstore.WithAttachments(attachment.NewService(doer, attachment.WithObjectStore(s3c))),
	)
	return nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
