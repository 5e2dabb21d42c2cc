// Package bootstrap wires configured components into a Generator.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"

	"cloud.google.com/go/storage"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/ukaji3/aiafill-go/internal/config"
	"github.com/ukaji3/aiafill-go/pkg/aiafill"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/repository"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/workbook"
	"go.uber.org/zap"
)

// Closers releases clients opened while wiring.
type Closers []io.Closer

// Close closes every client, returning the first error.
func (c Closers) Close() error {
	var first error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Repository builds the template repository cfg describes.
func Repository(ctx context.Context, cfg config.RepositoryConfig, log *zap.Logger) (*repository.Repository, Closers, error) {
	var closers Closers

	var resolver repository.Resolver
	switch cfg.Resolver {
	case config.ResolverDir:
		resolver = repository.NewDirResolver(cfg.Dir)
	case config.ResolverSQL:
		db, err := sql.Open(cfg.SQL.Driver, cfg.SQL.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s database: %w", cfg.SQL.Driver, err)
		}
		if cfg.SQL.Driver == "sqlite3" {
			db.SetMaxOpenConns(1)
		}
		closers = append(closers, db)
		r, err := repository.NewSQLResolver(ctx, db, cfg.SQL.Driver)
		if err != nil {
			_ = closers.Close()
			return nil, nil, err
		}
		resolver = r
	case config.ResolverFirestore:
		client, err := repository.NewFirestoreClient(ctx, cfg.Firestore.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, client)
		resolver = repository.NewFirestoreResolver(client, cfg.Firestore.Collection)
	default:
		return nil, nil, fmt.Errorf("unknown resolver %q", cfg.Resolver)
	}

	httpFetcher := repository.NewHTTPFetcher(cfg.FetchTimeout)
	gcs := &lazyGCS{}
	closers = append(closers, gcs)
	fetcher := repository.MultiFetcher{
		"file":  repository.FileFetcher{},
		"http":  httpFetcher,
		"https": httpFetcher,
		"gs":    gcs,
	}

	log.Debug("template repository ready", zap.String("resolver", cfg.Resolver))
	return repository.New(resolver, fetcher), closers, nil
}

// Generator builds a Generator from cfg.
func Generator(templates aiafill.TemplateSource, cfg config.GenerateConfig, log *zap.Logger) (*aiafill.Generator, error) {
	opts := aiafill.DefaultOptions()
	opts.Logger = log
	if cfg.ZeroItems != "" {
		opts.ZeroItems = workbook.ZeroItemPolicy(cfg.ZeroItems)
	}
	opts.RebaseFormulas = cfg.RebaseFormulas
	opts.NumericSOVCells = cfg.NumericSOVCells
	if cfg.Concurrency > 0 {
		opts.Concurrency = cfg.Concurrency
	}
	return aiafill.NewGenerator(templates, opts)
}

// lazyGCS opens a Cloud Storage client on the first gs:// fetch.
type lazyGCS struct {
	mu      sync.Mutex
	client  *storage.Client
	fetcher *repository.GCSFetcher
}

func (l *lazyGCS) get(ctx context.Context) (*repository.GCSFetcher, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fetcher == nil {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create storage client: %w", repository.ErrFetch, err)
		}
		l.client, l.fetcher = client, repository.NewGCSFetcher(client)
	}
	return l.fetcher, nil
}

func (l *lazyGCS) Fetch(ctx context.Context, locator string) ([]byte, error) {
	f, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, locator)
}

func (l *lazyGCS) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client == nil {
		return nil
	}
	return l.client.Close()
}
