package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// MaxTemplateSize bounds how many bytes a fetcher reads.
const MaxTemplateSize = 32 << 20

// FileFetcher reads templates from the local file system. Locators are
// plain paths or file:// URLs.
type FileFetcher struct{}

// Fetch implements Fetcher.
func (FileFetcher) Fetch(_ context.Context, locator string) ([]byte, error) {
	path := strings.TrimPrefix(locator, "file://")
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer fh.Close()
	return readLimited(fh, locator)
}

// HTTPFetcher reads templates over HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch implements Fetcher. Non-2xx responses fail with a *StatusError.
func (h *HTTPFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: %w", ErrFetch, &StatusError{URL: locator, StatusCode: resp.StatusCode})
	}
	return readLimited(resp.Body, locator)
}

// GCSFetcher reads templates from Cloud Storage. Locators look like gs://bucket/object.
type GCSFetcher struct {
	client *storage.Client
}

// NewGCSFetcher creates a GCSFetcher.
func NewGCSFetcher(client *storage.Client) *GCSFetcher {
	return &GCSFetcher{client: client}
}

// Fetch implements Fetcher.
func (g *GCSFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	bucket, object, err := ParseGCSLocator(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	r, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		var gerr *googleapi.Error
		switch {
		case errors.Is(err, storage.ErrObjectNotExist):
			err = &StatusError{URL: locator, StatusCode: http.StatusNotFound}
		case errors.As(err, &gerr):
			err = &StatusError{URL: locator, StatusCode: gerr.Code}
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer r.Close()
	return readLimited(r, locator)
}

// ParseGCSLocator splits gs://bucket/object.
func ParseGCSLocator(locator string) (bucket, object string, err error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", "", err
	}
	object = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "gs" || u.Host == "" || object == "" {
		return "", "", fmt.Errorf("invalid Cloud Storage locator %q", locator)
	}
	return u.Host, object, nil
}

// MultiFetcher routes locators to fetchers by URL scheme. Locators without a
// scheme are routed to the "file" fetcher.
type MultiFetcher map[string]Fetcher

// Fetch implements Fetcher.
func (m MultiFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	scheme := "file"
	if i := strings.Index(locator, "://"); i > 0 {
		scheme = strings.ToLower(locator[:i])
	}
	f, ok := m[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %w: scheme %q", ErrFetch, ErrUnsupportedLocator, scheme)
	}
	return f.Fetch(ctx, locator)
}

func readLimited(r io.Reader, locator string) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxTemplateSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrFetch, locator, err)
	}
	if len(b) > MaxTemplateSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFetch, locator, MaxTemplateSize)
	}
	return b, nil
}
