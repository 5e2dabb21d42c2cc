// Package repository resolves company template descriptors and fetches
// template bytes from local files, HTTP(S) or Cloud Storage.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
)

// ErrFetch indicates the template bytes could not be retrieved.
var ErrFetch = errors.New("template fetch failed")

// ErrInvalidDescriptor indicates a stored descriptor is missing required fields.
var ErrInvalidDescriptor = errors.New("invalid template descriptor")

// ErrUnsupportedLocator indicates no fetcher handles the descriptor's locator scheme.
var ErrUnsupportedLocator = errors.New("unsupported template locator")

// StatusError reports a non-success response from a template store.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// Resolver finds a company's default template descriptor.
type Resolver interface {
	// ResolveDefault returns nil, nil when the company has no default template.
	ResolveDefault(ctx context.Context, companyID string) (*models.TemplateDescriptor, error)
}

// Fetcher reads the bytes a locator points at.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// Repository combines a Resolver and a Fetcher.
type Repository struct {
	resolver Resolver
	fetcher  Fetcher
}

// New creates a Repository.
func New(resolver Resolver, fetcher Fetcher) *Repository {
	return &Repository{resolver: resolver, fetcher: fetcher}
}

// ResolveDefaultTemplate returns the company's default template, or nil, nil
// when none is registered. Descriptors failing validation are reported as
// ErrInvalidDescriptor.
func (r *Repository) ResolveDefaultTemplate(ctx context.Context, companyID string) (*models.TemplateDescriptor, error) {
	desc, err := r.resolver.ResolveDefault(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("resolve template for %q: %w", companyID, err)
	}
	if desc == nil {
		return nil, nil
	}
	if err := ValidateDescriptor(*desc); err != nil {
		return nil, err
	}
	return desc, nil
}

// FetchTemplateBytes reads the template content. Every failure wraps ErrFetch.
func (r *Repository) FetchTemplateBytes(ctx context.Context, d models.TemplateDescriptor) ([]byte, error) {
	b, err := r.fetcher.Fetch(ctx, d.Locator)
	if err != nil {
		if errors.Is(err, ErrFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return b, nil
}
