package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
)

type stubResolver struct {
	desc *models.TemplateDescriptor
	err  error
}

func (s stubResolver) ResolveDefault(context.Context, string) (*models.TemplateDescriptor, error) {
	return s.desc, s.err
}

type stubFetcher struct {
	data []byte
	err  error
}

func (s stubFetcher) Fetch(context.Context, string) ([]byte, error) {
	return s.data, s.err
}

func TestResolveDefaultTemplateAbsent(t *testing.T) {
	repo := New(stubResolver{}, stubFetcher{})

	desc, err := repo.ResolveDefaultTemplate(context.Background(), "acme")
	if err != nil {
		t.Fatalf("ResolveDefaultTemplate failed: %v", err)
	}
	if desc != nil {
		t.Errorf("ResolveDefaultTemplate = %+v, expected nil", desc)
	}
}

func TestResolveDefaultTemplateValidates(t *testing.T) {
	repo := New(stubResolver{desc: &models.TemplateDescriptor{ID: "t1", CompanyID: "acme"}}, stubFetcher{})

	_, err := repo.ResolveDefaultTemplate(context.Background(), "acme")
	if !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("error = %v, expected ErrInvalidDescriptor", err)
	}
}

func TestFetchTemplateBytesWrapsErrors(t *testing.T) {
	cause := errors.New("connection reset")
	repo := New(stubResolver{}, stubFetcher{err: cause})

	_, err := repo.FetchTemplateBytes(context.Background(), models.TemplateDescriptor{Locator: "x"})
	if !errors.Is(err, ErrFetch) || !errors.Is(err, cause) {
		t.Errorf("error = %v, expected ErrFetch wrapping the cause", err)
	}
}

func TestValidateDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		desc    models.TemplateDescriptor
		wantErr bool
	}{
		{"complete", models.TemplateDescriptor{CompanyID: "acme", Locator: "a.xlsx"}, false},
		{"missing company", models.TemplateDescriptor{Locator: "a.xlsx"}, true},
		{"missing locator", models.TemplateDescriptor{CompanyID: "acme"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDescriptor(tt.desc)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDescriptor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("error %v does not wrap ErrInvalidDescriptor", err)
			}
		})
	}
}
