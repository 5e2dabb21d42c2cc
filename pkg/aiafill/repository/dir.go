package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
	"gopkg.in/yaml.v3"
)

// IndexFile is the descriptor index a DirResolver reads.
const IndexFile = "templates.yaml"

// dirIndex is the on-disk layout of IndexFile.
type dirIndex struct {
	Templates []models.TemplateDescriptor `yaml:"templates"`
}

// DirResolver resolves descriptors from a YAML index in a directory.
// Relative file locators are resolved against the directory.
type DirResolver struct {
	dir string
}

// NewDirResolver creates a resolver over dir.
func NewDirResolver(dir string) *DirResolver {
	return &DirResolver{dir: dir}
}

// ResolveDefault implements Resolver. The index is read on every call.
func (r *DirResolver) ResolveDefault(_ context.Context, companyID string) (*models.TemplateDescriptor, error) {
	descs, err := r.load()
	if err != nil {
		return nil, err
	}
	var found *models.TemplateDescriptor
	for i := range descs {
		d := descs[i]
		if d.CompanyID != companyID || !d.IsDefault {
			continue
		}
		if found == nil || d.UpdatedAt.After(found.UpdatedAt) {
			found = &d
		}
	}
	if found != nil && isRelativePath(found.Locator) {
		found.Locator = filepath.Join(r.dir, found.Locator)
	}
	return found, nil
}

func (r *DirResolver) load() ([]models.TemplateDescriptor, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, IndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read template index: %w", err)
	}
	var idx dirIndex
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse template index: %w", err)
	}
	return idx.Templates, nil
}

func isRelativePath(locator string) bool {
	return locator != "" && !strings.Contains(locator, "://") && !filepath.IsAbs(locator)
}
