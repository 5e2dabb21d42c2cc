package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testIndex = `templates:
  - id: old
    company_id: acme
    locator: old.xlsx
    is_default: true
    updated_at: 2024-01-01T00:00:00Z
  - id: current
    company_id: acme
    locator: acme/g702.xlsx
    name: Acme G702
    is_default: true
    updated_at: 2025-03-01T00:00:00Z
  - id: draft
    company_id: acme
    locator: draft.xlsx
    updated_at: 2026-01-01T00:00:00Z
  - id: remote
    company_id: globex
    locator: gs://templates/globex.xlsx
    is_default: true
`

func writeIndex(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, IndexFile), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return dir
}

func TestDirResolverResolveDefault(t *testing.T) {
	dir := writeIndex(t, testIndex)
	r := NewDirResolver(dir)

	desc, err := r.ResolveDefault(context.Background(), "acme")
	if err != nil {
		t.Fatalf("ResolveDefault failed: %v", err)
	}
	if desc == nil || desc.ID != "current" {
		t.Fatalf("ResolveDefault = %+v, expected descriptor current", desc)
	}
	if want := filepath.Join(dir, "acme/g702.xlsx"); desc.Locator != want {
		t.Errorf("Locator = %q, expected %q", desc.Locator, want)
	}

	remote, err := r.ResolveDefault(context.Background(), "globex")
	if err != nil {
		t.Fatalf("ResolveDefault failed: %v", err)
	}
	if remote == nil || remote.Locator != "gs://templates/globex.xlsx" {
		t.Errorf("remote locator rewritten: %+v", remote)
	}
}

func TestDirResolverUnknownCompany(t *testing.T) {
	r := NewDirResolver(writeIndex(t, testIndex))

	desc, err := r.ResolveDefault(context.Background(), "initech")
	if err != nil || desc != nil {
		t.Errorf("ResolveDefault = %+v, %v; expected nil, nil", desc, err)
	}
}

func TestDirResolverMissingIndex(t *testing.T) {
	r := NewDirResolver(t.TempDir())

	desc, err := r.ResolveDefault(context.Background(), "acme")
	if err != nil || desc != nil {
		t.Errorf("ResolveDefault = %+v, %v; expected nil, nil", desc, err)
	}
}

func TestDirResolverMalformedIndex(t *testing.T) {
	r := NewDirResolver(writeIndex(t, "templates: [unterminated"))

	if _, err := r.ResolveDefault(context.Background(), "acme"); err == nil {
		t.Error("expected error for malformed index")
	}
}
