package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
)

func openSQLite(t *testing.T) *SQLResolver {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	r, err := NewSQLResolver(context.Background(), db, "sqlite3")
	if err != nil {
		t.Fatalf("NewSQLResolver failed: %v", err)
	}
	return r
}

func TestSQLResolverResolveDefault(t *testing.T) {
	ctx := context.Background()
	r := openSQLite(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []models.TemplateDescriptor{
		{ID: "old", CompanyID: "acme", Locator: "old.xlsx", IsDefault: true, UpdatedAt: base},
		{ID: "new", CompanyID: "acme", Locator: "new.xlsx", Name: "G702", IsDefault: true, UpdatedAt: base.Add(time.Hour)},
		{ID: "draft", CompanyID: "acme", Locator: "draft.xlsx", UpdatedAt: base.Add(2 * time.Hour)},
	} {
		if err := r.Put(ctx, d); err != nil {
			t.Fatalf("Put(%s) failed: %v", d.ID, err)
		}
	}

	desc, err := r.ResolveDefault(ctx, "acme")
	if err != nil {
		t.Fatalf("ResolveDefault failed: %v", err)
	}
	if desc == nil || desc.ID != "new" || desc.Name != "G702" || !desc.IsDefault {
		t.Errorf("ResolveDefault = %+v, expected descriptor new", desc)
	}
}

func TestSQLResolverNoTemplate(t *testing.T) {
	r := openSQLite(t)

	desc, err := r.ResolveDefault(context.Background(), "acme")
	if err != nil || desc != nil {
		t.Errorf("ResolveDefault = %+v, %v; expected nil, nil", desc, err)
	}
}

func TestSQLResolverPutReplaces(t *testing.T) {
	ctx := context.Background()
	r := openSQLite(t)

	d := models.TemplateDescriptor{ID: "t1", CompanyID: "acme", Locator: "a.xlsx", IsDefault: true}
	if err := r.Put(ctx, d); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	d.IsDefault = false
	if err := r.Put(ctx, d); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	desc, err := r.ResolveDefault(ctx, "acme")
	if err != nil || desc != nil {
		t.Errorf("ResolveDefault = %+v, %v; expected nil after default was cleared", desc, err)
	}
}

func TestSQLResolverPutRejectsInvalid(t *testing.T) {
	r := openSQLite(t)

	if err := r.Put(context.Background(), models.TemplateDescriptor{ID: "t1"}); err == nil {
		t.Error("expected validation error")
	}
}

func TestRebindPostgres(t *testing.T) {
	r := &SQLResolver{driver: "postgres"}

	if got := r.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("rebind = %q", got)
	}
	r.driver = "sqlite3"
	if got := r.rebind("a = ?"); got != "a = ?" {
		t.Errorf("rebind = %q", got)
	}
}
