package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/aiafill-go/pkg/aiafill/models"
)

// SQLResolver resolves descriptors from the template_descriptors table.
// It works with the sqlite3 and postgres drivers.
type SQLResolver struct {
	db     *sql.DB
	driver string
}

// NewSQLResolver wraps db and creates the table if it does not exist.
func NewSQLResolver(ctx context.Context, db *sql.DB, driver string) (*SQLResolver, error) {
	r := &SQLResolver{db: db, driver: driver}
	if err := r.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("init template schema: %w", err)
	}
	return r, nil
}

func (r *SQLResolver) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS template_descriptors (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	locator TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	is_default BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
		`CREATE INDEX IF NOT EXISTS idx_template_company ON template_descriptors(company_id);`,
	}
	for _, q := range stmts {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// ResolveDefault implements Resolver. The most recently updated default wins.
func (r *SQLResolver) ResolveDefault(ctx context.Context, companyID string) (*models.TemplateDescriptor, error) {
	q := r.rebind(`SELECT id, company_id, locator, name, is_default, updated_at
FROM template_descriptors
WHERE company_id = ? AND is_default = ?
ORDER BY updated_at DESC
LIMIT 1`)

	var d models.TemplateDescriptor
	var updated sql.NullTime
	err := r.db.QueryRowContext(ctx, q, companyID, true).
		Scan(&d.ID, &d.CompanyID, &d.Locator, &d.Name, &d.IsDefault, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query template descriptor: %w", err)
	}
	if updated.Valid {
		d.UpdatedAt = updated.Time
	}
	return &d, nil
}

// Put inserts or replaces a descriptor.
func (r *SQLResolver) Put(ctx context.Context, d models.TemplateDescriptor) error {
	if err := ValidateDescriptor(d); err != nil {
		return err
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}
	q := r.rebind(`INSERT INTO template_descriptors (id, company_id, locator, name, is_default, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	company_id = excluded.company_id,
	locator = excluded.locator,
	name = excluded.name,
	is_default = excluded.is_default,
	updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, q, d.ID, d.CompanyID, d.Locator, d.Name, d.IsDefault, d.UpdatedAt); err != nil {
		return fmt.Errorf("store template descriptor %q: %w", d.ID, err)
	}
	return nil
}

// rebind rewrites ? placeholders as $n for postgres.
func (r *SQLResolver) rebind(q string) string {
	if r.driver != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
