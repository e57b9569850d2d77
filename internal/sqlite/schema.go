// Package sqlite implements the SQLite backend for the capitals store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
)

// migrationFS holds the schema DDL. Tables are created with
// CREATE TABLE IF NOT EXISTS so a database written before goose tracked
// versions is adopted rather than rejected.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

// Column lists shared by the table accessors.
const (
	userColumns     = "id, name, email, password, created_at"
	favoriteColumns = "id, user_id, city_name, timezone, saved_at"
)

// managedTables lists the tables owned by the schema, in dependency order.
var managedTables = []string{"users", "favorites"}

// migrate applies every pending migration. Already-applied versions are
// skipped, so it is safe to call on every start.
func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// dsn builds the modernc.org/sqlite data source name. The pragmas are applied
// to every pooled connection; foreign_keys must be on for the cascade from
// users to favorites to hold.
func dsn(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// timestampLayouts are the text forms SQLite may hand back for DATETIME
// columns. CURRENT_TIMESTAMP produces the first one.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
}

// sqlTime scans a DATETIME column whether the driver returns time.Time or
// text. Values without a zone are UTC, which is what CURRENT_TIMESTAMP uses.
type sqlTime struct {
	time.Time
}

func (t *sqlTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = x.UTC()
		return nil
	case string:
		return t.parse(x)
	case []byte:
		return t.parse(string(x))
	default:
		return fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func (t *sqlTime) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("parsing timestamp %q", s)
}
