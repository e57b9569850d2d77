package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/capitals/pkg/types"
)

var _ types.Store = (*Store)(nil)

// Store implements types.Store on a single SQLite database file. It holds
// no state between calls besides the handle; every operation is one
// statement and therefore its own unit of work.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// New wraps an already-open database handle. The schema is not touched;
// call Initialize before use unless the handle is known to be initialized.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open creates DataDir if it does not exist, opens the database file and
// initializes the schema. An initialization failure closes the handle and
// is returned; callers must not continue with a partial store.
func Open(ctx context.Context, config types.Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, config.DBFile())
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}

	s := New(db)
	s.path = dbPath
	if err := s.Initialize(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return s, nil
}

// Initialize enables foreign key enforcement and creates the users and
// favorites tables if absent. It is idempotent.
func (s *Store) Initialize(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	var enabled int
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
		return fmt.Errorf("check foreign keys: %w", err)
	}
	if enabled != 1 {
		return types.ErrForeignKeysDisabled
	}

	if err := migrate(ctx, db); err != nil {
		return err
	}
	return s.checkSchema(ctx, db)
}

// checkSchema verifies that every managed table exists after migration.
func (s *Store) checkSchema(ctx context.Context, db *sql.DB) error {
	for _, name := range managedTables {
		var n int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
		).Scan(&n)
		if err != nil {
			return fmt.Errorf("checking table %s: %w", name, err)
		}
		if n != 1 {
			return fmt.Errorf("table %s missing after migration", name)
		}
	}
	return nil
}

// Path returns the database file path, or "" when the store wraps a
// foreign handle.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle. Close is idempotent; after it, every
// operation returns ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn returns the live handle or ErrStoreClosed.
func (s *Store) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed || s.db == nil {
		return nil, types.ErrStoreClosed
	}
	return s.db, nil
}

// rowsChanged reports whether a statement modified at least one row.
func rowsChanged(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return n > 0, nil
}
