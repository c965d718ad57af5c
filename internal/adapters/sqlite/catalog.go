package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"packbrowser/internal/domain"
	"packbrowser/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Catalog implements ports.ExportCatalog using SQLite
type Catalog struct {
	db     *sql.DB
	dbPath string
}

// Ensure Catalog implements ExportCatalog
var _ ports.ExportCatalog = (*Catalog)(nil)

// NewCatalog creates a new SQLite catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Open opens or creates the catalog database at dbPath. A database written
// by another schema version is discarded and rebuilt empty.
func (c *Catalog) Open(dbPath string) error {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	c.dbPath = dbPath

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	if c.staleSchema() {
		if _, err := db.Exec(`
			DROP TABLE IF EXISTS exports;
			DROP TABLE IF EXISTS containers;
			DROP TABLE IF EXISTS meta;
		`); err != nil {
			db.Close()
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}

	_, err = db.Exec(`
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS containers (
			path TEXT PRIMARY KEY,
			export_count INTEGER NOT NULL,
			imported_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS exports (
			container TEXT NOT NULL,
			idx INTEGER NOT NULL,
			name TEXT NOT NULL,
			class TEXT NOT NULL,
			outer_idx INTEGER NOT NULL,
			serial_size INTEGER NOT NULL,
			PRIMARY KEY (container, idx)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_exports_name ON exports(container, name);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the database file in use
func (c *Catalog) Path() string {
	return c.dbPath
}

// staleSchema reports whether an existing database carries another version
func (c *Catalog) staleSchema() bool {
	var version string
	err := c.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	if err != nil {
		// No meta table yet: a fresh database.
		return false
	}
	return version != schemaVersion
}

// DatabasePath returns the default catalog location for a browsing root
func DatabasePath(root string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "packbrowser", hashRoot(root)+".db")
}

// hashRoot returns a short hash of the root path
func hashRoot(root string) string {
	h := sha256.Sum256([]byte(root))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// subtreePattern returns a LIKE pattern matching every path strictly below path
func subtreePattern(path string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(filepath.Clean(path))
	return escaped + string(filepath.Separator) + "%"
}

func notFound(container string) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, container)
}

// ExportCount returns the number of exports recorded for container
func (c *Catalog) ExportCount(ctx context.Context, container string) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT export_count FROM containers WHERE path = ?`, container).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, notFound(container)
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Exports returns exports [start, start+count) of container in index order
func (c *Catalog) Exports(ctx context.Context, container string, start, count int) ([]domain.ExportDescriptor, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT idx, name, class, outer_idx, serial_size
		FROM exports
		WHERE container = ? AND idx >= ? AND idx < ?
		ORDER BY idx
	`, container, start, start+count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exports := make([]domain.ExportDescriptor, 0, count)
	for rows.Next() {
		var e domain.ExportDescriptor
		if err := rows.Scan(&e.Index, &e.Name, &e.Class, &e.Outer, &e.SerialSize); err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}

	return exports, rows.Err()
}

// ResolveIndex returns the lowest index of an export called name
func (c *Catalog) ResolveIndex(ctx context.Context, container, name string) (int, error) {
	var idx int
	err := c.db.QueryRowContext(ctx, `
		SELECT idx FROM exports WHERE container = ? AND name = ? ORDER BY idx LIMIT 1
	`, container, name).Scan(&idx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: export %s in %s", domain.ErrNotFound, name, container)
	}
	if err != nil {
		return 0, err
	}
	return idx, nil
}

// Containers lists the containers recorded at or below root
func (c *Catalog) Containers(ctx context.Context, root string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT path FROM containers
		WHERE path = ? OR path LIKE ? ESCAPE '\'
		ORDER BY path
	`, filepath.Clean(root), subtreePattern(root))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var containers []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		containers = append(containers, path)
	}

	return containers, rows.Err()
}

// Import replaces every export recorded for container in one transaction
func (c *Catalog) Import(ctx context.Context, container string, exports []domain.ExportDescriptor) error {
	tx, err := c.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.deleteContainer(container); err != nil {
		return err
	}
	if err := tx.insertContainer(container, len(exports)); err != nil {
		return err
	}
	if err := tx.insertExports(container, exports); err != nil {
		return err
	}
	return tx.Commit()
}

// Forget drops container and every container recorded below it
func (c *Catalog) Forget(ctx context.Context, container string) error {
	tx, err := c.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.deleteSubtree(container); err != nil {
		return err
	}
	return tx.Commit()
}

// Relocate rewrites the paths of container and everything below it
func (c *Catalog) Relocate(ctx context.Context, oldPath, newPath string) error {
	tx, err := c.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Anything already recorded at the destination is stale.
	if err := tx.deleteSubtree(newPath); err != nil {
		return err
	}
	if err := tx.renameSubtree(oldPath, newPath); err != nil {
		return err
	}
	return tx.Commit()
}
