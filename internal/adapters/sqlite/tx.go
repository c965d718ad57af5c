package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"
	"unicode/utf8"

	"packbrowser/internal/domain"
)

// catalogTx groups the writes of one catalog mutation
type catalogTx struct {
	tx *sql.Tx
}

func (c *Catalog) beginTx(ctx context.Context) (*catalogTx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &catalogTx{tx: tx}, nil
}

// insertContainer records container with its export count
func (t *catalogTx) insertContainer(container string, count int) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO containers (path, export_count, imported_at)
		VALUES (?, ?, ?)
	`, container, count, time.Now().Unix())
	return err
}

// insertExports bulk inserts exports with a prepared statement
func (t *catalogTx) insertExports(container string, exports []domain.ExportDescriptor) error {
	stmt, err := t.tx.Prepare(`
		INSERT INTO exports (container, idx, name, class, outer_idx, serial_size)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range exports {
		if _, err := stmt.Exec(container, e.Index, e.Name, e.Class, e.Outer, e.SerialSize); err != nil {
			return err
		}
	}
	return nil
}

// deleteContainer removes a single container and its exports
func (t *catalogTx) deleteContainer(container string) error {
	if _, err := t.tx.Exec(`DELETE FROM exports WHERE container = ?`, container); err != nil {
		return err
	}
	_, err := t.tx.Exec(`DELETE FROM containers WHERE path = ?`, container)
	return err
}

// deleteSubtree removes path and every container below it
func (t *catalogTx) deleteSubtree(path string) error {
	path = filepath.Clean(path)
	pattern := subtreePattern(path)
	if _, err := t.tx.Exec(`DELETE FROM exports WHERE container = ? OR container LIKE ? ESCAPE '\'`, path, pattern); err != nil {
		return err
	}
	_, err := t.tx.Exec(`DELETE FROM containers WHERE path = ? OR path LIKE ? ESCAPE '\'`, path, pattern)
	return err
}

// renameSubtree replaces the oldPath prefix with newPath
func (t *catalogTx) renameSubtree(oldPath, newPath string) error {
	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)
	pattern := subtreePattern(oldPath)
	// substr counts characters from 1
	tail := utf8.RuneCountInString(oldPath) + 1

	if _, err := t.tx.Exec(`
		UPDATE exports SET container = ? || substr(container, ?)
		WHERE container = ? OR container LIKE ? ESCAPE '\'
	`, newPath, tail, oldPath, pattern); err != nil {
		return err
	}
	_, err := t.tx.Exec(`
		UPDATE containers SET path = ? || substr(path, ?)
		WHERE path = ? OR path LIKE ? ESCAPE '\'
	`, newPath, tail, oldPath, pattern)
	return err
}

// Commit commits the transaction
func (t *catalogTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *catalogTx) Rollback() error {
	return t.tx.Rollback()
}
