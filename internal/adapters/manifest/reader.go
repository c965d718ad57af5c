// Package manifest reads export tables stored next to package containers as
// "<container>.exports.json".
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"packbrowser/internal/domain"
	"packbrowser/internal/ports"
)

// Suffix is appended to a container path to locate its manifest
const Suffix = ".exports.json"

// document is the on-disk layout of a manifest
type document struct {
	Container string      `json:"container,omitempty"`
	Exports   []exportDoc `json:"exports"`
}

type exportDoc struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Class      string `json:"class"`
	Outer      *int   `json:"outer,omitempty"`
	SerialSize int64  `json:"serial_size"`
}

// Reader implements ports.ManifestReader on the local file system
type Reader struct{}

var _ ports.ManifestReader = (*Reader)(nil)

// NewReader creates a manifest reader
func NewReader() *Reader {
	return &Reader{}
}

// ManifestPath returns the manifest location for container
func (r *Reader) ManifestPath(container string) string {
	return container + Suffix
}

// ReadExports parses the manifest of container. Exports are returned in index
// order; indices must be exactly 0..n-1 and outer references must point
// inside the table.
func (r *Reader) ReadExports(ctx context.Context, container string) ([]domain.ExportDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCancelled, err)
	}

	path := r.ManifestPath(container)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no manifest for %s", domain.ErrNotFound, container)
	}
	if err != nil {
		return nil, domain.NewIOError("read manifest", path, err)
	}
	defer f.Close()

	var doc document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	sort.SliceStable(doc.Exports, func(i, j int) bool {
		return doc.Exports[i].Index < doc.Exports[j].Index
	})

	exports := make([]domain.ExportDescriptor, len(doc.Exports))
	for i, e := range doc.Exports {
		if e.Index != i {
			return nil, fmt.Errorf("invalid manifest %s: expected export %d, found %d", path, i, e.Index)
		}
		outer := -1
		if e.Outer != nil {
			outer = *e.Outer
		}
		if outer < -1 || outer >= len(doc.Exports) {
			return nil, fmt.Errorf("invalid manifest %s: export %d has outer %d", path, i, outer)
		}
		exports[i] = domain.ExportDescriptor{
			Index:      e.Index,
			Name:       e.Name,
			Class:      e.Class,
			Outer:      outer,
			SerialSize: e.SerialSize,
		}
	}
	return exports, nil
}

// Write stores exports as the manifest of container
func Write(container string, exports []domain.ExportDescriptor) error {
	doc := document{Exports: make([]exportDoc, len(exports))}
	for i, e := range exports {
		doc.Exports[i] = exportDoc{Index: e.Index, Name: e.Name, Class: e.Class, SerialSize: e.SerialSize}
		if e.Outer >= 0 {
			outer := e.Outer
			doc.Exports[i].Outer = &outer
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	path := container + Suffix
	if err := os.WriteFile(path, data, 0644); err != nil {
		return domain.NewIOError("write manifest", path, err)
	}
	return nil
}
