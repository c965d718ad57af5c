package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

// BenchmarkImport benchmarks replacing a large export table
func BenchmarkImport(b *testing.B) {
	c := NewCatalog()
	if err := c.Open(filepath.Join(b.TempDir(), "catalog.db")); err != nil {
		b.Fatalf("failed to open catalog: %v", err)
	}
	defer c.Close()
	exports := syntheticExports(12000)
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		if err := c.Import(ctx, "/bench/big.pak", exports); err != nil {
			b.Fatalf("import failed: %v", err)
		}
	}
}

// BenchmarkWindowedRead benchmarks fetching a single export page
func BenchmarkWindowedRead(b *testing.B) {
	c := NewCatalog()
	if err := c.Open(filepath.Join(b.TempDir(), "catalog.db")); err != nil {
		b.Fatalf("failed to open catalog: %v", err)
	}
	defer c.Close()
	ctx := context.Background()
	if err := c.Import(ctx, "/bench/big.pak", syntheticExports(12000)); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := c.Exports(ctx, "/bench/big.pak", 6000, 1); err != nil {
			b.Fatalf("read failed: %v", err)
		}
	}
}
