package application

import (
	"context"

	"go.uber.org/zap"

	"packbrowser/internal/ports"
)

// SyncCatalog keeps the paths recorded in catalog in step with the session's
// renames, moves and deletions. Catalog failures are logged, never reported:
// the catalog is a cache that a re-import repairs.
func SyncCatalog(ctx context.Context, s *Session, catalog ports.ExportCatalog) {
	s.Subscribe(func(c Change) {
		var err error
		switch c.Kind {
		case ChangeMoved:
			err = catalog.Relocate(ctx, c.OldPath, c.Path)
		case ChangeRemoved:
			err = catalog.Forget(ctx, c.Path)
		default:
			return
		}
		if err != nil {
			s.log.Warn("catalog sync failed",
				zap.Stringer("change", c.Kind),
				zap.String("path", c.Path),
				zap.Error(err),
			)
		}
	})
}
