package application

import (
	"context"
	"errors"
	"fmt"

	"packbrowser/internal/domain"
	"packbrowser/internal/ports"
)

// BuildTree walks rootPath through gw and returns the fully populated tree.
// Children are sorted directories first. A cancelled walk returns
// ErrCancelled and no tree.
func BuildTree(ctx context.Context, gw ports.FileSystemGateway, rootPath string) (*domain.TreeNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	info, err := gw.Stat(ctx, rootPath)
	if err != nil {
		return nil, checkCancelled(ctx, err)
	}

	if !info.IsDir {
		return domain.NewFile(rootPath), nil
	}

	root := domain.NewDirectory(rootPath)
	if err := loadChildren(ctx, gw, root); err != nil {
		return nil, err
	}
	root.IsExpanded = true
	return root, nil
}

func loadChildren(ctx context.Context, gw ports.FileSystemGateway, dir *domain.TreeNode) error {
	entries, err := gw.List(ctx, dir.Path)
	if err != nil {
		return checkCancelled(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}

	for _, entry := range entries {
		path := domain.ChildPath(dir.Path, entry.Name)
		var child *domain.TreeNode
		if entry.IsDir {
			child = domain.NewDirectory(path)
		} else {
			child = domain.NewFile(path)
		}
		if err := dir.Attach(child, len(dir.Children)); err != nil {
			return err
		}
	}
	dir.SortChildren()

	for _, child := range dir.Children {
		if !child.IsDir() {
			continue
		}
		if err := loadChildren(ctx, gw, child); err != nil {
			return err
		}
	}
	return nil
}

func cancelled(cause error) error {
	return fmt.Errorf("%w: %v", ErrCancelled, cause)
}

// checkCancelled converts err into ErrCancelled when ctx has fired
func checkCancelled(ctx context.Context, err error) error {
	if errors.Is(err, ErrCancelled) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cancelled(ctxErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return cancelled(err)
	}
	return err
}
