package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"packbrowser/internal/domain"
	"packbrowser/internal/ports"
)

// Gateway implements ports.FileSystemGateway on the local file system
type Gateway struct {
	showHidden bool
}

// NewGateway creates a gateway. Dot entries are listed only when showHidden
// is set.
func NewGateway(showHidden bool) *Gateway {
	return &Gateway{showHidden: showHidden}
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCancelled, err)
	}
	return nil
}

// List returns the entries of directory. Symbolic links are reported as
// files so the tree never follows them.
func (g *Gateway) List(ctx context.Context, directory string) ([]ports.Entry, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(directory)
	if err != nil {
		return nil, domain.NewIOError("list", directory, err)
	}

	entries := make([]ports.Entry, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if !g.showHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		entries = append(entries, ports.Entry{
			Name:  entry.Name(),
			Path:  filepath.Join(directory, entry.Name()),
			IsDir: entry.IsDir(),
		})
	}
	return entries, nil
}

// Copy copies src to dst. dst must not exist.
func (g *Gateway) Copy(ctx context.Context, src, dst string, recursive bool) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	info, err := os.Lstat(src)
	if err != nil {
		return domain.NewIOError("copy", src, err)
	}
	if _, err := os.Lstat(dst); err == nil {
		return domain.NewIOError("copy", dst, fs.ErrExist)
	}

	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}
	if !recursive {
		return domain.NewIOError("copy", src, errors.New("is a directory"))
	}
	return copyTree(ctx, src, dst)
}

func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return domain.NewIOError("copy", path, walkErr)
		}
		if err := checkContext(ctx); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return domain.NewIOError("copy", path, err)
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return domain.NewIOError("copy", path, err)
		}

		switch {
		case d.IsDir():
			if err := os.Mkdir(target, info.Mode().Perm()|0700); err != nil {
				return domain.NewIOError("copy", target, err)
			}
			return nil
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return domain.NewIOError("copy", path, err)
			}
			if err := os.Symlink(link, target); err != nil {
				return domain.NewIOError("copy", target, err)
			}
			return nil
		default:
			return copyFile(path, target, info.Mode())
		}
	})
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return domain.NewIOError("copy", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode.Perm())
	if err != nil {
		return domain.NewIOError("copy", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return domain.NewIOError("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return domain.NewIOError("copy", dst, err)
	}
	return nil
}

// Move renames src to dst, falling back to copy and delete across devices
func (g *Gateway) Move(ctx context.Context, src, dst string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil && !sameFile(src, dst) {
		return domain.NewIOError("move", dst, fs.ErrExist)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return domain.NewIOError("move", src, err)
	}

	if err := g.Copy(ctx, src, dst, true); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return domain.NewIOError("move", src, err)
	}
	return nil
}

// sameFile reports whether a and b name the same entry, as with a
// case-only rename on a case-insensitive file system
func sameFile(a, b string) bool {
	ai, err := os.Lstat(a)
	if err != nil {
		return false
	}
	bi, err := os.Lstat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// Delete removes path. Directories with content require recursive.
func (g *Gateway) Delete(ctx context.Context, path string, recursive bool) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if _, err := os.Lstat(path); err != nil {
		return domain.NewIOError("delete", path, err)
	}

	remove := os.Remove
	if recursive {
		remove = os.RemoveAll
	}
	if err := remove(path); err != nil {
		return domain.NewIOError("delete", path, err)
	}
	return nil
}

// CreateDirectory creates a single directory
func (g *Gateway) CreateDirectory(ctx context.Context, path string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if err := os.Mkdir(path, 0755); err != nil {
		return domain.NewIOError("mkdir", path, err)
	}
	return nil
}

// Exists reports whether path exists without following a final symlink
func (g *Gateway) Exists(ctx context.Context, path string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, domain.NewIOError("stat", path, err)
	}
}

// Stat describes path
func (g *Gateway) Stat(ctx context.Context, path string) (ports.Entry, error) {
	if err := checkContext(ctx); err != nil {
		return ports.Entry{}, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ports.Entry{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return ports.Entry{}, domain.NewIOError("stat", path, err)
	}
	return ports.Entry{Name: filepath.Base(path), Path: path, IsDir: info.IsDir()}, nil
}
