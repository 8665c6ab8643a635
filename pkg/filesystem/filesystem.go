// Package filesystem provides an abstraction layer for the read-only filesystem
// operations a scan needs, so walks can run against real disks or an in-memory
// tree in tests.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	krfs "github.com/kr/fs"
)

// FileSystem is an interface that abstracts filesystem operations.
// It extends the kr/fs walking contract (ReadDir, Lstat, Join) with Stat,
// which follows symlinks, and Walk, which returns a lazy iterator.
type FileSystem interface {
	krfs.FileSystem

	// Stat returns file information, following symlinks.
	Stat(path string) (os.FileInfo, error)

	// Walk returns a lazy iterator over every entry below root.
	Walk(root string) FileScanner
}

// RealFileSystem implements FileSystem using the os package.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Join joins path elements with the host separator.
func (fs *RealFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Lstat returns file information without following symlinks.
func (fs *RealFileSystem) Lstat(path string) (os.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat %s: %w", path, err)
	}

	return info, nil
}

// ReadDir lists a directory sorted by name. Entries that disappear between the
// listing and their Lstat are left out.
func (fs *RealFileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dirname, err)
	}

	infos := make([]os.FileInfo, 0, len(entries))

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}

		infos = append(infos, info)
	}

	return infos, nil
}

// Stat returns file information.
func (fs *RealFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return info, nil
}

// Walk returns an iterator over all entries in a directory tree.
func (fs *RealFileSystem) Walk(root string) FileScanner {
	return newWalker(fs, root)
}
