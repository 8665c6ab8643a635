package filesystem

import (
	"time"
)

// FileScanner is an iterator over the entries of a directory tree.
// It provides a simple Next pattern for traversing directory contents lazily:
// directories are read only when the walk reaches them.
type FileScanner interface {
	// Next advances to the next entry and returns its info.
	// Returns (FileInfo{}, false) when done or on a fatal error.
	// Check Err() after Next() returns false to distinguish between end-of-walk and error.
	Next() (FileInfo, bool)

	// SkipDir stops the walk from descending into the directory last returned by Next.
	// It has no effect when the last entry was not a directory.
	SkipDir()

	// Err returns the fatal error that ended the walk, if any.
	// Unreadable directories below the root are not fatal; they are reported
	// through FileInfo.Err instead.
	Err() error
}

// FileInfo contains metadata about a walked entry.
type FileInfo struct {
	// Path is the full path as built by the filesystem's Join.
	Path string

	// RelativePath is the path relative to the walk root, using forward slashes.
	RelativePath string

	// Size is the size in bytes reported by the directory listing (not followed).
	Size int64

	// ModTime is the modification time reported by the directory listing.
	ModTime time.Time

	// IsDir indicates a directory, or a symlink that resolves to one.
	IsDir bool

	// Err is set when this directory could not be read. Such a directory is
	// returned a second time with Err set, and its subtree is skipped.
	Err error
}
