package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	krfs "github.com/kr/fs"
)

// ErrNotDirectory is returned by a walk whose root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// walker implements FileScanner on top of kr/fs.Walker, which reads each
// directory only when the walk steps into it.
type walker struct {
	fsys    FileSystem
	root    string
	step    *krfs.Walker
	started bool
	current FileInfo
	err     error
}

// newWalker creates a lazy walker rooted at root.
func newWalker(fsys FileSystem, root string) *walker {
	return &walker{
		fsys: fsys,
		root: root,
		step: krfs.WalkFS(root, rootFollowing{FileSystem: fsys, root: root}),
	}
}

// Err returns the fatal error that ended the walk.
func (w *walker) Err() error {
	return w.err
}

// Next advances to the next entry below the root.
func (w *walker) Next() (FileInfo, bool) {
	if w.err != nil {
		return FileInfo{}, false
	}

	for w.step.Step() {
		path := w.step.Path()

		if path == w.root {
			if !w.started {
				w.started = true
				if err := w.checkRoot(); err != nil {
					w.err = err

					return FileInfo{}, false
				}

				continue
			}

			// kr/fs yields the root a second time when its ReadDir fails
			w.err = fmt.Errorf("failed to read root %s: %w", w.root, w.step.Err())

			return FileInfo{}, false
		}

		w.current = w.entry(path)

		return w.current, true
	}

	return FileInfo{}, false
}

// SkipDir stops descent into the directory last returned by Next.
func (w *walker) SkipDir() {
	if w.current.IsDir {
		w.step.SkipDir()
	}
}

func (w *walker) checkRoot() error {
	if err := w.step.Err(); err != nil {
		return fmt.Errorf("failed to open root %s: %w", w.root, err)
	}

	if info := w.step.Stat(); info == nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", w.root, ErrNotDirectory)
	}

	return nil
}

func (w *walker) entry(path string) FileInfo {
	entry := FileInfo{
		Path:         path,
		RelativePath: relativePath(w.root, path),
		Err:          w.step.Err(),
	}

	info := w.step.Stat()
	if info == nil {
		entry.IsDir = entry.Err != nil

		return entry
	}

	entry.Size = info.Size()
	entry.ModTime = info.ModTime()
	entry.IsDir = info.IsDir()

	// A symlink to a directory is reported as a directory but never
	// descended, which keeps link cycles out of the walk.
	if info.Mode()&os.ModeSymlink != 0 {
		if target, err := w.fsys.Stat(path); err == nil && target.IsDir() {
			entry.IsDir = true
		}
	}

	return entry
}

// rootFollowing resolves the walk root with Stat so a root that is itself a
// symlink to a directory still gets walked.
type rootFollowing struct {
	FileSystem

	root string
}

func (r rootFollowing) Lstat(name string) (os.FileInfo, error) {
	if name == r.root {
		return r.Stat(name) //nolint:wrapcheck // Passed through to kr/fs unchanged
	}

	return r.FileSystem.Lstat(name) //nolint:wrapcheck // Passed through to kr/fs unchanged
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = strings.TrimLeft(strings.TrimPrefix(path, root), `/\`)
	}

	return filepath.ToSlash(rel)
}
