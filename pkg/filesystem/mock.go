package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MockFileSystem is an in-memory filesystem implementation for testing.
// Paths are slash-separated and joined with filepath.Join.
type MockFileSystem struct {
	mu            sync.RWMutex
	files         map[string]*mockFile
	statErrors    map[string]error
	readDirErrors map[string]error
}

// mockFile represents a file in the mock filesystem.
type mockFile struct {
	path    string
	size    int64
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

// mockFileInfo implements os.FileInfo for mock files.
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) Mode() os.FileMode  { return fi.perm }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

// NewMockFileSystem creates a new in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:         make(map[string]*mockFile),
		statErrors:    make(map[string]error),
		readDirErrors: make(map[string]error),
	}
}

// Join joins path elements.
func (fs *MockFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Lstat returns file information. The mock has no symlinks, so it matches Stat
// except that injected Stat errors do not apply.
func (fs *MockFileSystem) Lstat(path string) (os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.infoLocked(path)
}

// ReadDir lists the direct children of dirname sorted by name.
func (fs *MockFileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if err, ok := fs.readDirErrors[dirname]; ok {
		return nil, &os.PathError{Op: "open", Path: dirname, Err: err}
	}

	info, err := fs.infoLocked(dirname)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, &os.PathError{Op: "readdir", Path: dirname, Err: ErrNotDirectory}
	}

	children := make([]os.FileInfo, 0)

	for path, file := range fs.files {
		if path != dirname && filepath.Dir(path) == dirname {
			children = append(children, file.info())
		}
	}

	sort.Slice(children, func(i, j int) bool {
		return children[i].Name() < children[j].Name()
	})

	return children, nil
}

// Stat returns file information, or the error injected with SetStatError.
func (fs *MockFileSystem) Stat(path string) (os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if err, ok := fs.statErrors[path]; ok {
		return nil, &os.PathError{Op: "stat", Path: path, Err: err}
	}

	return fs.infoLocked(path)
}

// Walk returns an iterator over all entries in a directory tree.
func (fs *MockFileSystem) Walk(root string) FileScanner {
	return newWalker(fs, root)
}

// Helper methods for testing

// AddFile adds a file of the given size and modtime, creating parent directories.
func (fs *MockFileSystem) AddFile(path string, size int64, modTime time.Time) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.mkdirAllLocked(filepath.Dir(path))

	fs.files[path] = &mockFile{
		path:    path,
		size:    size,
		modTime: modTime,
		perm:    0o644,
	}
}

// AddDir adds a directory and its parents.
func (fs *MockFileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.mkdirAllLocked(path)
}

// Remove deletes a path, simulating a file that vanishes during a scan.
func (fs *MockFileSystem) Remove(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.files, path)
}

// SetStatError makes Stat on path fail with err.
func (fs *MockFileSystem) SetStatError(path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.statErrors[path] = err
}

// SetReadDirError makes ReadDir on path fail with err.
func (fs *MockFileSystem) SetReadDirError(path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.readDirErrors[path] = err
}

// ListFiles returns all paths in the mock filesystem.
func (fs *MockFileSystem) ListFiles() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	paths := make([]string, 0, len(fs.files))
	for p := range fs.files {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

func (fs *MockFileSystem) infoLocked(path string) (os.FileInfo, error) {
	if path == "/" || path == "." {
		return &mockFileInfo{name: path, isDir: true, perm: os.ModeDir | 0o755}, nil
	}

	file, exists := fs.files[path]
	if !exists {
		return nil, &os.PathError{Op: "lstat", Path: path, Err: os.ErrNotExist}
	}

	return file.info(), nil
}

// mkdirAllLocked creates path and its parents; the lock must be held.
func (fs *MockFileSystem) mkdirAllLocked(path string) {
	if path == "." || path == "/" || path == "" {
		return
	}

	fs.mkdirAllLocked(filepath.Dir(path))

	if _, exists := fs.files[path]; !exists {
		fs.files[path] = &mockFile{
			path:  path,
			isDir: true,
			perm:  os.ModeDir | 0o755,
		}
	}
}

func (f *mockFile) info() os.FileInfo {
	return &mockFileInfo{
		name:    filepath.Base(f.path),
		size:    f.size,
		modTime: f.modTime,
		isDir:   f.isDir,
		perm:    f.perm,
	}
}
