// Package filesystem provides an abstraction layer for filesystem operations.
package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory filesystem implementation for testing.
// Paths are slash-separated; "/" and "." are implicit directories.
type MockFileSystem struct {
	mu       sync.RWMutex
	files    map[string]*mockFile
	failures map[mockFailureKey]error
}

// mockFile represents a file in the mock filesystem.
type mockFile struct {
	path    string
	data    []byte
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

type mockFailureKey struct {
	op   string
	path string
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
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

func (fi *mockFileInfo) Mode() os.FileMode {
	if fi.isDir {
		return fi.perm | os.ModeDir
	}
	return fi.perm
}

// mockFileHandle implements the File interface for reading/writing.
type mockFileHandle struct {
	fs     *MockFileSystem
	path   string
	reader *bytes.Reader
	writer *bytes.Buffer
	closed bool
}

func (f *mockFileHandle) Read(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.reader == nil {
		return 0, io.EOF
	}
	if err := f.fs.failure("read", f.path); err != nil {
		return 0, err
	}
	return f.reader.Read(p)
}

func (f *mockFileHandle) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if err := f.fs.failure("write", f.path); err != nil {
		return 0, err
	}
	if f.writer == nil {
		f.writer = &bytes.Buffer{}
	}
	return f.writer.Write(p)
}

func (f *mockFileHandle) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true

	// If we were writing, save the data
	if f.writer != nil {
		f.fs.mu.Lock()
		defer f.fs.mu.Unlock()

		if file, exists := f.fs.files[f.path]; exists {
			file.data = f.writer.Bytes()
		}
	}

	return nil
}

func (f *mockFileHandle) Stat() (os.FileInfo, error) {
	if f.closed {
		return nil, os.ErrClosed
	}

	return f.fs.Stat(f.path)
}

// NewMockFileSystem creates a new in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:    make(map[string]*mockFile),
		failures: make(map[mockFailureKey]error),
	}
}

// FailOn makes the named operation fail with err for the given path.
// Operations are "open", "create", "mkdir", "chtimes", "chmod", "stat",
// "readdir", "read" and "write".
func (fs *MockFileSystem) FailOn(op, name string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.failures[mockFailureKey{op: op, path: path.Clean(name)}] = err
}

// Chmod changes the permission bits of a file.
func (fs *MockFileSystem) Chmod(name string, mode os.FileMode) error {
	name = path.Clean(name)
	if err := fs.failure("chmod", name); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, exists := fs.files[name]
	if !exists {
		return pathError("chmod", name, os.ErrNotExist)
	}

	file.perm = mode.Perm()
	return nil
}

// Chtimes changes the access and modification times of a file.
func (fs *MockFileSystem) Chtimes(name string, atime, mtime time.Time) error {
	name = path.Clean(name)
	if err := fs.failure("chtimes", name); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, exists := fs.files[name]
	if !exists {
		return pathError("chtimes", name, os.ErrNotExist)
	}

	file.modTime = mtime
	return nil
}

// Create creates a file for writing. The parent directory must exist.
func (fs *MockFileSystem) Create(name string) (File, error) {
	name = path.Clean(name)
	if err := fs.failure("create", name); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if !fs.isDirLocked(path.Dir(name)) {
		return nil, pathError("open", name, os.ErrNotExist)
	}

	if existing, exists := fs.files[name]; exists && existing.isDir {
		return nil, pathError("open", name, fmt.Errorf("is a directory"))
	}

	// Create or truncate the file
	fs.files[name] = &mockFile{
		path:    name,
		data:    []byte{},
		modTime: time.Now(),
		isDir:   false,
		perm:    0o644,
	}

	return &mockFileHandle{
		fs:     fs,
		path:   name,
		writer: &bytes.Buffer{},
		closed: false,
	}, nil
}

// Join joins path elements with a forward slash.
func (fs *MockFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

// Lstat returns file information. The mock has no symlinks.
func (fs *MockFileSystem) Lstat(name string) (os.FileInfo, error) {
	return fs.Stat(name)
}

// MkdirAll creates a directory and all necessary parents.
func (fs *MockFileSystem) MkdirAll(name string, perm os.FileMode) error {
	name = path.Clean(name)
	if err := fs.failure("mkdir", name); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.mkdirAllLocked(name, perm)
}

// Open opens a file for reading.
func (fs *MockFileSystem) Open(name string) (File, error) {
	name = path.Clean(name)
	if err := fs.failure("open", name); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[name]
	if !exists {
		return nil, pathError("open", name, os.ErrNotExist)
	}

	if file.isDir {
		return nil, pathError("read", name, fmt.Errorf("is a directory"))
	}

	return &mockFileHandle{
		fs:     fs,
		path:   name,
		reader: bytes.NewReader(file.data),
		closed: false,
	}, nil
}

// ReadDir lists the direct children of a directory, sorted by name.
func (fs *MockFileSystem) ReadDir(name string) ([]os.FileInfo, error) {
	name = path.Clean(name)
	if err := fs.failure("readdir", name); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if !fs.isDirLocked(name) {
		return nil, pathError("readdirent", name, os.ErrNotExist)
	}

	var infos []os.FileInfo
	for p, file := range fs.files {
		if p != name && path.Dir(p) == name {
			infos = append(infos, file.info())
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	return infos, nil
}

// Stat returns file information.
func (fs *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	name = path.Clean(name)
	if err := fs.failure("stat", name); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if name == "/" || name == "." {
		return &mockFileInfo{name: name, isDir: true, perm: 0o755}, nil
	}

	file, exists := fs.files[name]
	if !exists {
		return nil, pathError("stat", name, os.ErrNotExist)
	}

	return file.info(), nil
}

// Helper methods for testing

// AddFile adds a file with the given content and modtime, creating parents.
func (fs *MockFileSystem) AddFile(name string, content []byte, modTime time.Time) {
	name = path.Clean(name)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	_ = fs.mkdirAllLocked(path.Dir(name), 0o755)

	fs.files[name] = &mockFile{
		path:    name,
		data:    append([]byte(nil), content...),
		modTime: modTime,
		isDir:   false,
		perm:    0o644,
	}
}

// AddDir adds a directory, creating parents.
func (fs *MockFileSystem) AddDir(name string, modTime time.Time) {
	name = path.Clean(name)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	_ = fs.mkdirAllLocked(name, 0o755)
	fs.files[name].modTime = modTime
}

// GetFile retrieves a file's content and modtime.
func (fs *MockFileSystem) GetFile(name string) ([]byte, time.Time, error) {
	name = path.Clean(name)

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[name]
	if !exists {
		return nil, time.Time{}, os.ErrNotExist
	}

	if file.isDir {
		return nil, time.Time{}, fmt.Errorf("is a directory")
	}

	return append([]byte(nil), file.data...), file.modTime, nil
}

// Exists checks if a path exists in the mock filesystem.
func (fs *MockFileSystem) Exists(name string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, exists := fs.files[path.Clean(name)]
	return exists
}

// ListFiles returns all paths in the mock filesystem, sorted.
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

// ListUnder returns the paths below root, relative to it, sorted.
func (fs *MockFileSystem) ListUnder(root string) []string {
	root = path.Clean(root)
	prefix := root + "/"

	var rels []string
	for _, p := range fs.ListFiles() {
		if strings.HasPrefix(p, prefix) {
			rels = append(rels, strings.TrimPrefix(p, prefix))
		}
	}
	return rels
}

func (f *mockFile) info() *mockFileInfo {
	return &mockFileInfo{
		name:    path.Base(f.path),
		size:    int64(len(f.data)),
		modTime: f.modTime,
		isDir:   f.isDir,
		perm:    f.perm,
	}
}

func (fs *MockFileSystem) failure(op, name string) error {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.failures[mockFailureKey{op: op, path: path.Clean(name)}]
}

func (fs *MockFileSystem) isDirLocked(name string) bool {
	if name == "/" || name == "." {
		return true
	}
	file, exists := fs.files[name]
	return exists && file.isDir
}

// mkdirAllLocked is the internal implementation that assumes the lock is held.
func (fs *MockFileSystem) mkdirAllLocked(name string, perm os.FileMode) error {
	if name == "." || name == "/" {
		return nil
	}

	if existing, exists := fs.files[name]; exists {
		if !existing.isDir {
			return pathError("mkdir", name, fmt.Errorf("not a directory"))
		}
		return nil
	}

	// Create parent directories first
	if err := fs.mkdirAllLocked(path.Dir(name), perm); err != nil {
		return err
	}

	fs.files[name] = &mockFile{
		path:    name,
		data:    nil,
		modTime: time.Now(),
		isDir:   true,
		perm:    perm.Perm(),
	}

	return nil
}

func pathError(op, name string, err error) error {
	return &os.PathError{Op: op, Path: name, Err: err}
}
