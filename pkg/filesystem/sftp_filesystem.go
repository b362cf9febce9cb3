package filesystem

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/pkg/sftp"
)

// SFTPFileSystem implements FileSystem over a single SFTP session.
type SFTPFileSystem struct {
	client *sftp.Client
}

// NewSFTPFileSystem creates a new SFTP filesystem using an established connection.
func NewSFTPFileSystem(conn *SFTPConnection) *SFTPFileSystem {
	return &SFTPFileSystem{client: conn.Client()}
}

// Chmod changes the permission bits of a remote file.
func (fs *SFTPFileSystem) Chmod(path string, mode os.FileMode) error {
	err := fs.client.Chmod(path, mode)
	if err != nil {
		return fmt.Errorf("failed to change mode for remote file %s: %w", path, err)
	}

	return nil
}

// Chtimes changes the access and modification times of a remote file.
func (fs *SFTPFileSystem) Chtimes(path string, atime, mtime time.Time) error {
	err := fs.client.Chtimes(path, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for remote file %s: %w", path, err)
	}

	return nil
}

// Create creates a remote file for writing.
func (fs *SFTPFileSystem) Create(path string) (File, error) {
	file, err := fs.client.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote file %s: %w", path, err)
	}

	return file, nil
}

// Join joins remote path elements with a forward slash.
func (fs *SFTPFileSystem) Join(elem ...string) string {
	return fs.client.Join(elem...)
}

// Lstat returns file information for a remote path without following a final symlink.
func (fs *SFTPFileSystem) Lstat(path string) (os.FileInfo, error) {
	info, err := fs.client.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat remote file %s: %w", path, err)
	}

	return info, nil
}

// MkdirAll creates a remote directory and all necessary parents.
// The permission is left to the server's defaults.
func (fs *SFTPFileSystem) MkdirAll(path string, _ os.FileMode) error {
	err := fs.client.MkdirAll(path)
	if err != nil {
		return fmt.Errorf("failed to create remote directory %s: %w", path, err)
	}

	return nil
}

// Open opens a remote file for reading.
func (fs *SFTPFileSystem) Open(path string) (File, error) {
	file, err := fs.client.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", path, err)
	}

	return file, nil
}

// ReadDir lists a remote directory, sorted by name.
func (fs *SFTPFileSystem) ReadDir(path string) ([]os.FileInfo, error) {
	infos, err := fs.client.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote directory %s: %w", path, err)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	return infos, nil
}

// Stat returns file information for a remote file.
func (fs *SFTPFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := fs.client.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", path, err)
	}

	return info, nil
}
