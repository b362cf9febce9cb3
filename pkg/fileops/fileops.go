// Package fileops provides file operation utilities for copying files between
// filesystems while preserving their metadata.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joe/dircpy/pkg/filesystem"
)

// Exported constants.
const (
	// BufferSize is the size of the buffer used for file copy operations (64KB)
	BufferSize = 64 * 1024
	// DefaultDirPermissions is the default permission mode for created directories
	DefaultDirPermissions = 0o755
)

// CopyStats contains timing information about a copy operation
type CopyStats struct {
	BytesCopied int64
	ReadTime    time.Duration
	WriteTime   time.Duration
}

// FileOps provides file operations with dependency injection for filesystem access.
// Separate source and destination filesystems allow cross-filesystem copies
// (e.g., local to SFTP).
type FileOps struct {
	SourceFS filesystem.FileSystem
	DestFS   filesystem.FileSystem
}

// NewFileOps creates a FileOps that reads and writes through one filesystem.
func NewFileOps(fs filesystem.FileSystem) *FileOps {
	return &FileOps{SourceFS: fs, DestFS: fs}
}

// NewDualFileOps creates a FileOps with separate source and destination filesystems.
func NewDualFileOps(sourceFS, destFS filesystem.FileSystem) *FileOps {
	return &FileOps{SourceFS: sourceFS, DestFS: destFS}
}

// NewRealFileOps creates a new FileOps instance using the real filesystem.
func NewRealFileOps() *FileOps {
	return NewFileOps(filesystem.NewRealFileSystem())
}

// CopyFile copies src to dst, replacing any existing dst content, then
// applies the source's modification time and permission bits to dst.
// The destination's parent directory must already exist. A failed copy leaves
// whatever was written in place.
func (fo *FileOps) CopyFile(src, dst string) (*CopyStats, error) {
	stats := &CopyStats{}

	sourceFile, err := fo.SourceFS.Open(src)
	if err != nil {
		return stats, fmt.Errorf("failed to open source file %s: %w", src, err)
	}

	defer func() {
		_ = sourceFile.Close()
	}()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return stats, fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	destFile, err := fo.DestFS.Create(dst)
	if err != nil {
		return stats, fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	written, err := copyLoop(sourceFile, destFile, stats)
	stats.BytesCopied = written

	if err != nil {
		_ = destFile.Close()
		return stats, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	// Close before setting times; network filesystems update mtime on close
	err = destFile.Close()
	if err != nil {
		return stats, fmt.Errorf("failed to close destination file %s: %w", dst, err)
	}

	err = fo.DestFS.Chmod(dst, sourceInfo.Mode().Perm())
	if err != nil {
		return stats, fmt.Errorf("failed to preserve permissions for %s: %w", dst, err)
	}

	err = fo.DestFS.Chtimes(dst, sourceInfo.ModTime(), sourceInfo.ModTime())
	if err != nil {
		return stats, fmt.Errorf("failed to preserve modification time for %s: %w", dst, err)
	}

	return stats, nil
}

// EnsureDir creates path and any missing parents on the destination filesystem.
func (fo *FileOps) EnsureDir(path string) error {
	err := fo.DestFS.MkdirAll(path, DefaultDirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", path, err)
	}

	return nil
}

// StatDest returns the destination entry at path, or nil when it does not exist.
func (fo *FileOps) StatDest(path string) (os.FileInfo, error) {
	info, err := fo.DestFS.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to stat destination %s: %w", path, err)
	}

	return info, nil
}

// StatSource returns the source entry at path, following symlinks.
func (fo *FileOps) StatSource(path string) (os.FileInfo, error) {
	info, err := fo.SourceFS.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source %s: %w", path, err)
	}

	return info, nil
}

// copyLoop performs the actual file copy with read/write timing.
func copyLoop(sourceFile, destFile filesystem.File, stats *CopyStats) (int64, error) {
	var written int64

	buf := make([]byte, BufferSize)

	for {
		readStart := time.Now()
		nr, err := sourceFile.Read(buf) //nolint:varnamelen // nr is idiomatic for bytes read
		stats.ReadTime += time.Since(readStart)

		if nr > 0 {
			writeStart := time.Now()
			nw, werr := destFile.Write(buf[0:nr]) //nolint:varnamelen // nw is idiomatic for bytes written
			stats.WriteTime += time.Since(writeStart)

			if werr != nil {
				return written, fmt.Errorf("failed to write to destination: %w", werr)
			}

			if nr != nw {
				return written, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}

			written += int64(nw)
		}

		if errors.Is(err, io.EOF) {
			return written, nil
		}

		if err != nil {
			return written, fmt.Errorf("failed to read from source: %w", err)
		}
	}
}
