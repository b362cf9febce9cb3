package filesystem

import (
	"fmt"
)

// CreateFileSystem creates a FileSystem for the given path.
// Returns (filesystem, basePath, closer, error).
// - filesystem: The FileSystem to use for operations
// - basePath: The actual path to use with the filesystem (stripped of URL prefix)
// - closer: A function to call when done (closes SFTP connections); never nil
func CreateFileSystem(pathStr string) (FileSystem, string, func(), error) {
	parsed, err := ParsePath(pathStr)
	if err != nil {
		return nil, "", nil, err
	}

	if !parsed.IsRemote {
		return NewRealFileSystem(), parsed.LocalPath, func() {}, nil
	}

	conn, err := Connect(parsed.Host, parsed.Port, parsed.User)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to connect to %s@%s:%d: %w",
			parsed.User, parsed.Host, parsed.Port, err)
	}

	closer := func() {
		_ = conn.Close()
	}

	return NewSFTPFileSystem(conn), parsed.Path, closer, nil
}

// CreateFileSystemPair creates filesystems for source and destination paths.
// Returns (sourceFS, destFS, sourcePath, destPath, closer, error).
// The closer function should be called when done to clean up any connections.
func CreateFileSystemPair(sourcePath, destPath string) (
	sourceFS FileSystem,
	destFS FileSystem,
	srcPath string,
	dstPath string,
	closer func(),
	err error,
) {
	var srcCloser, dstCloser func()

	sourceFS, srcPath, srcCloser, err = CreateFileSystem(sourcePath)
	if err != nil {
		return nil, nil, "", "", nil, fmt.Errorf("failed to create source filesystem: %w", err)
	}

	destFS, dstPath, dstCloser, err = CreateFileSystem(destPath)
	if err != nil {
		srcCloser()
		return nil, nil, "", "", nil, fmt.Errorf("failed to create destination filesystem: %w", err)
	}

	closer = func() {
		srcCloser()
		dstCloser()
	}

	return sourceFS, destFS, srcPath, dstPath, closer, nil
}
