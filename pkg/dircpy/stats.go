package dircpy

import "fmt"

// Stats summarizes a completed or aborted run.
type Stats struct {
	DirsCreated     int
	FilesCopied     int
	FilesSkipped    int
	EntriesFiltered int
	BytesCopied     int64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d dirs, %d files copied (%d bytes), %d skipped, %d filtered",
		s.DirsCreated, s.FilesCopied, s.BytesCopied, s.FilesSkipped, s.EntriesFiltered)
}
