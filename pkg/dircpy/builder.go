package dircpy

import (
	"github.com/rs/zerolog"

	"github.com/joe/dircpy/pkg/filesystem"
)

// Builder configures a Job step by step.
//
// Every setter returns an updated copy and leaves the receiver as it was, so a
// partially configured Builder can be reused as a template.
type Builder struct {
	job Job
}

// NewBuilder starts a copy of source into dest with no overwriting and no filters.
func NewBuilder(source, dest string) Builder {
	return Builder{job: Job{
		Source: source,
		Dest:   dest,
		Logger: zerolog.Nop(),
	}}
}

// Overwrite sets whether existing destination files are always replaced.
func (b Builder) Overwrite(enabled bool) Builder {
	b.job.Options.OverwriteAll = enabled

	return b
}

// OverwriteIfNewer sets whether a destination file older than its source is replaced.
func (b Builder) OverwriteIfNewer(enabled bool) Builder {
	b.job.Options.OverwriteIfNewer = enabled

	return b
}

// OverwriteIfSizeDiffers sets whether a destination file with a different size is replaced.
func (b Builder) OverwriteIfSizeDiffers(enabled bool) Builder {
	b.job.Options.OverwriteIfSizeDiffers = enabled

	return b
}

// WithExcludeFilter adds an exclude pattern.
func (b Builder) WithExcludeFilter(pattern string) Builder {
	b.job.Options = b.job.Options.clone()
	b.job.Options.ExcludeFilters = append(b.job.Options.ExcludeFilters, pattern)

	return b
}

// WithIncludeFilter adds an include pattern.
func (b Builder) WithIncludeFilter(pattern string) Builder {
	b.job.Options = b.job.Options.clone()
	b.job.Options.IncludeFilters = append(b.job.Options.IncludeFilters, pattern)

	return b
}

// WithPattern restricts copied files to those matching a doublestar glob.
func (b Builder) WithPattern(pattern string) Builder {
	b.job.Options.Pattern = pattern

	return b
}

// WithFileSystems sets the filesystems the source and destination paths refer to.
func (b Builder) WithFileSystems(source, dest filesystem.FileSystem) Builder {
	b.job.SourceFS = source
	b.job.DestFS = dest

	return b
}

// WithLogger sets the logger decisions are reported to.
func (b Builder) WithLogger(logger zerolog.Logger) Builder {
	b.job.Logger = logger

	return b
}

// Job returns the configured job. The returned value shares nothing with b.
func (b Builder) Job() Job {
	job := b.job
	job.Options = job.Options.clone()

	return job
}

// Run executes the configured copy.
func (b Builder) Run() error {
	return b.job.Run()
}

// Execute executes the configured copy and returns its statistics.
func (b Builder) Execute() (Stats, error) {
	return b.job.Execute()
}
