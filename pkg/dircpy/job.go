// Package dircpy copies a directory tree into another directory, with
// overwrite policies for existing files and substring filters over the
// relative paths of the entries.
package dircpy

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/joe/dircpy/pkg/fileops"
	"github.com/joe/dircpy/pkg/filesystem"
)

// unexported variables.
var (
	errNotDirectory  = errors.New("not a directory")
	errDestIsDir     = errors.New("destination is a directory")
	errDestIsSource  = errors.New("destination is the source directory")
	errInvalidString = errors.New("not valid UTF-8")
)

// Job is a configured copy of Source into Dest.
//
// SourceFS and DestFS default to the local filesystem. A zero Logger
// discards everything. Run may be called any number of times; each call
// walks the source tree again.
type Job struct {
	Source  string
	Dest    string
	Options Options

	SourceFS filesystem.FileSystem
	DestFS   filesystem.FileSystem

	Logger zerolog.Logger
}

// Run copies the tree and reports only whether it succeeded.
func (j Job) Run() error {
	_, err := j.Execute()
	return err
}

// Execute copies the tree. The returned Stats cover the work done before
// any failure; nothing is rolled back.
func (j Job) Execute() (Stats, error) {
	var stats Stats

	err := j.validate()
	if err != nil {
		return stats, err
	}

	run := &runner{
		job:    j,
		ops:    fileops.NewDualFileOps(j.sourceFS(), j.destFS()),
		filter: j.Options.Filter(),
		log:    j.Logger.With().Str("source", j.Source).Str("dest", j.Dest).Logger(),
		stats:  &stats,
	}

	err = run.walk()
	if err != nil {
		run.log.Error().Err(err).Stringer("stats", stats).Msg("copy failed")
		return stats, err
	}

	run.log.Info().
		Int("dirs", stats.DirsCreated).
		Int("copied", stats.FilesCopied).
		Int("skipped", stats.FilesSkipped).
		Int("filtered", stats.EntriesFiltered).
		Int64("bytes", stats.BytesCopied).
		Msg("copy complete")

	return stats, nil
}

func (j Job) sourceFS() filesystem.FileSystem {
	if j.SourceFS == nil {
		return filesystem.NewRealFileSystem()
	}

	return j.SourceFS
}

func (j Job) destFS() filesystem.FileSystem {
	if j.DestFS == nil {
		return filesystem.NewRealFileSystem()
	}

	return j.DestFS
}

// validate rejects paths and patterns that are not valid UTF-8.
func (j Job) validate() error {
	for _, p := range []string{j.Source, j.Dest} {
		if !utf8.ValidString(p) {
			return invalidArgument("validate path", p, errInvalidString)
		}
	}

	patterns := append(append([]string{j.Options.Pattern}, j.Options.ExcludeFilters...), j.Options.IncludeFilters...)
	for _, pattern := range patterns {
		if !utf8.ValidString(pattern) {
			return invalidArgument("validate pattern", pattern, errInvalidString)
		}
	}

	return nil
}

// runner holds the state of one Execute call.
type runner struct {
	job    Job
	ops    *fileops.FileOps
	filter FileFilter
	log    zerolog.Logger
	stats  *Stats

	// destInSource is the walker path of the destination root when it lies
	// inside the source tree, or empty.
	destInSource string
}

func (r *runner) walk() error {
	err := r.checkSource()
	if err != nil {
		return err
	}

	r.destInSource, err = r.nestedDest()
	if err != nil {
		return err
	}

	err = r.mkdir(r.job.Dest)
	if err != nil {
		return err
	}

	walker := filesystem.Walk(r.ops.SourceFS, r.job.Source)
	for walker.Step() {
		rel := walker.Path()
		srcPath := filesystem.Resolve(r.ops.SourceFS, r.job.Source, rel)

		if err := walker.Err(); err != nil {
			return ioFailure("read", srcPath, err)
		}

		if rel == filesystem.RootPath {
			continue
		}

		info := walker.Stat()

		if info.IsDir() && rel == r.destInSource {
			r.log.Debug().Str("path", rel).Msg("destination inside source, not descending")
			walker.SkipDir()

			continue
		}

		if !r.filter.ShouldInclude(rel, info.IsDir()) {
			r.log.Debug().Str("path", rel).Bool("dir", info.IsDir()).Msg("filtered")
			r.stats.EntriesFiltered++

			if info.IsDir() {
				walker.SkipDir()
			}

			continue
		}

		err := r.visit(rel, srcPath, info)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *runner) visit(rel, srcPath string, info os.FileInfo) error {
	dstPath := filesystem.Resolve(r.ops.DestFS, r.job.Dest, rel)

	switch {
	case info.IsDir():
		return r.mkdir(dstPath)
	case info.Mode().IsRegular():
		return r.copyFile(rel, srcPath, dstPath, info)
	case info.Mode()&os.ModeSymlink != 0:
		target, err := r.ops.StatSource(srcPath)
		if err != nil || !target.Mode().IsRegular() {
			r.log.Debug().Str("path", rel).Msg("skipped symlink not pointing at a regular file")
			return nil
		}

		return r.copyFile(rel, srcPath, dstPath, target)
	default:
		r.log.Debug().Str("path", rel).Stringer("mode", info.Mode()).Msg("skipped special file")
		return nil
	}
}

func (r *runner) mkdir(dstPath string) error {
	existing, err := r.ops.StatDest(dstPath)
	if err != nil {
		return ioFailure("stat", dstPath, err)
	}

	if existing != nil && existing.IsDir() {
		return nil
	}

	err = r.ops.EnsureDir(dstPath)
	if err != nil {
		return ioFailure("mkdir", dstPath, err)
	}

	r.log.Debug().Str("path", dstPath).Msg("mkdir")
	r.stats.DirsCreated++

	return nil
}

func (r *runner) copyFile(rel, srcPath, dstPath string, src os.FileInfo) error {
	existing, err := r.ops.StatDest(dstPath)
	if err != nil {
		return ioFailure("stat", dstPath, err)
	}

	if existing != nil {
		if existing.IsDir() {
			return ioFailure("copy", dstPath, errDestIsDir)
		}

		if !r.job.Options.ShouldOverwrite(src, existing) {
			r.log.Debug().Str("path", rel).Msg("skipped, destination exists")
			r.stats.FilesSkipped++

			return nil
		}
	}

	copyStats, err := r.ops.CopyFile(srcPath, dstPath)
	r.stats.BytesCopied += copyStats.BytesCopied

	if err != nil {
		return ioFailure("copy", srcPath, err)
	}

	r.log.Debug().
		Str("path", rel).
		Int64("bytes", copyStats.BytesCopied).
		Dur("read", copyStats.ReadTime).
		Dur("write", copyStats.WriteTime).
		Msg("copied")
	r.stats.FilesCopied++

	return nil
}

// checkSource requires the source root to be an existing directory.
// Nothing is created under the destination when it is not.
func (r *runner) checkSource() error {
	info, err := r.ops.SourceFS.Stat(r.job.Source)
	if err != nil {
		kind := KindIOFailure
		if errors.Is(err, os.ErrNotExist) {
			kind = KindNotFound
		}

		return &Error{Kind: kind, Op: "stat", Path: r.job.Source, Err: pathCause(err)}
	}

	if !info.IsDir() {
		return ioFailure("stat", r.job.Source, errNotDirectory)
	}

	return nil
}

// pathCause drops the operation and path a filesystem error repeats from
// the *Error that wraps it.
func pathCause(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}

	return err
}

// nestedDest returns the walker path of the destination root when both
// roots live on the same filesystem and the destination is below the source.
func (r *runner) nestedDest() (string, error) {
	rel, ok := r.relativeDest()
	if !ok {
		return "", nil
	}

	if rel == filesystem.RootPath {
		return "", invalidArgument("validate path", r.job.Dest, errDestIsSource)
	}

	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", nil
	}

	return rel, nil
}

func (r *runner) relativeDest() (string, bool) {
	_, srcLocal := r.ops.SourceFS.(*filesystem.RealFileSystem)
	_, dstLocal := r.ops.DestFS.(*filesystem.RealFileSystem)

	if srcLocal && dstLocal {
		src, err := filepath.Abs(r.job.Source)
		if err != nil {
			return "", false
		}

		dst, err := filepath.Abs(r.job.Dest)
		if err != nil {
			return "", false
		}

		rel, err := filepath.Rel(src, dst)
		if err != nil {
			return "", false
		}

		return filepath.ToSlash(rel), true
	}

	// Other implementations must be the same instance to share a namespace.
	if srcLocal || dstLocal || r.ops.SourceFS != r.ops.DestFS {
		return "", false
	}

	src := path.Clean(r.job.Source)
	dst := path.Clean(r.job.Dest)

	switch {
	case src == dst:
		return filesystem.RootPath, true
	case src == "/" && strings.HasPrefix(dst, "/"):
		return dst[1:], true
	case strings.HasPrefix(dst, src+"/"):
		return dst[len(src)+1:], true
	default:
		return "", false
	}
}
