// Package capi maps the dircpy engine onto the coarse status codes and
// integer handles of its C interface.
//
// Nothing here depends on cgo, so the mapping is testable with plain go test;
// cmd/libdircpy only converts C values and calls in.
package capi

import (
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/joe/dircpy/pkg/dircpy"
)

// Status is the integer result of every C entry point.
type Status int

// Exported constants.
const (
	StatusOK              Status = 0
	StatusFailure         Status = -1
	StatusInvalidArgument Status = -2
	StatusInvalidHandle   Status = -3
)

// Handle identifies a builder held by a Registry. Zero is never issued.
type Handle uint64

// unexported variables.
var (
	errInvalidText   = errors.New("string is not valid UTF-8")
	errNegativeCount = errors.New("negative array length")
)

// StatusOf collapses a copy error into a Status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case dircpy.KindOf(err) == dircpy.KindInvalidArgument:
		return StatusInvalidArgument
	default:
		return StatusFailure
	}
}

// CheckText rejects strings that are not valid UTF-8.
func CheckText(values ...string) error {
	for _, value := range values {
		if !utf8.ValidString(value) {
			return &dircpy.Error{Kind: dircpy.KindInvalidArgument, Op: "decode", Path: value, Err: errInvalidText}
		}
	}

	return nil
}

// CheckCount rejects array lengths a caller could not have meant.
func CheckCount(n int) error {
	if n < 0 {
		return &dircpy.Error{Kind: dircpy.KindInvalidArgument, Op: "decode", Err: errNegativeCount}
	}

	return nil
}

// CopyDir is the direct copy entry point.
func CopyDir(logger zerolog.Logger, source, dest string) Status {
	return run(logger, dircpy.NewBuilder(source, dest))
}

// CopyDirAdvanced is the direct copy entry point with options.
func CopyDirAdvanced(
	logger zerolog.Logger,
	source, dest string,
	overwriteAll, overwriteIfNewer, overwriteIfSizeDiffers bool,
	exclude, include []string,
) Status {
	builder := dircpy.NewBuilder(source, dest).
		Overwrite(overwriteAll).
		OverwriteIfNewer(overwriteIfNewer).
		OverwriteIfSizeDiffers(overwriteIfSizeDiffers)

	for _, pattern := range exclude {
		builder = builder.WithExcludeFilter(pattern)
	}

	for _, pattern := range include {
		builder = builder.WithIncludeFilter(pattern)
	}

	return run(logger, builder)
}

func run(logger zerolog.Logger, builder dircpy.Builder) Status {
	err := builder.WithLogger(logger).Run()
	if err != nil {
		logger.Debug().Err(err).Msg("copy failed")
	}

	return StatusOf(err)
}

// Registry holds builders on behalf of callers that can only keep an integer.
type Registry struct {
	mu       sync.Mutex
	next     Handle
	builders map[Handle]dircpy.Builder
	logger   zerolog.Logger
}

// NewRegistry creates an empty registry whose jobs log to logger.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		builders: make(map[Handle]dircpy.Builder),
		logger:   logger,
	}
}

// New stores a builder for source and dest and returns its handle.
func (r *Registry) New(source, dest string) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.builders[r.next] = dircpy.NewBuilder(source, dest).WithLogger(r.logger)

	return r.next
}

// Update replaces the builder behind h with fn's result.
func (r *Registry) Update(h Handle, fn func(dircpy.Builder) dircpy.Builder) Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	builder, ok := r.builders[h]
	if !ok {
		return StatusInvalidHandle
	}

	r.builders[h] = fn(builder)

	return StatusOK
}

// Run executes the builder behind h. The builder stays registered and may be
// run again.
func (r *Registry) Run(h Handle) Status {
	r.mu.Lock()
	builder, ok := r.builders[h]
	r.mu.Unlock()

	if !ok {
		return StatusInvalidHandle
	}

	err := builder.Run()
	if err != nil {
		r.logger.Debug().Err(err).Uint64("handle", uint64(h)).Msg("copy failed")
	}

	return StatusOf(err)
}

// Free releases the builder behind h. Unknown handles are ignored.
func (r *Registry) Free(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.builders, h)
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.builders)
}
