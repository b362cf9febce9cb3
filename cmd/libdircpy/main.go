// Command libdircpy builds the C shared library:
//
//	go build -buildmode=c-shared -o libdircpy.so ./cmd/libdircpy
//
// Every function returns 0 on success, -1 when the copy fails, -2 for
// invalid arguments and -3 for an unknown or freed builder.
// Set DIRCPY_LOG=debug to log engine decisions to stderr.
package main

/*
#include <stddef.h>
#include <stdint.h>

typedef struct dircpy_copy_builder_t {
	uintptr_t data;
} dircpy_copy_builder_t;
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/joe/dircpy/internal/capi"
	"github.com/joe/dircpy/pkg/dircpy"
)

//nolint:gochecknoglobals // Builders must outlive individual C calls
var (
	logger   = newLogger()
	registry = capi.NewRegistry(logger)
)

func main() {}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(os.Getenv("DIRCPY_LOG"))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.Nop()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

//export dircpy_copy_dir
func dircpy_copy_dir(source, dest *C.char) C.int {
	if source == nil || dest == nil {
		return C.int(capi.StatusInvalidArgument)
	}

	return C.int(capi.CopyDir(logger, C.GoString(source), C.GoString(dest)))
}

//export dircpy_copy_dir_advanced
func dircpy_copy_dir_advanced(
	source, dest *C.char,
	overwriteAll, overwriteIfNewer, overwriteIfSizeDiffers C.int,
	excludeFilters **C.char, excludeFiltersLength C.size_t,
	includeFilters **C.char, includeFiltersLength C.size_t,
) C.int {
	if source == nil || dest == nil {
		return C.int(capi.StatusInvalidArgument)
	}

	exclude, ok := goStrings(excludeFilters, excludeFiltersLength)
	if !ok {
		return C.int(capi.StatusInvalidArgument)
	}

	include, ok := goStrings(includeFilters, includeFiltersLength)
	if !ok {
		return C.int(capi.StatusInvalidArgument)
	}

	return C.int(capi.CopyDirAdvanced(logger,
		C.GoString(source), C.GoString(dest),
		overwriteAll != 0, overwriteIfNewer != 0, overwriteIfSizeDiffers != 0,
		exclude, include))
}

//export dircpy_copy_builder_new
func dircpy_copy_builder_new(builder *C.dircpy_copy_builder_t, source, dest *C.char) C.int {
	if builder == nil || source == nil || dest == nil {
		return C.int(capi.StatusInvalidArgument)
	}

	src, dst := C.GoString(source), C.GoString(dest)
	if capi.CheckText(src, dst) != nil {
		return C.int(capi.StatusInvalidArgument)
	}

	builder.data = C.uintptr_t(registry.New(src, dst))

	return C.int(capi.StatusOK)
}

//export dircpy_copy_builder_overwrite
func dircpy_copy_builder_overwrite(builder *C.dircpy_copy_builder_t, overwrite C.int) C.int {
	return update(builder, func(b dircpy.Builder) dircpy.Builder {
		return b.Overwrite(overwrite != 0)
	})
}

//export dircpy_copy_builder_overwrite_if_newer
func dircpy_copy_builder_overwrite_if_newer(builder *C.dircpy_copy_builder_t, overwriteOnlyNewer C.int) C.int {
	return update(builder, func(b dircpy.Builder) dircpy.Builder {
		return b.OverwriteIfNewer(overwriteOnlyNewer != 0)
	})
}

//export dircpy_copy_builder_overwrite_if_size_differs
func dircpy_copy_builder_overwrite_if_size_differs(builder *C.dircpy_copy_builder_t, overwriteIfSizeDiffers C.int) C.int {
	return update(builder, func(b dircpy.Builder) dircpy.Builder {
		return b.OverwriteIfSizeDiffers(overwriteIfSizeDiffers != 0)
	})
}

//export dircpy_copy_builder_with_exclude_filter
func dircpy_copy_builder_with_exclude_filter(builder *C.dircpy_copy_builder_t, filter *C.char) C.int {
	pattern, ok := goString(filter)
	if !ok {
		return C.int(capi.StatusInvalidArgument)
	}

	return update(builder, func(b dircpy.Builder) dircpy.Builder {
		return b.WithExcludeFilter(pattern)
	})
}

//export dircpy_copy_builder_with_include_filter
func dircpy_copy_builder_with_include_filter(builder *C.dircpy_copy_builder_t, filter *C.char) C.int {
	pattern, ok := goString(filter)
	if !ok {
		return C.int(capi.StatusInvalidArgument)
	}

	return update(builder, func(b dircpy.Builder) dircpy.Builder {
		return b.WithIncludeFilter(pattern)
	})
}

//export dircpy_copy_builder_run
func dircpy_copy_builder_run(builder *C.dircpy_copy_builder_t) C.int {
	if builder == nil {
		return C.int(capi.StatusInvalidHandle)
	}

	return C.int(registry.Run(capi.Handle(builder.data)))
}

//export dircpy_copy_builder_free
func dircpy_copy_builder_free(builder *C.dircpy_copy_builder_t) {
	if builder == nil {
		return
	}

	registry.Free(capi.Handle(builder.data))
	builder.data = 0
}

func update(builder *C.dircpy_copy_builder_t, fn func(dircpy.Builder) dircpy.Builder) C.int {
	if builder == nil {
		return C.int(capi.StatusInvalidHandle)
	}

	return C.int(registry.Update(capi.Handle(builder.data), fn))
}

func goString(s *C.char) (string, bool) {
	if s == nil {
		return "", false
	}

	value := C.GoString(s)

	return value, capi.CheckText(value) == nil
}

// goStrings copies a C array of n strings.
func goStrings(array **C.char, n C.size_t) ([]string, bool) {
	count := int(n)
	if capi.CheckCount(count) != nil || (array == nil && count > 0) {
		return nil, false
	}

	if count == 0 {
		return nil, true
	}

	values := make([]string, 0, count)
	for _, s := range unsafe.Slice(array, count) {
		value, ok := goString(s)
		if !ok {
			return nil, false
		}

		values = append(values, value)
	}

	return values, true
}
