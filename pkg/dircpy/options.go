package dircpy

import "os"

// Options controls how an existing destination file is treated and which
// source entries are considered at all.
type Options struct {
	// OverwriteAll replaces existing destination files unconditionally.
	OverwriteAll bool
	// OverwriteIfNewer replaces a destination file whose modification time is
	// strictly earlier than the source's.
	OverwriteIfNewer bool
	// OverwriteIfSizeDiffers replaces a destination file whose size differs
	// from the source's.
	OverwriteIfSizeDiffers bool

	// ExcludeFilters skips any entry whose relative path contains one of the
	// patterns. Excluded directories are not descended.
	ExcludeFilters []string
	// IncludeFilters, when non-empty, restricts copied files to those whose
	// relative path contains one of the patterns.
	IncludeFilters []string

	// Pattern is a doublestar glob files must also match. Empty matches all.
	Pattern string
}

// ShouldOverwrite reports whether an existing destination file dst should be
// replaced by src. The enabled policies are combined with OR.
func (o Options) ShouldOverwrite(src, dst os.FileInfo) bool {
	if o.OverwriteAll {
		return true
	}

	if o.OverwriteIfNewer && src.ModTime().After(dst.ModTime()) {
		return true
	}

	return o.OverwriteIfSizeDiffers && src.Size() != dst.Size()
}

// Filter builds the filter chain the options describe.
func (o Options) Filter() FileFilter {
	return NewChainFilter(
		NewSubstringFilter(o.ExcludeFilters, o.IncludeFilters),
		NewGlobFilter(o.Pattern),
	)
}

func (o Options) clone() Options {
	o.ExcludeFilters = append([]string(nil), o.ExcludeFilters...)
	o.IncludeFilters = append([]string(nil), o.IncludeFilters...)

	return o
}
