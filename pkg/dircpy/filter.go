package dircpy

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter decides whether a source entry takes part in the copy.
type FileFilter interface {
	// ShouldInclude returns true if the entry at the slash-separated path,
	// relative to the source root, should be copied.
	ShouldInclude(relativePath string, isDir bool) bool
}

// SubstringFilter matches raw substrings of the relative path.
// Exclusion wins over inclusion, and include patterns only restrict files.
type SubstringFilter struct {
	Exclude []string
	Include []string
}

// NewSubstringFilter creates a SubstringFilter over copies of the pattern lists.
func NewSubstringFilter(exclude, include []string) *SubstringFilter {
	return &SubstringFilter{
		Exclude: append([]string(nil), exclude...),
		Include: append([]string(nil), include...),
	}
}

// ShouldInclude implements FileFilter.
func (f *SubstringFilter) ShouldInclude(relativePath string, isDir bool) bool {
	if containsAny(relativePath, f.Exclude) {
		return false
	}

	if isDir || len(f.Include) == 0 {
		return true
	}

	return containsAny(relativePath, f.Include)
}

func containsAny(s string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(s, pattern) {
			return true
		}
	}

	return false
}

// GlobFilter implements FileFilter using glob patterns
type GlobFilter struct {
	normalizedPattern string
	isEmpty           bool
}

// NewGlobFilter creates a new GlobFilter with the given pattern
// Empty pattern matches all files
func NewGlobFilter(pattern string) *GlobFilter {
	return &GlobFilter{
		normalizedPattern: strings.ToLower(pattern),
		isEmpty:           pattern == "",
	}
}

// ShouldInclude returns true if the file matches the glob pattern,
// case-insensitively. Directories always pass so matching files below them
// can still be reached.
func (f *GlobFilter) ShouldInclude(relativePath string, isDir bool) bool {
	if f.isEmpty || isDir {
		return true
	}

	matched, err := doublestar.Match(f.normalizedPattern, strings.ToLower(relativePath))
	if err != nil {
		// If pattern is invalid, don't match
		return false
	}

	return matched
}

// ChainFilter includes an entry only when every filter does.
type ChainFilter []FileFilter

// NewChainFilter combines filters with AND.
func NewChainFilter(filters ...FileFilter) ChainFilter {
	return ChainFilter(filters)
}

// ShouldInclude implements FileFilter.
func (c ChainFilter) ShouldInclude(relativePath string, isDir bool) bool {
	for _, filter := range c {
		if !filter.ShouldInclude(relativePath, isDir) {
			return false
		}
	}

	return true
}
