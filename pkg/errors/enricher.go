package errors

import (
	"errors"
	"io/fs"

	"github.com/joe/dircpy/pkg/dircpy"
	"github.com/joe/dircpy/pkg/filesystem"
)

// Enricher classifies failures and attaches suggestions to them.
type Enricher struct {
	matcher   PatternMatcher
	generator SuggestionGenerator
}

// NewEnricher creates an Enricher with the default matcher and suggestions.
func NewEnricher() *Enricher {
	return &Enricher{
		matcher:   NewPatternMatcher(),
		generator: NewSuggestionGenerator(),
	}
}

// Enrich classifies err. An err that is already *Actionable is returned
// unchanged; nil yields nil.
func (e *Enricher) Enrich(err error) *Actionable {
	if err == nil {
		return nil
	}

	var actionable *Actionable
	if errors.As(err, &actionable) {
		return actionable
	}

	category := e.classify(err)
	path := affectedPath(err)

	return &Actionable{
		Err:         err,
		Category:    category,
		Path:        path,
		Suggestions: e.generator.Generate(category, path),
	}
}

func (e *Enricher) classify(err error) ErrorCategory {
	switch dircpy.KindOf(err) {
	case dircpy.KindInvalidArgument:
		return CategoryArgument
	case dircpy.KindNotFound:
		return CategoryPath
	}

	switch {
	case errors.Is(err, filesystem.ErrNoAuthMethods):
		return CategoryConnection
	case errors.Is(err, fs.ErrPermission):
		return CategoryPermission
	case errors.Is(err, fs.ErrExist):
		return CategoryConflict
	case errors.Is(err, fs.ErrNotExist):
		return CategoryPath
	}

	return e.matcher.Match(err.Error())
}

// affectedPath prefers the path the copy engine was working on, then the
// innermost path the filesystem reported.
func affectedPath(err error) string {
	var copyErr *dircpy.Error
	if errors.As(err, &copyErr) && copyErr.Path != "" {
		return copyErr.Path
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}

	return ""
}
