// Package errors turns copy failures into messages a user can act on.
//
// Failures from pkg/dircpy are classified by their Kind. Anything else, and
// I/O failures whose cause the kind does not pin down, are classified from
// the wrapped error chain and then from the message text.
//
//	failure := errors.NewEnricher().Enrich(err)
//	fmt.Println(failure.Error())
//	fmt.Println(failure.FormatSuggestions())
package errors

import "strings"

// Exported constants.
const (
	CategoryArgument   ErrorCategory = "argument"
	CategoryConflict   ErrorCategory = "conflict"
	CategoryConnection ErrorCategory = "connection"
	CategoryCopy       ErrorCategory = "copy"
	CategoryDiskSpace  ErrorCategory = "disk_space"
	CategoryPath       ErrorCategory = "path"
	CategoryPermission ErrorCategory = "permission"
	CategoryUnknown    ErrorCategory = "unknown"
)

// ErrorCategory names the kind of remedy a failure needs.
type ErrorCategory string

// Actionable is a failure together with what the user can do about it.
// It wraps the original error, so errors.Is and errors.As still see it.
type Actionable struct {
	Err         error
	Category    ErrorCategory
	Path        string
	Suggestions []string
}

func (a *Actionable) Error() string {
	return a.Err.Error()
}

func (a *Actionable) Unwrap() error {
	return a.Err
}

// FormatSuggestions renders the suggestions as an indented bullet list, or
// the empty string when there are none.
func (a *Actionable) FormatSuggestions() string {
	if a == nil || len(a.Suggestions) == 0 {
		return ""
	}

	lines := make([]string, 0, len(a.Suggestions))
	for _, suggestion := range a.Suggestions {
		lines = append(lines, "  • "+suggestion)
	}

	return strings.Join(lines, "\n")
}
