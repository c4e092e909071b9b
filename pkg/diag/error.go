package diag

import (
	"fmt"
	"strings"
)

// Error represents an error with context that can be shown.
type Error struct {
	Type    string
	Message string
	Context Context
	// Indicates whether the error may be caused by partial input. More
	// input can possibly fix such errors.
	Partial bool
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return e.Type + ": " + e.Context.Describe() + ": " + e.Message
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Show shows the error.
func (e *Error) Show(indent string) string {
	return fmt.Sprintf("%s: %s%s%s\n%s%s",
		title(e.Type), messageStart, e.Message, messageEnd,
		indent+"  ", e.Context.ShowCompact(indent+"  "))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
