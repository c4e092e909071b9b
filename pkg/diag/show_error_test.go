package diag

import (
	"errors"
	"strings"
	"testing"
)

type showerError struct{}

func (showerError) Error() string { return "error" }

func (showerError) Show(_ string) string { return "show" }

var showErrorTests = []struct {
	name    string
	err     error
	wantBuf string
}{
	{"A Shower error", showerError{}, "show\n"},
	{"A errors.New error", errors.New("ERROR"), "\033[31;1mERROR\033[m\n"},
}

func TestShowError(t *testing.T) {
	for _, test := range showErrorTests {
		t.Run(test.name, func(t *testing.T) {
			sb := &strings.Builder{}
			ShowError(sb, test.err)
			if sb.String() != test.wantBuf {
				t.Errorf("Wrote %q, want %q", sb.String(), test.wantBuf)
			}
		})
	}
}

func TestShowError_ParseError(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	setMessageMarkers(t, "{", "}")
	err := &Error{
		Type:    "SyntaxError",
		Message: "invalid syntax",
		Context: *NewContext("[test]", "x = = 1", Ranging{4, 5}),
	}
	sb := &strings.Builder{}
	ShowError(sb, err)
	if want := "SyntaxError: {invalid syntax}\n  [test]:1:5: x = <=> 1\n"; sb.String() != want {
		t.Errorf("Wrote %q, want %q", sb.String(), want)
	}
}
