package diag

import (
	"strings"
	"testing"
)

var contextTests = []struct {
	name    string
	context *Context
	indent  string

	wantShow        string
	wantShowCompact string
}{
	{
		name:    "single-line culprit",
		context: contextInParen("[test]", "print (bad)"),
		indent:  "_",

		wantShow:        "[test]:1:7:\n_print <(bad)>",
		wantShowCompact: "[test]:1:7: print <(bad)>",
	},
	{
		name:    "multi-line culprit",
		context: contextInParen("[test]", "print (bad\nbad)\nmore"),
		indent:  "_",

		wantShow: "[test]:1:7:\n_print <(bad>\n_<bad)>",
		wantShowCompact: "[test]:1:7: print <(bad>\n_" +
			strings.Repeat(" ", len("[test]:1:7: ")) + "<bad)>",
	},
	{
		name: "culprit on a later line",
		//                             01 234567
		context: NewContext("[test]", "a\nb = )", Ranging{6, 7}),

		wantShow:        "[test]:2:5:\nb = <)>",
		wantShowCompact: "[test]:2:5: b = <)>",
	},
	{
		name:    "trailing newline in culprit is removed",
		context: NewContext("[test]", "x\n", Ranging{0, 2}),

		wantShow:        "[test]:1:1:\n<x>",
		wantShowCompact: "[test]:1:1: <x>",
	},
	{
		name:    "empty culprit",
		context: NewContext("[test]", "print x", Ranging{6, 6}),

		wantShow:        "[test]:1:7:\nprint <^>x",
		wantShowCompact: "[test]:1:7: print <^>x",
	},
	{
		name:            "unknown culprit range",
		context:         NewContext("[test]", "print", Ranging{-1, -1}),
		wantShow:        "[test], unknown position",
		wantShowCompact: "[test], unknown position",
	},
	{
		name:            "invalid culprit range",
		context:         NewContext("[test]", "print", Ranging{2, 1}),
		wantShow:        "[test], invalid position 2-1",
		wantShowCompact: "[test], invalid position 2-1",
	},
}

func TestContext(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	for _, test := range contextTests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.context.Show(test.indent); got != test.wantShow {
				t.Errorf("Show() -> %q, want %q", got, test.wantShow)
			}
			if got := test.context.ShowCompact(test.indent); got != test.wantShowCompact {
				t.Errorf("ShowCompact() -> %q, want %q", got, test.wantShowCompact)
			}
		})
	}
}

func TestContext_Position(t *testing.T) {
	c := NewContext("[test]", "ab\ncd", Ranging{4, 5})
	if line, col := c.Position(); line != 2 || col != 2 {
		t.Errorf("Position() -> %d, %d, want 2, 2", line, col)
	}
	c = NewContext("[test]", "ab", Ranging{-1, -1})
	if line, col := c.Position(); line != 0 || col != 0 {
		t.Errorf("Position() -> %d, %d, want 0, 0", line, col)
	}
}

func TestEmbeddingRangingImplementsRanger(t *testing.T) {
	type aRanger struct{ Ranging }
	r := Ranging{1, 10}
	if got := Ranger(aRanger{r}).Range(); got != r {
		t.Errorf("Range() = %v, want %v", got, r)
	}
}

// Returns a Context with the given name and source, and a range for the part
// between ( and ).
func contextInParen(name, src string) *Context {
	return NewContext(name, src,
		Ranging{strings.Index(src, "("), strings.Index(src, ")") + 1})
}
