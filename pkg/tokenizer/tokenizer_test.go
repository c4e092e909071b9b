package tokenizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.cronus.dev/pkg/token"
	. "src.cronus.dev/pkg/tt"
)

// Tokenizes src and returns a compact description of the tokens: the type of
// each token, followed by its text for tokens with text.
func types(src string) ([]string, error) {
	toks, err := New(context.Background(), "[test]", src).All()
	var descs []string
	for _, tok := range toks {
		d := tok.Type.String()
		if tok.Type == token.NAME || tok.Type == token.NUMBER || tok.Type == token.STRING {
			d += " " + tok.Text
		}
		descs = append(descs, d)
	}
	return descs, err
}

var tokenizeTests = []struct {
	name string
	src  string
	want string
}{
	{"empty", "", "ENDMARKER"},
	{"blank lines only", "\n\n  \n# comment\n", "ENDMARKER"},
	{"simple", "a = 1\n", "NAME a|'='|NUMBER 1|NEWLINE|ENDMARKER"},
	{"implicit newline", "a", "NAME a|NEWLINE|ENDMARKER"},
	{"operators", "a **= b // c -> d := e ... !=",
		"NAME a|'**='|NAME b|'//'|NAME c|'->'|NAME d|':='|NAME e|'...'|'!='|NEWLINE|ENDMARKER"},
	{"less-greater is not-equal", "a <> b", "NAME a|'!='|NAME b|NEWLINE|ENDMARKER"},
	{"numbers", "0x_ff 1_000 1.5e-3 .5 0o17",
		"NUMBER 0x_ff|NUMBER 1_000|NUMBER 1.5e-3|NUMBER .5|NUMBER 0o17|NEWLINE|ENDMARKER"},
	{"strings", `'a' "b" r'\d' b"x" f'{y}' '''t
u'''`,
		"STRING 'a'|STRING \"b\"|STRING r'\\d'|STRING b\"x\"|STRING f'{y}'|STRING '''t\nu'''|NEWLINE|ENDMARKER"},
	{"prefix-like name", "rb + fx", "NAME rb|'+'|NAME fx|NEWLINE|ENDMARKER"},
	{"unicode name", "héllo = 1", "NAME héllo|'='|NUMBER 1|NEWLINE|ENDMARKER"},
	{"comment", "a # comment\nb", "NAME a|NEWLINE|NAME b|NEWLINE|ENDMARKER"},
	{"newlines in brackets", "(a,\n b)\n", "'('|NAME a|','|NAME b|')'|NEWLINE|ENDMARKER"},
	{"line continuation", "a + \\\n b\n", "NAME a|'+'|NAME b|NEWLINE|ENDMARKER"},
	{"indent and dedent", "if x:\n  a\n  b\nc\n",
		"NAME if|NAME x|':'|NEWLINE|INDENT|NAME a|NEWLINE|NAME b|NEWLINE|DEDENT|NAME c|NEWLINE|ENDMARKER"},
	{"dedents at EOF", "if x:\n  if y:\n    a",
		"NAME if|NAME x|':'|NEWLINE|INDENT|NAME if|NAME y|':'|NEWLINE|INDENT|NAME a|NEWLINE|DEDENT|DEDENT|ENDMARKER"},
	{"multiple dedents", "a:\n b:\n  c\nd",
		"NAME a|':'|NEWLINE|INDENT|NAME b|':'|NEWLINE|INDENT|NAME c|NEWLINE|DEDENT|DEDENT|NAME d|NEWLINE|ENDMARKER"},
	{"blank lines inside block", "a:\n  b\n\n  # c\n  d\n",
		"NAME a|':'|NEWLINE|INDENT|NAME b|NEWLINE|NAME d|NEWLINE|DEDENT|ENDMARKER"},
	{"crlf", "a\r\nb\r\n", "NAME a|NEWLINE|NAME b|NEWLINE|ENDMARKER"},
}

func TestTokenize(t *testing.T) {
	for _, test := range tokenizeTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := types(test.src)
			if err != nil {
				t.Fatalf("got error %v", err)
			}
			want := strings.Split(test.want, "|")
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("tokens (-want +got):\n%s", diff)
			}
		})
	}
}

func errorKind(src string) Kind {
	_, err := New(context.Background(), "[test]", src).All()
	var e *Error
	if !errors.As(err, &e) {
		return -1
	}
	return e.Kind
}

func TestTokenize_Errors(t *testing.T) {
	Test(t, Fn("errorKind", errorKind), Table{
		Args("a = 'abc\n").Rets(KindUnterminatedString),
		Args("a = 'abc").Rets(KindUnterminatedString),
		Args("a = '''abc\n").Rets(KindUnterminatedTripleString),
		Args("a = $").Rets(KindBadToken),
		Args("a = 1abc").Rets(KindBadToken),
		Args("(a]").Rets(KindBadToken),
		Args("a)").Rets(KindBadToken),
		Args("a \\ b").Rets(KindLineContinuation),
		Args("a \\").Rets(KindEOF),
		Args("(a,\n").Rets(KindEOF),
		Args("if x:\n    a\n  b\n").Rets(KindBadDedent),
		Args("if x:\n        a\n\tb\n").Rets(KindTabSpace),
		Args("if x:\n\ta\n        b\n").Rets(KindTabSpace),
		Args(deepNesting(MaxIndent)).Rets(KindTooDeep),
		Args(deepNesting(MaxIndent - 2)).Rets(Kind(-1)),
	})
}

func deepNesting(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(strings.Repeat(" ", i))
		sb.WriteString("if x:\n")
	}
	sb.WriteString(strings.Repeat(" ", n))
	sb.WriteString("pass\n")
	return sb.String()
}

func TestTokenize_Positions(t *testing.T) {
	toks, err := New(context.Background(), "[test]", "ab = 'x\\\ny'\n  \ncd").All()
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, tok := range toks {
		got = append(got, tok.Start.String()+"-"+tok.End.String())
	}
	want := []string{
		"1:0-1:2", // ab
		"1:3-1:4", // =
		"1:5-2:2", // 'x\ny'
		"2:2-2:3", // NEWLINE
		"4:0-4:2", // cd
		"4:2-4:2", // implicit NEWLINE
		"4:2-4:2", // ENDMARKER
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
	if !toks[len(toks)-2].Implicit {
		t.Errorf("NEWLINE at EOF is not implicit")
	}
}

func TestTokenize_ErrorIsSticky(t *testing.T) {
	tz := New(context.Background(), "[test]", "a $ b")
	tz.Next()
	_, err1 := tz.Next()
	_, err2 := tz.Next()
	if err1 == nil || err1 != err2 {
		t.Errorf("got errors %v and %v, want the same non-nil error", err1, err2)
	}
}

func TestTokenize_EndmarkerRepeats(t *testing.T) {
	tz := New(context.Background(), "[test]", "")
	for i := 0; i < 3; i++ {
		tok, err := tz.Next()
		if err != nil || tok.Type != token.ENDMARKER {
			t.Errorf("call %d: got %v, %v; want ENDMARKER", i, tok, err)
		}
	}
}

func TestTokenize_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(ctx, "[test]", "a\n").Next()
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindInterrupted {
		t.Errorf("got error %v, want KindInterrupted", err)
	}
}
