package parse

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.cronus.dev/pkg/arena"
	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/logutil"
)

func TestStats_FillsEachTokenOnce(t *testing.T) {
	a := arena.New()
	defer a.Free()
	stats := NewStats()
	// a + b NEWLINE ENDMARKER
	_, err := ParseSource(context.Background(), Source{"[test]", "a + b"}, a, Config{Mode: Eval, Stats: stats})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Fills != 5 {
		t.Errorf("got %d fills, want 5", stats.Fills)
	}
	if stats.Hits("sum") == 0 {
		t.Errorf("no memo hits for sum")
	}
	if stats.Total() == 0 {
		t.Errorf("no memo hits")
	}
	stats.Reset()
	if stats.Total() != 0 || stats.Fills != 0 {
		t.Errorf("Reset left counters")
	}
}

func TestStats_Table(t *testing.T) {
	stats := NewStats()
	stats.hit(ruleSum)
	stats.hit(ruleSum)
	stats.hit(ruleAtom)
	table := stats.Table()
	if len(table) != len(RuleNames()) {
		t.Errorf("table has %d entries, %d rules", len(table), len(RuleNames()))
	}
	if table[ruleSum] != 2 {
		t.Errorf("table[sum] = %d", table[ruleSum])
	}
	if diff := cmp.Diff(map[string]int{"sum": 2, "atom": 1}, stats.Named()); diff != "" {
		t.Errorf("Named (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	WriteTable(&buf, stats.Named(), 0)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "sum ") || !strings.HasPrefix(lines[1], "atom ") {
		t.Errorf("unexpected table:\n%s", buf.String())
	}
	buf.Reset()
	WriteTable(&buf, stats.Named(), 5)
	if got := strings.Split(buf.String(), "\n")[0]; got != "sum  " {
		t.Errorf("clipped line is %q", got)
	}
}

func TestRuleNames(t *testing.T) {
	seen := map[string]bool{}
	for id, name := range RuleNames() {
		if name == "" || strings.ContainsAny(name, " ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
			t.Errorf("rule %d has bad name %q", id, name)
		}
		if seen[name] {
			t.Errorf("duplicate rule name %q", name)
		}
		seen[name] = true
	}
	if ruleID(-1).String() != "rule(-1)" {
		t.Errorf("String of invalid rule is %q", ruleID(-1).String())
	}
}

// Long chains of a left-recursive operator are grown one operation at a
// time, in time and depth independent of the length of the chain.
func TestLeftRecursion_LongChain(t *testing.T) {
	const n = 20000
	src := "x" + strings.Repeat(" + x", n)
	a := arena.New()
	defer a.Free()
	res, err := ParseSource(context.Background(), Source{"[test]", src}, a, Config{Mode: Eval})
	if err != nil {
		t.Fatal(err)
	}
	ops := 0
	e := res.(*ast.Expression).Body
	for {
		b, ok := e.(*ast.BinOp)
		if !ok {
			break
		}
		if _, ok := b.Right.(*ast.Name); !ok {
			t.Fatalf("right operand is %T, want left-associative chain", b.Right)
		}
		ops++
		e = b.Left
	}
	if ops != n {
		t.Errorf("got %d operations, want %d", ops, n)
	}
}

func TestLeftRecursion_GrowthCeiling(t *testing.T) {
	a := arena.New()
	defer a.Free()
	_, err := ParseSource(context.Background(), Source{"[test]", "x + x + x + x"}, a,
		Config{Mode: Eval, MaxGrowIterations: 2})
	if Code(err) != Internal || !strings.Contains(err.Error(), "did not converge") {
		t.Errorf("got %v, want non-convergence error", err)
	}
}

func TestDepthLimit(t *testing.T) {
	a := arena.New()
	defer a.Free()
	src := strings.Repeat("(", 30) + "x" + strings.Repeat(")", 30)
	_, err := ParseSource(context.Background(), Source{"[test]", src}, a, Config{Mode: Eval})
	if err != nil {
		t.Fatalf("default limit: %v", err)
	}
	_, err = ParseSource(context.Background(), Source{"[test]", src}, a, Config{Mode: Eval, MaxDepth: 100})
	if Code(err) != NoMemory {
		t.Fatalf("got %v, want out of memory", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Message != "parser stack overflowed: source too complex to parse" {
		t.Errorf("got message %v", err)
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	logutil.SetOutput(&buf)
	defer logutil.SetOutput(io.Discard)
	a := arena.New()
	defer a.Free()
	_, err := ParseSource(context.Background(), Source{"[test]", "x"}, a, Config{Mode: Eval, Trace: true})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"> eval[0-0]?", "+ eval[0-", "succeeded!", "= ", "memo hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace does not contain %q:\n%s", want, out)
		}
	}
}
