// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.cronus.dev/pkg/store/storedefs"
)

var cmds = []string{
	"x = 1",
	"if x:\n    y = 2\n",
	"x + y",
	"print(x)",
}

// TestCmd tests the command history functionality of a Store.
func TestCmd(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextCmdSeq() -> %v, %v, want %v, nil", startSeq, err, 1)
	}

	for i, cmd := range cmds {
		wantSeq := startSeq + i
		seq, err := store.AddCmd(cmd)
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddCmd(%v) -> %v, %v, want %v, nil", cmd, seq, err, wantSeq)
		}
		seq, err = store.NextCmdSeq()
		if seq != wantSeq+1 || err != nil {
			t.Errorf("store.NextCmdSeq() -> %v, %v, want %v, nil", seq, err, wantSeq+1)
		}
	}

	for i, wantCmd := range cmds {
		seq := i + startSeq
		cmd, err := store.Cmd(seq)
		if cmd != wantCmd || err != nil {
			t.Errorf("store.Cmd(%v) -> %v, %v, want %v, nil", seq, cmd, err, wantCmd)
		}
	}

	got, err := store.Cmds(startSeq+1, startSeq+3)
	want := []storedefs.Cmd{{Text: cmds[1], Seq: startSeq + 1}, {Text: cmds[2], Seq: startSeq + 2}}
	if err != nil {
		t.Errorf("store.Cmds -> error %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("store.Cmds (-want +got):\n%s", diff)
	}

	prevTests := []struct {
		upto   int
		prefix string
		want   storedefs.Cmd
		err    error
	}{
		{startSeq + 3, "x", storedefs.Cmd{Text: cmds[2], Seq: startSeq + 2}, nil},
		{startSeq + 2, "x", storedefs.Cmd{Text: cmds[0], Seq: startSeq}, nil},
		{startSeq + 100, "", storedefs.Cmd{Text: cmds[3], Seq: startSeq + 3}, nil},
		{startSeq, "", storedefs.Cmd{}, storedefs.ErrNoMatchingCmd},
	}
	for _, tt := range prevTests {
		cmd, err := store.PrevCmd(tt.upto, tt.prefix)
		if cmd != tt.want || err != tt.err {
			t.Errorf("store.PrevCmd(%v, %q) -> %v, %v, want %v, %v",
				tt.upto, tt.prefix, cmd, err, tt.want, tt.err)
		}
	}

	nextTests := []struct {
		from   int
		prefix string
		want   storedefs.Cmd
		err    error
	}{
		{startSeq, "if", storedefs.Cmd{Text: cmds[1], Seq: startSeq + 1}, nil},
		{startSeq + 1, "x", storedefs.Cmd{Text: cmds[2], Seq: startSeq + 2}, nil},
		{startSeq, "nope", storedefs.Cmd{}, storedefs.ErrNoMatchingCmd},
	}
	for _, tt := range nextTests {
		cmd, err := store.NextCmd(tt.from, tt.prefix)
		if cmd != tt.want || err != tt.err {
			t.Errorf("store.NextCmd(%v, %q) -> %v, %v, want %v, %v",
				tt.from, tt.prefix, cmd, err, tt.want, tt.err)
		}
	}

	if err := store.DelCmd(startSeq); err != nil {
		t.Errorf("store.DelCmd(%v) -> %v", startSeq, err)
	}
	if _, err := store.Cmd(startSeq); err != storedefs.ErrNoMatchingCmd {
		t.Errorf("store.Cmd(%v) after deletion -> error %v, want ErrNoMatchingCmd", startSeq, err)
	}
}

// TestRuleHits tests the memo statistics functionality of a Store.
func TestRuleHits(t *testing.T, store storedefs.Store) {
	got, err := store.RuleHits()
	if err != nil || len(got) != 0 {
		t.Errorf("store.RuleHits() on empty store -> %v, %v", got, err)
	}

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(store.AddRuleHits(map[string]int{"sum": 3, "atom": 1, "term": 0}))
	must(store.AddRuleHits(map[string]int{"sum": 2, "primary": 7}))

	got, err = store.RuleHits()
	want := map[string]int{"sum": 5, "atom": 1, "primary": 7}
	if err != nil {
		t.Errorf("store.RuleHits() -> error %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("store.RuleHits() (-want +got):\n%s", diff)
	}

	must(store.ClearRuleHits())
	got, err = store.RuleHits()
	if err != nil || len(got) != 0 {
		t.Errorf("store.RuleHits() after clearing -> %v, %v", got, err)
	}
}
