package prog_test

import (
	"os"
	"testing"

	. "src.cronus.dev/pkg/prog"
	"src.cronus.dev/pkg/prog/progtest"
	"src.cronus.dev/pkg/testutil"
)

var (
	Test       = progtest.Test
	ThatCronus = progtest.ThatCronus
)

func TestCommonFlagHandling(t *testing.T) {
	testutil.InTempDir(t)

	Test(t, &testProgram{},
		ThatCronus("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatCronus("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatCronus("-help").
			WritesStdoutContaining("Usage: cronus [flags] [script]"),

		ThatCronus("-log", "log").DoesNothing(),
	)

	if _, err := os.Stat("log"); err != nil {
		t.Errorf("log file does not exist: %v", err)
	}
}

func TestSharedFlags(t *testing.T) {
	p1 := &testProgram{shared: true}
	p2 := &testProgram{shared: true, nextProgram: true}
	Test(t, Composite(p2, p1), ThatCronus("-json", "-db", "x.db").DoesNothing())
	if !*p1.json || *p1.db != "x.db" {
		t.Errorf("shared flags not set")
	}
	if p1.json != p2.json || p1.db != p2.db {
		t.Errorf("shared flags registered twice")
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, &testProgram{nextProgram: true},
		ThatCronus().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(&testProgram{nextProgram: true}, &testProgram{writeOut: "program 2"}),
		ThatCronus().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(&testProgram{nextProgram: true}, &testProgram{nextProgram: true}),
		ThatCronus().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			&testProgram{writeOut: "program 1"}, &testProgram{writeOut: "program 2"}),
		ThatCronus().WritesStdout("program 1"),
	)
}

func TestComposite_RunsCleanupsInReverse(t *testing.T) {
	cleanup := func(s string) func([3]*os.File) {
		return func(fds [3]*os.File) { fds[1].WriteString(s) }
	}
	Test(t,
		Composite(
			&testProgram{nextProgram: true, cleanup: cleanup("1")},
			&testProgram{nextProgram: true, cleanup: cleanup("2")},
			&testProgram{writeOut: "program 3;"}),
		ThatCronus().WritesStdout("program 3;21"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		&testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatCronus().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, &testProgram{returnErr: Exit(3)},
		ThatCronus().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, &testProgram{returnErr: Exit(0)},
		ThatCronus().ExitsWith(0),
	)
}

type testProgram struct {
	nextProgram bool
	cleanup     func([3]*os.File)
	writeOut    string
	returnErr   error
	shared      bool

	json *bool
	db   *string
}

func (p *testProgram) RegisterFlags(fs *FlagSet) {
	if p.shared {
		p.json = fs.JSON()
		p.db = fs.DB()
	}
}

func (p *testProgram) Run(fds [3]*os.File, args []string) error {
	if p.nextProgram {
		if p.cleanup != nil {
			return NextProgram(p.cleanup)
		}
		return NextProgram()
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}
