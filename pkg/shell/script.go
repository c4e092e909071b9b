package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"src.cronus.dev/pkg/diag"
	"src.cronus.dev/pkg/parse"
	"src.cronus.dev/pkg/store"
)

// Parses a script, or code given with -c, and prints its tree. It returns the
// exit status.
func script(fds [3]*os.File, args []string, o *options, st store.DBStore, codeInArg bool) int {
	arg0 := args[0]
	var name, code string
	if codeInArg {
		name = "code from -c"
		code = arg0
	} else {
		var err error
		name, err = filepath.Abs(arg0)
		if err != nil {
			fmt.Fprintf(fds[2], "cannot get full path of script %q: %v\n", arg0, err)
			return 2
		}
		code, err = readFileUTF8(name)
		if err != nil {
			fmt.Fprintf(fds[2], "cannot read script %q: %v\n", name, err)
			return 2
		}
	}

	ctx, release := interruptible()
	defer release()
	stats := parse.NewStats()
	err := parseAndDump(ctx, fds[1], parse.Source{Name: name, Code: code}, o.mode, o, stats)
	showStats(fds, o, stats, st)
	if err != nil {
		if o.json {
			fmt.Fprintf(fds[1], "%s\n", errorsToJSON(err))
		} else {
			diag.ShowError(fds[2], err)
		}
		return exitStatus(err)
	}
	return 0
}

// Exit status for a parse error: 2 for errors in the source, 3 for internal
// errors and 130 for interruption.
func exitStatus(err error) int {
	switch parse.Code(err) {
	case parse.OK:
		return 0
	case parse.Interrupted:
		return 130
	case parse.Internal, parse.NoMemory:
		return 3
	}
	return 2
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}
