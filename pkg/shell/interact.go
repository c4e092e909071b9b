package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"src.cronus.dev/pkg/diag"
	"src.cronus.dev/pkg/parse"
	"src.cronus.dev/pkg/store"
	"src.cronus.dev/pkg/sys"
)

// Reads statements from stdin and prints their trees, until EOF.
//
// Lines are accumulated as long as the parser reports that more input is
// needed. A statement that opens a block on its first line is only complete
// after an empty line. Successfully parsed statements are added to the
// history in the store.
func interact(fds [3]*os.File, o *options, st store.DBStore) {
	tty := sys.IsATTY(fds[0].Fd())
	in := bufio.NewReader(fds[0])
	stats := parse.NewStats()
	defer showStats(fds, o, stats, st)

	var (
		buf    strings.Builder
		lines  int
		cmdNum int
	)
	for {
		if tty {
			if lines == 0 {
				fmt.Fprint(fds[2], o.prompt)
			} else {
				fmt.Fprint(fds[2], o.contPrompt)
			}
		}
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			fmt.Fprintln(fds[2], "cannot read input:", err)
			return
		}
		eof := err == io.EOF
		if line != "" && !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		blank := strings.TrimSpace(line) == ""
		if lines == 0 && blank {
			if eof {
				return
			}
			continue
		}
		buf.WriteString(line)
		if line != "" {
			lines++
		}

		code := buf.String()
		if !eof && (needsMore(code, o) || !blank && opensBlock(code)) {
			continue
		}
		cmdNum++
		parseStatement(fds, code, cmdNum, o, stats, st)
		buf.Reset()
		lines = 0
		if eof {
			return
		}
	}
}

// Reports whether code is an incomplete statement.
func needsMore(code string, o *options) bool {
	a := o.newArena()
	defer a.Free()
	_, err := parse.ParseSource(context.Background(), parse.Source{Name: "[stdin]", Code: code}, a,
		parse.Config{Mode: o.mode, MaxDepth: o.maxDepth})
	return parse.IsEOF(err)
}

// Reports whether the first line of code opens a block, like "if x:", or is
// a decorator.
func opensBlock(code string) bool {
	first, _, _ := strings.Cut(code, "\n")
	if i := strings.IndexByte(first, '#'); i >= 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)
	return strings.HasSuffix(first, ":") || strings.HasPrefix(first, "@")
}

// Parses one statement and prints its tree or error.
func parseStatement(fds [3]*os.File, code string, n int, o *options, stats *parse.Stats, st store.DBStore) {
	ctx, release := interruptible()
	defer release()
	src := parse.Source{Name: fmt.Sprintf("[stdin %d]", n), Code: code}
	err := parseAndDump(ctx, fds[1], src, o.mode, o, stats)
	if err != nil {
		if o.json {
			fmt.Fprintf(fds[1], "%s\n", errorsToJSON(err))
		} else {
			diag.ShowError(fds[2], err)
		}
		return
	}
	if st != nil {
		if _, err := st.AddCmd(strings.TrimRight(code, "\n")); err != nil {
			logger.Println("cannot add command to history:", err)
		}
	}
}
