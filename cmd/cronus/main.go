// Command cronus parses Cronus source code and prints its syntax tree. It can
// also run as a language server that reports syntax errors.
package main

import (
	"os"

	"src.cronus.dev/pkg/buildinfo"
	"src.cronus.dev/pkg/lsp"
	"src.cronus.dev/pkg/pprof"
	"src.cronus.dev/pkg/prog"
	"src.cronus.dev/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&pprof.Program{}, &buildinfo.Program{}, &lsp.Program{}, &shell.Program{})))
}
