// Package pprof adds profiling flags, for profiling the parser on large
// inputs.
package pprof

import (
	"fmt"
	"os"
	"runtime/pprof"

	"src.cronus.dev/pkg/prog"
)

// Program adds support for the -cpuprofile, -allocsprofile and -heapprofile
// flags. It always returns prog.NextProgram, carrying cleanups that finish
// the profiles.
type Program struct {
	cpuProfile string
	// Snapshot profiles written when the program finishes, keyed by the name
	// of the runtime/pprof profile.
	snapshots [2]snapshot
}

type snapshot struct {
	name, path string
}

func (p *Program) RegisterFlags(f *prog.FlagSet) {
	f.StringVar(&p.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	p.snapshots = [2]snapshot{{name: "allocs"}, {name: "heap"}}
	f.StringVar(&p.snapshots[0].path, "allocsprofile", "", "write memory allocation profile to file")
	f.StringVar(&p.snapshots[1].path, "heapprofile", "", "write heap profile to file")
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	var cleanups []func([3]*os.File)
	if p.cpuProfile != "" {
		if f := create(fds, p.cpuProfile, "CPU profile"); f != nil {
			if err := pprof.StartCPUProfile(f); err != nil {
				fmt.Fprintln(fds[2], "Warning: cannot start CPU profile:", err)
				f.Close()
			} else {
				cleanups = append(cleanups, func([3]*os.File) {
					pprof.StopCPUProfile()
					f.Close()
				})
			}
		}
	}
	for _, s := range p.snapshots {
		if s.path == "" {
			continue
		}
		if f := create(fds, s.path, s.name+" profile"); f != nil {
			name := s.name
			cleanups = append(cleanups, func(fds [3]*os.File) {
				if err := pprof.Lookup(name).WriteTo(f, 0); err != nil {
					fmt.Fprintf(fds[2], "Warning: cannot write %s profile: %v\n", name, err)
				}
				f.Close()
			})
		}
	}
	return prog.NextProgram(cleanups...)
}

func create(fds [3]*os.File, path, what string) *os.File {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(fds[2], "Warning: cannot create %s: %v\n", what, err)
		fmt.Fprintf(fds[2], "Continuing without %s.\n", what)
		return nil
	}
	return f
}
