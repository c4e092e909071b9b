// Package shell is the entry point for the parser front end: it parses
// scripts, code given with -c and statements read interactively, and prints
// the syntax tree.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"

	"src.cronus.dev/pkg/logutil"
	"src.cronus.dev/pkg/parse"
	"src.cronus.dev/pkg/prog"
	"src.cronus.dev/pkg/store"
	"src.cronus.dev/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram.
type Program struct {
	codeInArg  bool
	mode       string
	dump       string
	positions  bool
	stats      bool
	trace      bool
	history    int
	configPath string
	json       *bool
	db         *string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false, "take first argument as code to parse")
	fs.StringVar(&p.mode, "mode", "", "start rule: file, single, eval or string")
	fs.StringVar(&p.dump, "dump", "", "output format of the tree: text, json, yaml or none")
	fs.BoolVar(&p.positions, "positions", false, "include source positions in json and yaml dumps")
	fs.BoolVar(&p.stats, "stats", false, "show memoization statistics")
	fs.BoolVar(&p.trace, "trace", false, "log every rule attempt")
	fs.IntVar(&p.history, "history", 0, "show the last `n` statements of the interactive history and quit")
	fs.StringVar(&p.configPath, "config", "", "path to the configuration file")
	p.json = fs.JSON()
	p.db = fs.DB()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	cfg, err := loadConfig(p.configPath)
	if err != nil {
		return err
	}
	p.override(cfg)
	opts, err := cfg.options(len(args) > 0 || p.codeInArg)
	if err != nil {
		return prog.BadUsage(err.Error())
	}
	opts.json = *p.json
	if p.codeInArg && len(args) == 0 {
		return prog.BadUsage("-c requires an argument")
	}

	var st store.DBStore
	if cfg.DB != "" {
		st, err = store.NewStore(cfg.DB)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot open database:", err)
			fmt.Fprintln(fds[2], "History and statistics will not be saved.")
			st = nil
		} else {
			defer st.Close()
		}
	}

	if p.history > 0 {
		if st == nil {
			return prog.BadUsage("-history requires a database")
		}
		return showHistory(fds, st, p.history)
	}

	if opts.trace && logutil.Output() == io.Discard {
		logutil.SetOutput(fds[2])
		defer logutil.SetOutput(io.Discard)
	}

	if len(args) > 0 {
		return prog.Exit(script(fds, args, opts, st, p.codeInArg))
	}
	interact(fds, opts, st)
	return nil
}

// Applies flags that were given on top of the configuration file.
func (p *Program) override(cfg *Config) {
	if p.mode != "" {
		cfg.Mode = p.mode
	}
	if p.dump != "" {
		cfg.Dump = p.dump
	}
	if *p.db != "" {
		cfg.DB = *p.db
	}
	cfg.Positions = cfg.Positions || p.positions
	cfg.Stats = cfg.Stats || p.stats
	cfg.Trace = cfg.Trace || p.trace
}

// Returns a context that is cancelled on SIGINT, and a function that
// releases it.
func interruptible() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh, stop := sys.NotifyInterrupt()
	go func() {
		select {
		case <-sigCh:
			logger.Println("interrupted")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		stop()
		cancel()
	}
}

// Parses one source and writes its tree to w.
func parseAndDump(ctx context.Context, w io.Writer, src parse.Source, mode parse.Mode, o *options, stats *parse.Stats) error {
	a := o.newArena()
	defer a.Free()
	tree, err := parse.ParseSource(ctx, src, a, parse.Config{
		Mode: mode, Stats: stats, Trace: o.trace, MaxDepth: o.maxDepth})
	if err != nil {
		return err
	}
	return dumpTree(w, tree, o)
}
