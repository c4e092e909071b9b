package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"src.cronus.dev/pkg/arena"
	"src.cronus.dev/pkg/parse"
)

// Config is the content of the configuration file, a TOML file at
// $XDG_CONFIG_HOME/cronus/config.toml or the path given with -config. Flags
// take precedence over the file.
type Config struct {
	// Start rule: file, single, eval or string. The default is file for
	// scripts and single for interactive input.
	Mode string `toml:"mode"`
	// Output format of trees: text, json, yaml or none.
	Dump      string `toml:"dump"`
	Positions bool   `toml:"positions"`
	Stats     bool   `toml:"stats"`
	Trace     bool   `toml:"trace"`
	// Path to the database; empty disables history and saved statistics.
	DB string `toml:"db"`

	Parser struct {
		MaxDepth  int `toml:"max_depth"`
		BlockSize int `toml:"block_size"`
	} `toml:"parser"`

	Prompt struct {
		Primary      string `toml:"primary"`
		Continuation string `toml:"continuation"`
	} `toml:"prompt"`
}

func defaultConfig() *Config {
	cfg := &Config{Dump: "text"}
	cfg.Prompt.Primary = ">>> "
	cfg.Prompt.Continuation = "... "
	return cfg
}

// ConfigPath returns the default path of the configuration file.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cronus", "config.toml"), nil
}

// Loads the configuration file at path, or the default configuration file
// if path is empty. A missing default file is not an error.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		var err error
		path, err = ConfigPath()
		if err != nil {
			logger.Println("no default config path:", err)
			return cfg, nil
		}
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("cannot load config %s: unknown key %s", path, undecoded[0])
	}
	logger.Println("loaded config from", path)
	return cfg, nil
}

// Options derived from a Config, used by the script and interactive modes.
type options struct {
	mode       parse.Mode
	dump       string
	positions  bool
	stats      bool
	trace      bool
	json       bool
	maxDepth   int
	blockSize  int
	prompt     string
	contPrompt string
}

func (cfg *Config) options(script bool) (*options, error) {
	o := &options{
		dump: cfg.Dump, positions: cfg.Positions, stats: cfg.Stats, trace: cfg.Trace,
		maxDepth: cfg.Parser.MaxDepth, blockSize: cfg.Parser.BlockSize,
		prompt: cfg.Prompt.Primary, contPrompt: cfg.Prompt.Continuation,
	}
	switch {
	case cfg.Mode != "":
		mode, err := parse.ParseMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		o.mode = mode
	case script:
		o.mode = parse.File
	default:
		o.mode = parse.Single
	}
	switch o.dump {
	case "text", "json", "yaml", "none":
	default:
		return nil, fmt.Errorf("unknown dump format %q, should be text, json, yaml or none", o.dump)
	}
	if o.maxDepth < 0 || o.blockSize < 0 {
		return nil, errors.New("parser limits must not be negative")
	}
	return o, nil
}

func (o *options) newArena() *arena.Arena {
	if o.blockSize > 0 {
		return arena.NewSized(o.blockSize)
	}
	return arena.New()
}
