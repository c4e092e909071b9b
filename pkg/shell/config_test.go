package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.cronus.dev/pkg/arena"
	"src.cronus.dev/pkg/must"
	"src.cronus.dev/pkg/parse"
	. "src.cronus.dev/pkg/prog/progtest"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config", "cronus", "config.toml")
	must.OK(os.MkdirAll(filepath.Dir(path), 0o700))
	must.WriteFile(path, content)
	return path
}

func TestLoadConfig_Default(t *testing.T) {
	setup(t)
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := setup(t)
	writeConfig(t, dir, `
mode = "eval"
dump = "yaml"
positions = true

[parser]
max_depth = 100
block_size = 4096

[prompt]
primary = "> "
`)
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	want := defaultConfig()
	want.Mode = "eval"
	want.Dump = "yaml"
	want.Positions = true
	want.Parser.MaxDepth = 100
	want.Parser.BlockSize = 4096
	want.Prompt.Primary = "> "
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}

	o, err := cfg.options(true)
	if err != nil {
		t.Fatal(err)
	}
	if o.mode != parse.Eval || o.contPrompt != "... " {
		t.Errorf("got options %+v", o)
	}
	a := o.newArena()
	defer a.Free()
	if a.BlockSize() != 4096 {
		t.Errorf("got block size %d, want 4096", a.BlockSize())
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := setup(t)
	if _, err := loadConfig(filepath.Join(dir, "nonexistent.toml")); err == nil {
		t.Errorf("loading an explicit missing file succeeded")
	}

	writeConfig(t, dir, `colour = "red"`)
	if _, err := loadConfig(""); err == nil {
		t.Errorf("loading a config with an unknown key succeeded")
	}

	writeConfig(t, dir, `mode = `)
	if _, err := loadConfig(""); err == nil {
		t.Errorf("loading a malformed config succeeded")
	}
}

func TestOptions(t *testing.T) {
	for _, tc := range []struct {
		name    string
		cfg     func(*Config)
		script  bool
		mode    parse.Mode
		wantErr bool
	}{
		{name: "script default", script: true, mode: parse.File},
		{name: "interactive default", mode: parse.Single},
		{name: "explicit mode", cfg: func(c *Config) { c.Mode = "string" }, script: true, mode: parse.String},
		{name: "bad mode", cfg: func(c *Config) { c.Mode = "expr" }, wantErr: true},
		{name: "bad dump", cfg: func(c *Config) { c.Dump = "" }, wantErr: true},
		{name: "negative depth", cfg: func(c *Config) { c.Parser.MaxDepth = -1 }, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			if tc.cfg != nil {
				tc.cfg(cfg)
			}
			o, err := cfg.options(tc.script)
			if tc.wantErr {
				if err == nil {
					t.Errorf("got nil error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if o.mode != tc.mode {
				t.Errorf("got mode %v, want %v", o.mode, tc.mode)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := setup(t)
	writeConfig(t, dir, "dump = \"none\"\n")
	explicit := filepath.Join(dir, "explicit.toml")
	must.WriteFile(explicit, "mode = \"eval\"\n")
	bad := filepath.Join(dir, "bad.toml")
	must.WriteFile(bad, "colour = \"red\"\n")

	Test(t, &Program{},
		ThatCronus("-c", "x").DoesNothing(),
		// Flags take precedence.
		ThatCronus("-dump", "text", "-c", "x").
			WritesStdout("Module([ExprStmt(Name(x, Load))])\n"),
		// An explicit file replaces the default one.
		ThatCronus("-config", explicit, "-c", "x").
			WritesStdout("Expression(Name(x, Load))\n"),
		ThatCronus("-config", bad, "-c", "x").
			ExitsWith(2).WritesStderrContaining("unknown key colour"),
		ThatCronus("-config", filepath.Join(dir, "nonexistent.toml"), "-c", "x").
			ExitsWith(2).WritesStderrContaining("cannot load config"),
	)
}

func TestNewArena(t *testing.T) {
	o := &options{}
	a := o.newArena()
	defer a.Free()
	if a.BlockSize() != arena.DefaultBlockSize {
		t.Errorf("got block size %d, want %d", a.BlockSize(), arena.DefaultBlockSize)
	}
}
