package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"src.cronus.dev/pkg/must"
)

type cleanuper struct{ fns []func() }

func (c *cleanuper) Cleanup(f func()) { c.fns = append(c.fns, f) }

func (c *cleanuper) runCleanups() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
}

func TestTempDir(t *testing.T) {
	c := &cleanuper{}
	dir := TempDir(c)
	if stat, err := os.Stat(dir); err != nil || !stat.IsDir() {
		t.Fatalf("TempDir returned %q, which is not a directory", dir)
	}
	if resolved := must.OK1(filepath.EvalSymlinks(dir)); resolved != dir {
		t.Errorf("TempDir returned %q, which resolves to %q", dir, resolved)
	}
	must.WriteFile(filepath.Join(dir, "a", "b"), "content")
	c.runCleanups()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("directory still exists after cleanup")
	}
}

func TestInTempDir(t *testing.T) {
	before := must.OK1(os.Getwd())
	c := &cleanuper{}
	dir := InTempDir(c)
	if wd := must.OK1(os.Getwd()); wd != dir {
		t.Errorf("working directory is %q, want %q", wd, dir)
	}
	WriteFiles(map[string]string{"d/f": "x"})
	if got := must.ReadFileString(filepath.Join(dir, "d", "f")); got != "x" {
		t.Errorf("file content is %q", got)
	}
	c.runCleanups()
	if wd := must.OK1(os.Getwd()); wd != before {
		t.Errorf("working directory not restored")
	}
}

func TestSet(t *testing.T) {
	c := &cleanuper{}
	s := "old"
	Set(c, &s, "new")
	if s != "new" {
		t.Errorf("s = %q after Set", s)
	}
	c.runCleanups()
	if s != "old" {
		t.Errorf("s = %q after cleanup", s)
	}
}

func TestSetenv(t *testing.T) {
	const name = "CRONUS_TESTUTIL_VAR"
	os.Unsetenv(name)
	c := &cleanuper{}
	Setenv(c, name, "v")
	if os.Getenv(name) != "v" {
		t.Errorf("variable not set")
	}
	c.runCleanups()
	if _, ok := os.LookupEnv(name); ok {
		t.Errorf("variable not unset after cleanup")
	}
}
