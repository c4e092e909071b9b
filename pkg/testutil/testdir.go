package testutil

import (
	"os"
	"path/filepath"

	"src.cronus.dev/pkg/must"
)

// TempDir creates a temporary directory for testing that will be removed
// after the test finishes. Symlinks in the path are resolved.
func TempDir(c Cleanuper) string {
	dir := must.OK1(os.MkdirTemp("", "cronustest"))
	dir = must.OK1(filepath.EvalSymlinks(dir))
	c.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			panic(err)
		}
	})
	return dir
}

// InTempDir is like TempDir, but also changes into the directory for the
// duration of the test. It returns the directory.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	Chdir(c, dir)
	return dir
}

// Chdir changes into a directory for the duration of a test.
func Chdir(c Cleanuper, dir string) {
	old := must.OK1(os.Getwd())
	must.Chdir(dir)
	c.Cleanup(func() { must.Chdir(old) })
}

// WriteFiles writes files under the current directory. Keys are relative
// paths with forward slashes.
func WriteFiles(files map[string]string) {
	for name, content := range files {
		must.WriteFile(filepath.FromSlash(name), content)
	}
}
