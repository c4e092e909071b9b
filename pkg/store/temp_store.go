package store

import (
	"path/filepath"

	"src.cronus.dev/pkg/must"
	"src.cronus.dev/pkg/testutil"
)

// MustTempStore returns a Store backed by a temporary file. The Store is
// closed and the file removed when the test finishes.
func MustTempStore(c testutil.Cleanuper) DBStore {
	st := must.OK1(NewStore(filepath.Join(testutil.TempDir(c), "db")))
	c.Cleanup(func() { must.OK(st.Close()) })
	return st
}
