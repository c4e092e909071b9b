package store_test

import (
	"path/filepath"
	"testing"

	"src.cronus.dev/pkg/store"
	"src.cronus.dev/pkg/store/storetest"
	"src.cronus.dev/pkg/testutil"
)

func TestCmd(t *testing.T) {
	storetest.TestCmd(t, store.MustTempStore(t))
}

func TestRuleHits(t *testing.T) {
	storetest.TestRuleHits(t, store.MustTempStore(t))
}

func TestReopen(t *testing.T) {
	name := filepath.Join(testutil.TempDir(t), "db")
	st, err := store.NewStore(name)
	if err != nil {
		t.Fatal(err)
	}
	st.AddCmd("x = 1")
	st.AddRuleHits(map[string]int{"sum": 2})
	st.Close()

	st, err = store.NewStore(name)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if cmd, err := st.Cmd(1); cmd != "x = 1" || err != nil {
		t.Errorf("Cmd(1) after reopening -> %q, %v", cmd, err)
	}
	if hits, err := st.RuleHits(); hits["sum"] != 2 || err != nil {
		t.Errorf("RuleHits() after reopening -> %v, %v", hits, err)
	}
}

func TestNewStore_BadPath(t *testing.T) {
	_, err := store.NewStore(filepath.Join(testutil.TempDir(t), "no", "such", "db"))
	if err == nil {
		t.Errorf("NewStore with bad path succeeded")
	}
}
