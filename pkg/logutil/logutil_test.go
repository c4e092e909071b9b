package logutil

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetOutput(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	logger := GetLogger("[test] ")
	var sb strings.Builder
	SetOutput(&sb)
	logger.Println("hello")
	if !strings.Contains(sb.String(), "[test] ") || !strings.HasSuffix(sb.String(), "hello\n") {
		t.Errorf("got output %q", sb.String())
	}

	later := GetLogger("[later] ")
	later.Println("world")
	if !strings.HasSuffix(sb.String(), "world\n") {
		t.Errorf("logger created after SetOutput does not use the output")
	}
}

func TestSetOutputFile(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	logger := GetLogger("[test] ")
	fname := filepath.Join(t.TempDir(), "log")
	if err := SetOutputFile(fname); err != nil {
		t.Fatal(err)
	}
	logger.Println("to file")
	SetOutputFile("")
	content, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "to file") {
		t.Errorf("log file contains %q", content)
	}
}

func TestOutput(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	if Output() != io.Discard {
		t.Errorf("output is not discarded by default")
	}
	var sb strings.Builder
	SetOutput(&sb)
	if Output() != io.Writer(&sb) {
		t.Errorf("Output does not return the writer passed to SetOutput")
	}
}
