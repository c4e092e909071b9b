package parse

import (
	"context"
	"errors"
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"src.cronus.dev/pkg/arena"
)

type errorCase struct {
	Name    string
	Mode    string
	Src     string
	Type    string
	Message string
}

func loadErrorCases(t *testing.T) []errorCase {
	t.Helper()
	data, err := os.ReadFile("testdata/errors.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var cases []errorCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		t.Fatal(err)
	}
	return cases
}

func TestParse_Errors(t *testing.T) {
	for _, tc := range loadErrorCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			mode := File
			if tc.Mode != "" {
				var err error
				if mode, err = ParseMode(tc.Mode); err != nil {
					t.Fatal(err)
				}
			}
			wantType := tc.Type
			if wantType == "" {
				wantType = SyntaxError
			}
			a := arena.New()
			defer a.Free()
			_, err := ParseSource(context.Background(), Source{"[test]", tc.Src}, a, Config{Mode: mode})
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("got error %v, want *Error", err)
			}
			if e.Type != wantType || e.Message != tc.Message {
				t.Errorf("got %s: %s\nwant %s: %s", e.Type, e.Message, wantType, tc.Message)
			}
		})
	}
}

func TestParse_ErrorRange(t *testing.T) {
	a := arena.New()
	defer a.Free()
	_, err := ParseSource(context.Background(), Source{"[test]", "x = [1 2]\n"}, a, Config{})
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("got error %v", err)
	}
	if r := e.Range(); r.From != 5 || r.To != 8 {
		t.Errorf("error covers %d-%d, want 5-8", r.From, r.To)
	}
}

func TestCode(t *testing.T) {
	a := arena.New()
	defer a.Free()
	parse := func(src string, cfg Config) error {
		_, err := ParseSource(context.Background(), Source{"[test]", src}, a, cfg)
		return err
	}
	if got := Code(parse("x\n", Config{})); got != OK {
		t.Errorf("valid input: got %v", got)
	}
	if got := Code(parse("x y\n", Config{})); got != Syntax {
		t.Errorf("invalid input: got %v", got)
	}
	if got := Code(parse("", Config{Mode: Single})); got != EOF {
		t.Errorf("empty interactive input: got %v", got)
	}
	if got := Code(errors.New("other")); got != Internal {
		t.Errorf("foreign error: got %v", got)
	}
}

func TestParse_Interrupted(t *testing.T) {
	a := arena.New()
	defer a.Free()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ParseSource(ctx, Source{"[test]", "x = 1\n"}, a, Config{})
	if Code(err) != Interrupted {
		t.Errorf("got %v (%v), want interrupted", Code(err), err)
	}
}
