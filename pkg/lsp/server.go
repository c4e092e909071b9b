package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"src.cronus.dev/pkg/arena"
	"src.cronus.dev/pkg/ast"
	"src.cronus.dev/pkg/diag"
	"src.cronus.dev/pkg/logutil"
	"src.cronus.dev/pkg/parse"
)

var logger = logutil.GetLogger("[lsp] ")

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// Longest hover text; longer trees are truncated.
const maxHoverLen = 500

type server struct {
	mu      sync.Mutex
	content map[lsp.DocumentURI]string
	// Called on "exit"; closes the connection.
	exit func()
}

func newServer() *server {
	return &server{content: make(map[lsp.DocumentURI]string), exit: func() {}}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":             s.initialize,
		"textDocument/didOpen":   s.didOpen,
		"textDocument/didChange": s.didChange,
		"textDocument/didClose":  s.didClose,
		"textDocument/hover":     s.hover,
		"shutdown":               noop,
		"exit":                   s.exitMethod,

		// Required by the protocol.
		"initialized": noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Printf("unknown method %s", req.Method)
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider: true,
		},
	}, nil
}

func (s *server) exitMethod(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	go s.exit()
	return nil, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.setContent(uri, content)
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.setContent(uri, content)
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	delete(s.content, params.TextDocument.URI)
	s.mu.Unlock()
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: params.TextDocument.URI, Diagnostics: []lsp.Diagnostic{}})
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	content, ok := s.content[params.TextDocument.URI]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	text, rg, ok := describeNodeAt(string(params.TextDocument.URI), content, lspPositionToIdx(content, params.Position))
	if !ok {
		return nil, nil
	}
	r := lspRangeFromRange(content, rg)
	return &lsp.Hover{
		Contents: []lsp.MarkedString{{Language: "text", Value: text}},
		Range:    &r,
	}, nil
}

func (s *server) setContent(uri lsp.DocumentURI, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[uri] = content
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(uri, content)})
}

func diagnostics(uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	a := arena.New()
	defer a.Free()
	_, err := parse.ParseSource(context.Background(), parse.Source{Name: string(uri), Code: content}, a, parse.Config{})
	if err == nil {
		return []lsp.Diagnostic{}
	}
	var e *parse.Error
	if !errors.As(err, &e) {
		return []lsp.Diagnostic{{Severity: lsp.Error, Source: "parse", Message: err.Error()}}
	}
	return []lsp.Diagnostic{{
		Range:    lspRangeFromRange(content, e),
		Severity: lsp.Error,
		Source:   "parse",
		Message:  fmt.Sprintf("%s: %s", e.Type, e.Message),
	}}
}

// Parses content and describes the innermost node whose range covers the
// byte index idx, returning the formatted node and its range.
func describeNodeAt(name, content string, idx int) (string, diag.Ranging, bool) {
	a := arena.New()
	defer a.Free()
	root, err := parse.ParseSource(context.Background(), parse.Source{Name: name, Code: content}, a, parse.Config{})
	if err != nil {
		return "", diag.Ranging{}, false
	}
	lines := lineStarts(content)
	var (
		found ast.Spanned
		rg    diag.Ranging
	)
	ast.Walk(root, func(n ast.Node) bool {
		sp, ok := n.(ast.Spanned)
		if !ok {
			return true
		}
		pos := sp.Span()
		if pos.Lineno == 0 {
			return true
		}
		from := byteOffset(lines, pos.Lineno, pos.ColOffset)
		to := byteOffset(lines, pos.EndLineno, pos.EndColOffset)
		if idx < from || idx >= to {
			return false
		}
		found, rg = sp, diag.Ranging{From: from, To: to}
		return true
	})
	if found == nil {
		return "", diag.Ranging{}, false
	}
	text := ast.Format(found)
	if len(text) > maxHoverLen {
		text = text[:maxHoverLen] + "..."
	}
	return text, rg, true
}

func lineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func byteOffset(lineStarts []int, line, col int) int {
	if line < 1 || line > len(lineStarts) {
		return -1
	}
	return lineStarts[line-1] + col
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if !lastCR {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// One UTF-16 unit.
			p.Character++
		default:
			// Two UTF-16 units.
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
