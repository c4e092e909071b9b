package token

import (
	"testing"

	"src.cronus.dev/pkg/tt"
)

func TestKeywordTable_Lookup(t *testing.T) {
	kt := DefaultKeywords()
	tt.Test(t, tt.Fn("Lookup", kt.Lookup), tt.Table{
		tt.Args("if").Rets(IF),
		tt.Args("func").Rets(FUNC),
		tt.Args("Null").Rets(NULL),
		tt.Args("extension").Rets(EXTENSION),
		tt.Args("null").Rets(NAME),
		tt.Args("iff").Rets(NAME),
		tt.Args("").Rets(NAME),
		tt.Args("averyveryverylongidentifier").Rets(NAME),
		// Soft keywords are names.
		tt.Args("match").Rets(NAME),
		tt.Args("_").Rets(NAME),
	})
}

func TestNewKeywordTable_Custom(t *testing.T) {
	kt := NewKeywordTable(map[string]Type{"let": FUNC, "be": EQUAL})
	tt.Test(t, tt.Fn("Lookup", kt.Lookup), tt.Table{
		tt.Args("let").Rets(FUNC),
		tt.Args("be").Rets(EQUAL),
		tt.Args("if").Rets(NAME),
	})
	if ws := kt.Words(); len(ws) != 2 || ws[0] != "be" {
		t.Errorf("Words() -> %v", ws)
	}
}

func TestOperators(t *testing.T) {
	tt.Test(t, tt.Fn("OneChar", OneChar), tt.Table{
		tt.Args(byte('+')).Rets(PLUS),
		tt.Args(byte('@')).Rets(AT),
		tt.Args(byte('$')).Rets(OP),
	})
	tt.Test(t, tt.Fn("TwoChars", TwoChars), tt.Table{
		tt.Args(byte('*'), byte('*')).Rets(DOUBLESTAR),
		tt.Args(byte('<'), byte('>')).Rets(NOTEQUAL),
		tt.Args(byte('-'), byte('>')).Rets(RARROW),
		tt.Args(byte(':'), byte('=')).Rets(COLONEQUAL),
		tt.Args(byte('+'), byte('+')).Rets(OP),
	})
	tt.Test(t, tt.Fn("ThreeChars", ThreeChars), tt.Table{
		tt.Args(byte('.'), byte('.'), byte('.')).Rets(ELLIPSIS),
		tt.Args(byte('*'), byte('*'), byte('=')).Rets(DOUBLESTAREQUAL),
		tt.Args(byte('+'), byte('+'), byte('+')).Rets(OP),
	})
}

func TestType_String(t *testing.T) {
	tt.Test(t, tt.Fn("Type.String", Type.String), tt.Table{
		tt.Args(NAME).Rets("NAME"),
		tt.Args(LPAR).Rets("'('"),
		tt.Args(WHILE).Rets("'while'"),
		tt.Args(Type(-1)).Rets("Type(-1)"),
	})
}

func TestType_Predicates(t *testing.T) {
	if !IF.IsKeyword() || NAME.IsKeyword() {
		t.Errorf("IsKeyword wrong")
	}
	if !PLUS.IsOperator() || NAME.IsOperator() {
		t.Errorf("IsOperator wrong")
	}
	if !DEDENT.IsWhitespace() || NAME.IsWhitespace() {
		t.Errorf("IsWhitespace wrong")
	}
}
