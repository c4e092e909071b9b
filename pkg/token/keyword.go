package token

import "sort"

var defaultKeywords = map[string]Type{
	"if": IF, "elif": ELIF, "else": ELSE, "while": WHILE, "for": FOR,
	"in": IN, "do": DO, "func": FUNC, "class": CLASS, "return": RETURN,
	"break": BREAK, "continue": CONTINUE, "pass": PASS, "and": AND, "or": OR,
	"not": NOT, "is": IS, "Null": NULL, "True": TRUE, "False": FALSE,
	"import": IMPORT, "from": FROM, "as": AS, "del": DEL, "global": GLOBAL,
	"nonlocal": NONLOCAL, "assert": ASSERT, "raise": RAISE, "try": TRY,
	"except": EXCEPT, "finally": FINALLY, "with": WITH, "lambda": LAMBDA,
	"yield": YIELD, "async": ASYNC, "await": AWAIT, "extension": EXTENSION,
}

type keyword struct {
	word string
	typ  Type
}

// KeywordTable maps reserved words to their token types. Words are bucketed
// by length; a lookup scans only the bucket of the right length.
//
// A KeywordTable is immutable after construction and may be shared freely.
type KeywordTable struct {
	buckets [][]keyword
}

// NewKeywordTable builds a KeywordTable. Within a bucket, words are kept in
// lexical order so that the table is deterministic.
func NewKeywordTable(words map[string]Type) *KeywordTable {
	maxLen := 0
	for w := range words {
		if len(w) > maxLen {
			maxLen = len(w)
		}
	}
	buckets := make([][]keyword, maxLen+1)
	for w, t := range words {
		buckets[len(w)] = append(buckets[len(w)], keyword{w, t})
	}
	for _, b := range buckets {
		sort.Slice(b, func(i, j int) bool { return b[i].word < b[j].word })
	}
	return &KeywordTable{buckets}
}

var defaultTable = NewKeywordTable(defaultKeywords)

// DefaultKeywords returns the keyword table of the Cronus language.
func DefaultKeywords() *KeywordTable { return defaultTable }

// Lookup returns the keyword type of name, or NAME if name is not a keyword.
func (kt *KeywordTable) Lookup(name string) Type {
	if len(name) >= len(kt.buckets) {
		return NAME
	}
	for _, k := range kt.buckets[len(name)] {
		if k.word == name {
			return k.typ
		}
	}
	return NAME
}

// Words returns all keywords, shortest first.
func (kt *KeywordTable) Words() []string {
	var ws []string
	for _, b := range kt.buckets {
		for _, k := range b {
			ws = append(ws, k.word)
		}
	}
	return ws
}
