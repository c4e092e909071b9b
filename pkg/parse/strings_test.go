package parse

import (
	"errors"
	"testing"

	. "src.cronus.dev/pkg/tt"
)

func TestSplitStringLiteral(t *testing.T) {
	Test(t, Fn("splitStringLiteral", splitStringLiteral), Table{
		Args(`'abc'`).Rets(stringLiteral{body: "abc", offset: 1}, nil),
		Args(`rb"a\b"`).Rets(stringLiteral{raw: true, bytes: true, body: `a\b`, offset: 3}, nil),
		Args(`F'''x'''`).Rets(stringLiteral{fstring: true, body: "x", offset: 4}, nil),
		Args(`u''`).Rets(stringLiteral{unicode: true, offset: 2}, nil),
		Args(`''''''`).Rets(stringLiteral{offset: 3}, nil),
		Args(`abc`).Rets(stringLiteral{}, errors.New(`malformed string literal "abc"`)),
	})
}

func TestDecodeString(t *testing.T) {
	Test(t, Fn("decodeString", decodeString), Table{
		Args(`plain`, false).Rets("plain", nil),
		Args(`a\nb`, false).Rets("a\nb", nil),
		Args(`a\nb`, true).Rets(`a\nb`, nil),
		Args(`\t\\\'\"`, false).Rets("\t\\'\"", nil),
		Args(`\101\0`, false).Rets("A\x00", nil),
		Args(`\x41é\U0001F600`, false).Rets("Aé😀", nil),
		Args("line\\\ncontinued", false).Rets("linecontinued", nil),
		Args(`\q`, false).Rets(`\q`, nil),
		Args(`\N{DASH}`, false).Rets(`\N{DASH}`, nil),
		Args(`\x4`, false).Rets("", errors.New(`(unicode error) truncated \xXX escape`)),
		Args(`\u12`, false).Rets("", errors.New(`(unicode error) truncated \uXXXX escape`)),
		Args(`\U00110000`, false).Rets("", errors.New("(unicode error) illegal Unicode character")),
	})
}

func TestDecodeBytes(t *testing.T) {
	Test(t, Fn("decodeBytes", decodeBytes), Table{
		Args(`abc`, false).Rets([]byte("abc"), nil),
		Args(`\x00\xff`, false).Rets([]byte{0, 0xff}, nil),
		Args(`\777`, false).Rets([]byte{0xff}, nil),
		Args(`\u1234`, false).Rets([]byte(`\u1234`), nil),
		Args(`\n`, true).Rets([]byte(`\n`), nil),
		Args(`é`, false).Rets([]byte(nil), errors.New("bytes can only contain ASCII literal characters")),
	})
}
