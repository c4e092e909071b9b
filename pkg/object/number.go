package object

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
)

// ErrBadNumber is returned by ParseNumber for malformed literals.
var ErrBadNumber = errors.New("invalid number literal")

// ParseNumber converts the text of a NUMBER token to a value. Underscores
// between digits are allowed, integers may use the 0x, 0o and 0b prefixes, and
// integers that overflow 64 bits become BigInt values.
func ParseNumber(text string) (Object, error) {
	if text == "" || strings.HasPrefix(text, "_") || strings.HasSuffix(text, "_") ||
		strings.Contains(text, "__") {
		return nil, ErrBadNumber
	}
	clean := strings.ReplaceAll(text, "_", "")
	if isFloatLiteral(clean) {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
				// Overflow yields ±Inf, which matches the usual float
				// semantics.
				return NewFloat(f), nil
			}
			return nil, ErrBadNumber
		}
		return NewFloat(f), nil
	}

	base := 10
	digits := clean
	if len(clean) > 1 && clean[0] == '0' {
		switch clean[1] {
		case 'x', 'X':
			base, digits = 16, clean[2:]
		case 'o', 'O':
			base, digits = 8, clean[2:]
		case 'b', 'B':
			base, digits = 2, clean[2:]
		default:
			// Decimal literals may not have leading zeros, except for
			// zero itself.
			if strings.Trim(clean, "0") != "" {
				return nil, ErrBadNumber
			}
		}
	}
	if digits == "" {
		return nil, ErrBadNumber
	}
	i, err := strconv.ParseInt(digits, base, 64)
	if err == nil {
		return NewInt(i), nil
	}
	b, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, ErrBadNumber
	}
	return NewBigInt(b), nil
}

func isFloatLiteral(s string) bool {
	if len(s) > 1 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		return false
	}
	return strings.ContainsAny(s, ".eE")
}
