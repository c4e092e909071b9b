package token

// OneChar classifies a single-character operator. It returns OP if c is not
// an operator by itself.
func OneChar(c byte) Type {
	switch c {
	case '(':
		return LPAR
	case ')':
		return RPAR
	case '[':
		return LSQB
	case ']':
		return RSQB
	case ':':
		return COLON
	case ',':
		return COMMA
	case ';':
		return SEMI
	case '+':
		return PLUS
	case '-':
		return MINUS
	case '*':
		return STAR
	case '/':
		return SLASH
	case '\\':
		return BACKSLASH
	case '|':
		return VBAR
	case '&':
		return AMPER
	case '<':
		return LESS
	case '>':
		return GREATER
	case '=':
		return EQUAL
	case '.':
		return DOT
	case '%':
		return PERCENT
	case '{':
		return LBRACE
	case '}':
		return RBRACE
	case '~':
		return TILDE
	case '^':
		return CIRCUMFLEX
	case '@':
		return AT
	case '!':
		return EXCLAMATION
	}
	return OP
}

// TwoChars classifies a two-character operator, returning OP if there is no
// such operator.
func TwoChars(c1, c2 byte) Type {
	switch c1 {
	case '=':
		if c2 == '=' {
			return EQEQUAL
		}
	case '!':
		if c2 == '=' {
			return NOTEQUAL
		}
	case '<':
		switch c2 {
		case '>':
			return NOTEQUAL
		case '=':
			return LESSEQUAL
		case '<':
			return LEFTSHIFT
		}
	case '>':
		switch c2 {
		case '=':
			return GREATEREQUAL
		case '>':
			return RIGHTSHIFT
		}
	case '+':
		if c2 == '=' {
			return PLUSEQUAL
		}
	case '-':
		switch c2 {
		case '=':
			return MINEQUAL
		case '>':
			return RARROW
		}
	case '*':
		switch c2 {
		case '*':
			return DOUBLESTAR
		case '=':
			return STAREQUAL
		}
	case '/':
		switch c2 {
		case '/':
			return DOUBLESLASH
		case '=':
			return SLASHEQUAL
		}
	case '|':
		if c2 == '=' {
			return VBAREQUAL
		}
	case '%':
		if c2 == '=' {
			return PERCENTEQUAL
		}
	case '&':
		if c2 == '=' {
			return AMPEREQUAL
		}
	case '^':
		if c2 == '=' {
			return CIRCUMFLEXEQUAL
		}
	case '@':
		if c2 == '=' {
			return ATEQUAL
		}
	case ':':
		if c2 == '=' {
			return COLONEQUAL
		}
	}
	return OP
}

// ThreeChars classifies a three-character operator, returning OP if there is
// no such operator.
func ThreeChars(c1, c2, c3 byte) Type {
	switch {
	case c1 == '<' && c2 == '<' && c3 == '=':
		return LEFTSHIFTEQUAL
	case c1 == '>' && c2 == '>' && c3 == '=':
		return RIGHTSHIFTEQUAL
	case c1 == '*' && c2 == '*' && c3 == '=':
		return DOUBLESTAREQUAL
	case c1 == '/' && c2 == '/' && c3 == '=':
		return DOUBLESLASHEQUAL
	case c1 == '.' && c2 == '.' && c3 == '.':
		return ELLIPSIS
	}
	return OP
}
