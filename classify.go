package atrium

// Character classification. Every predicate works on a single byte of the
// input; none of them allocate or keep state.

// isKeywordChar reports whether c may appear in a block name or property key.
func isKeywordChar(c byte) bool {
	return isAlphaNum(c) || c == '_' || c == '-' || c == '.'
}

// isValueChar reports whether c may appear in a bare (unquoted) value.
func isValueChar(c byte) bool {
	switch c {
	case '*', ':', '<', '>', '!', '/':
		return true
	}
	return isKeywordChar(c)
}

func isQuoteChar(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isNumericLiteral reports whether s is one or more digits optionally
// followed by a single '.' and more digits.
func isNumericLiteral(s string) bool {
	if len(s) == 0 {
		return false
	}

	dotSeen := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			if dotSeen || i == 0 || i == len(s)-1 {
				return false
			}
			dotSeen = true
			continue
		}
		if !isDigit(c) {
			return false
		}
	}

	return true
}

// isKeyword reports whether every byte of s is a keyword char.
func isKeyword(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isKeywordChar(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
