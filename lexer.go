package atrium

// role is what a word means at the current position.
type role int

const (
	roleName  role = iota // top-level block name
	roleKey               // property key
	roleValue             // attribute, property value or array element
	roleNone              // after a header or a key, before punctuation
)

// lexer splits input into highlighting tokens. Unlike the parser it never
// stops: invalid bytes become TokenInvalid and scanning continues, so the
// token texts always add up to the input.
type lexer struct {
	src      string
	pos      int
	line     int
	col      int
	sigil    byte
	embedded bool

	stack     []byte // open '{', '(' and '['.
	role      role
	statement bool // inside a block statement, as opposed to free text.

	tokens []Token
}

// Tokenize splits text into tokens for syntax highlighting, using
// DefaultSigil in embedded mode.
func Tokenize(text string, embedded bool) []Token {
	return TokenizeWithSigil(text, embedded, DefaultSigil)
}

// TokenizeWithSigil is Tokenize with an explicit embedded-mode sigil.
// Concatenating the Value of every returned token reproduces text.
func TokenizeWithSigil(text string, embedded bool, sigil byte) []Token {
	l := &lexer{
		src:       text,
		line:      1,
		sigil:     sigil,
		embedded:  embedded,
		statement: !embedded,
		role:      roleName,
		tokens:    make([]Token, 0, len(text)/4+1),
	}
	for l.pos < len(l.src) {
		l.scan()
	}
	return l.tokens
}

// emit appends the token src[pos:end] and moves past it.
func (l *lexer) emit(typ TokenType, end int) {
	value := l.src[l.pos:end]
	l.tokens = append(l.tokens, Token{
		Type:   typ,
		Value:  value,
		Offset: l.pos,
		Len:    len(value),
		Line:   l.line,
		Column: l.col,
	})

	for i := 0; i < len(value); i++ {
		if value[i] == '\n' {
			l.line++
			l.col = 0
		} else {
			l.col++
		}
	}
	l.pos = end
}

func (l *lexer) scan() {
	if !l.statement {
		l.scanText()
		return
	}

	ch := l.src[l.pos]
	if l.embedded && l.role == roleName && !isKeywordChar(ch) {
		// Not a block after all; the rest is text again.
		l.endStatement()
		return
	}

	switch {
	case isWhitespace(ch):
		l.emit(TokenWhitespace, l.skip(l.pos, isWhitespace))
	case ch == '#':
		end := l.pos
		for end < len(l.src) && l.src[end] != '\n' {
			end++
		}
		l.emit(TokenComment, end)
	case isQuoteChar(ch):
		l.scanString(ch)
	case l.role == roleName:
		if !isKeywordChar(ch) {
			l.punct(ch)
			return
		}
		l.emit(TokenBlockName, l.skip(l.pos, isKeywordChar))
		l.role = roleNone
	case l.role == roleValue && isValueChar(ch):
		l.scanValue()
	case l.role == roleKey && isKeywordChar(ch):
		l.emit(TokenKey, l.skip(l.pos, isKeywordChar))
		l.role = roleNone
	case l.role == roleNone && isKeywordChar(ch):
		l.emit(TokenPlain, l.skip(l.pos, isKeywordChar))
	default:
		l.punct(ch)
	}
}

// scanText emits free text up to the next sigil, then the sigil itself.
func (l *lexer) scanText() {
	end := l.pos
	for end < len(l.src) && l.src[end] != l.sigil {
		end++
	}
	if end > l.pos {
		l.emit(TokenText, end)
	}
	if end < len(l.src) {
		l.emit(TokenSigil, end+1)
		l.statement = true
		l.role = roleName
		l.stack = l.stack[:0]
	}
}

func (l *lexer) scanString(quote byte) {
	for i := l.pos + 1; i < len(l.src); i++ {
		if l.src[i] == quote && l.src[i-1] != '\\' {
			l.emit(TokenString, i+1)
			l.afterValue()
			return
		}
	}
	l.emit(TokenInvalid, len(l.src))
}

func (l *lexer) scanValue() {
	end := l.skip(l.pos, isValueChar)
	text := l.src[l.pos:end]

	typ := TokenPlain
	switch {
	case text == "true" || text == "false":
		typ = TokenBool
	case isNumericLiteral(text):
		typ = TokenNumber
	default:
		// name { ... } or name(...) as a value is a nested block.
		next := l.skip(end, isWhitespace)
		if next < len(l.src) && (l.src[next] == '{' || l.src[next] == '(') && isKeyword(text) && l.top() != '[' {
			typ = TokenKey
		}
	}
	l.emit(typ, end)
}

func (l *lexer) afterValue() {
	if l.role == roleKey {
		l.role = roleNone
	}
}

func (l *lexer) punct(ch byte) {
	switch ch {
	case '{':
		l.stack = append(l.stack, ch)
		l.emit(TokenPunct, l.pos+1)
		l.role = roleKey
	case '(', '[':
		l.stack = append(l.stack, ch)
		l.emit(TokenPunct, l.pos+1)
		l.role = roleValue
	case ')', ']', '}':
		if l.top() != opener(ch) {
			l.emit(TokenInvalid, l.pos+1)
			return
		}
		l.stack = l.stack[:len(l.stack)-1]
		l.emit(TokenPunct, l.pos+1)
		switch {
		case ch == ']':
			l.role = roleValue
		case ch == ')':
			l.role = roleNone
		case len(l.stack) == 0:
			l.endStatement()
		default:
			// A key may follow a nested block without a separator.
			l.role = roleKey
		}
	case ':', ',':
		l.emit(TokenPunct, l.pos+1)
		l.role = roleValue
	case ';':
		l.emit(TokenPunct, l.pos+1)
		if len(l.stack) == 0 {
			l.endStatement()
		} else if l.top() == '{' {
			l.role = roleKey
		}
	default:
		l.emit(TokenInvalid, l.pos+1)
	}
}

func (l *lexer) endStatement() {
	l.stack = l.stack[:0]
	l.role = roleName
	if l.embedded {
		l.statement = false
	}
}

func (l *lexer) top() byte {
	if len(l.stack) == 0 {
		return 0
	}
	return l.stack[len(l.stack)-1]
}

// skip returns the first offset at or after i whose byte fails pred.
func (l *lexer) skip(i int, pred func(byte) bool) int {
	for i < len(l.src) && pred(l.src[i]) {
		i++
	}
	return i
}

func opener(closer byte) byte {
	switch closer {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}
