package atrium

import "fmt"

// TokenType represents the lexical class of a highlighting token.
type TokenType int

const (
	TokenText       TokenType = iota // Free text between blocks (embedded mode).
	TokenSigil                       // Block initiator (embedded mode).
	TokenBlockName                   // Top-level block name.
	TokenKey                         // Property key, or the name of a nested block.
	TokenString                      // Quoted string, quotes included.
	TokenNumber                      // Numeric literal.
	TokenBool                        // true or false.
	TokenPlain                       // Any other bare value.
	TokenPunct                       // ( ) { } [ ] : ; ,
	TokenComment                     // '#' up to the end of the line.
	TokenWhitespace                  // Run of spaces, tabs and newlines.
	TokenInvalid                     // Anything the grammar does not allow.
)

var tokenTypeNames = [...]string{
	TokenText:       "text",
	TokenSigil:      "sigil",
	TokenBlockName:  "block",
	TokenKey:        "key",
	TokenString:     "string",
	TokenNumber:     "number",
	TokenBool:       "bool",
	TokenPlain:      "plain",
	TokenPunct:      "punct",
	TokenComment:    "comment",
	TokenWhitespace: "whitespace",
	TokenInvalid:    "invalid",
}

// String returns the lowercase name of the token type.
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// Token is a slice of the source with its lexical class.
type Token struct {
	Type   TokenType
	Value  string // Source text of the token.
	Offset int    // Byte offset of the first byte.
	Len    int    // Length in bytes.
	Line   int    // Line number (1-based).
	Column int    // Column position (0-based, in bytes).
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	switch t.Type {
	case TokenWhitespace:
		return "Whitespace"
	case TokenPunct:
		return t.Value
	case TokenText, TokenString, TokenComment, TokenInvalid:
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	default:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
}
