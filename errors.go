package atrium

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a syntax error.
type ErrorKind int

const (
	// UnexpectedCharacter: the current state has no transition for the character.
	UnexpectedCharacter ErrorKind = iota + 1
	// BrokenIdentifier: whitespace interrupted a block name or property key.
	BrokenIdentifier
	// MalformedHeader: a header was not followed by ';' or '{'.
	MalformedHeader
	// UnexpectedEOF: input ended inside a block.
	UnexpectedEOF
	// UnterminatedString: input ended inside a quoted string.
	UnterminatedString
)

// Sentinel errors matched by SyntaxError.Is.
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrBrokenIdentifier    = errors.New("space in identifier")
	ErrMalformedHeader     = errors.New("malformed block header")
	ErrUnexpectedEOF       = errors.New("unexpected end of input")
	ErrUnterminatedString  = errors.New("unterminated string")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case UnexpectedCharacter:
		return ErrUnexpectedCharacter
	case BrokenIdentifier:
		return ErrBrokenIdentifier
	case MalformedHeader:
		return ErrMalformedHeader
	case UnexpectedEOF:
		return ErrUnexpectedEOF
	case UnterminatedString:
		return ErrUnterminatedString
	default:
		return nil
	}
}

// String returns the sentinel message for k.
func (k ErrorKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// SyntaxError describes a failure to parse a block.
type SyntaxError struct {
	Kind    ErrorKind
	Message string
	Offset  int // 0-based byte offset of the offending character.
	Line    int // 1-based.
	Column  int // 0-based byte column.
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Is makes errors.Is(err, ErrUnexpectedCharacter) and friends work.
func (e *SyntaxError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// position converts a byte offset in src into a 1-based line and 0-based
// column.
func position(src string, offset int) (line, column int) {
	if offset > len(src) {
		offset = len(src)
	}

	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart
}
