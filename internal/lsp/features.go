package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	atrium "github.com/atrium-lang/go-atrium"
)

// tokenLegend lists the semantic token types in the order their indices are
// reported.
var tokenLegend = []string{
	string(protocol.SemanticTokenTypeClass),
	string(protocol.SemanticTokenTypeProperty),
	string(protocol.SemanticTokenTypeString),
	string(protocol.SemanticTokenTypeNumber),
	string(protocol.SemanticTokenTypeKeyword),
	string(protocol.SemanticTokenTypeEnumMember),
	string(protocol.SemanticTokenTypeComment),
	string(protocol.SemanticTokenTypeOperator),
}

// legendIndex maps a token type to its legend index, or -1 for tokens that
// are not highlighted.
func legendIndex(t atrium.TokenType) int {
	switch t {
	case atrium.TokenBlockName:
		return 0
	case atrium.TokenKey:
		return 1
	case atrium.TokenString:
		return 2
	case atrium.TokenNumber:
		return 3
	case atrium.TokenBool:
		return 4
	case atrium.TokenPlain:
		return 5
	case atrium.TokenComment:
		return 6
	case atrium.TokenSigil:
		return 7
	default:
		return -1
	}
}

const diagnosticSource = "atrium"

// Diagnostics parses text without stopping at the first error and returns
// one diagnostic per syntax error.
func Diagnostics(text string, embedded bool) []protocol.Diagnostic {
	opts := []atrium.Option{atrium.WithStrict(false)}
	if embedded {
		opts = append(opts, atrium.WithEmbedded())
	}
	res := atrium.Parse(text, opts...)

	diagnostics := make([]protocol.Diagnostic, 0, len(res.Errors))
	for _, e := range res.Errors {
		severity := protocol.DiagnosticSeverityError
		source := diagnosticSource
		start := protocol.Position{
			Line:      protocol.UInteger(e.Line - 1),
			Character: protocol.UInteger(utf16Len(text[e.Offset-e.Column : e.Offset])),
		}
		end := start
		if e.Offset < len(text) && text[e.Offset] != '\n' {
			r, _ := utf8.DecodeRuneInString(text[e.Offset:])
			end.Character += protocol.UInteger(utf16.RuneLen(r))
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: &severity,
			Source:   &source,
			Message:  e.Message,
		})
	}
	return diagnostics
}

// SemanticTokens returns the relative-encoded semantic token data for text.
// Tokens spanning several lines are split at line breaks.
func SemanticTokens(text string, embedded bool) []protocol.UInteger {
	var data []protocol.UInteger
	prevLine, prevChar := 0, 0

	for _, tok := range atrium.Tokenize(text, embedded) {
		idx := legendIndex(tok.Type)
		if idx < 0 {
			continue
		}

		line, char := tok.Line-1, utf16Len(text[tok.Offset-tok.Column:tok.Offset])
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				line++
				char = 0
			}
			if part == "" {
				continue
			}

			deltaChar := char
			if line == prevLine {
				deltaChar = char - prevChar
			}
			data = append(data,
				protocol.UInteger(line-prevLine),
				protocol.UInteger(deltaChar),
				protocol.UInteger(utf16Len(part)),
				protocol.UInteger(idx),
				0,
			)
			prevLine, prevChar = line, char
		}
	}
	return data
}

// Format returns a single edit replacing the whole of text with its
// canonical serialization. Documents with syntax errors are not formatted.
func Format(text string) ([]protocol.TextEdit, error) {
	cfg, err := atrium.ParseConfig(text)
	if err != nil {
		return nil, err
	}

	out, err := cfg.Marshal()
	if err != nil {
		return nil, err
	}

	formatted := string(out)
	if formatted == text {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range:   protocol.Range{Start: protocol.Position{}, End: endPosition(text)},
		NewText: formatted,
	}}, nil
}

// Symbols returns one symbol per top-level block, with a child for every
// key of its body.
func Symbols(text string, embedded bool) []protocol.DocumentSymbol {
	var (
		symbols []protocol.DocumentSymbol
		current *protocol.DocumentSymbol
		depth   int
	)

	finish := func(tok atrium.Token) {
		current.Range.End = tokenEnd(text, tok)
		symbols = append(symbols, *current)
		current = nil
		depth = 0
	}

	for _, tok := range atrium.Tokenize(text, embedded) {
		switch tok.Type {
		case atrium.TokenBlockName:
			if current != nil {
				symbols = append(symbols, *current)
			}
			r := tokenRange(text, tok)
			current = &protocol.DocumentSymbol{
				Name:           tok.Value,
				Kind:           protocol.SymbolKindStruct,
				Range:          r,
				SelectionRange: r,
			}
			depth = 0
		case atrium.TokenKey:
			if current == nil || depth != 1 {
				continue
			}
			r := tokenRange(text, tok)
			current.Children = append(current.Children, protocol.DocumentSymbol{
				Name:           tok.Value,
				Kind:           protocol.SymbolKindProperty,
				Range:          r,
				SelectionRange: r,
			})
		case atrium.TokenPunct:
			if current == nil {
				continue
			}
			switch tok.Value {
			case "{":
				depth++
			case "}":
				depth--
				if depth == 0 {
					finish(tok)
				}
			case ";":
				if depth == 0 {
					finish(tok)
				}
			}
		}
	}
	if current != nil {
		current.Range.End = endPosition(text)
		symbols = append(symbols, *current)
	}
	return symbols
}

// Positions are in UTF-16 code units, as the protocol requires.

func tokenRange(text string, tok atrium.Token) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      protocol.UInteger(tok.Line - 1),
			Character: protocol.UInteger(utf16Len(text[tok.Offset-tok.Column : tok.Offset])),
		},
		End: tokenEnd(text, tok),
	}
}

// tokenEnd returns the position just past a single-line token.
func tokenEnd(text string, tok atrium.Token) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(tok.Line - 1),
		Character: protocol.UInteger(utf16Len(text[tok.Offset-tok.Column : tok.Offset+tok.Len])),
	}
}

// endPosition returns the position just past the last byte of text.
func endPosition(text string) protocol.Position {
	line := strings.Count(text, "\n")
	last := text
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		last = text[i+1:]
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(utf16Len(last))}
}

// utf16Len returns the length of s in UTF-16 code units. Invalid bytes
// count as one unit each.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
