package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func pos(line, char int) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

func TestDiagnostics(t *testing.T) {
	f := func(name, text string, embedded bool, want ...protocol.Range) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			got := Diagnostics(text, embedded)
			require.Len(t, got, len(want))
			for i, d := range got {
				assert.Equal(t, want[i], d.Range)
				require.NotNil(t, d.Severity)
				assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
				require.NotNil(t, d.Source)
				assert.Equal(t, "atrium", *d.Source)
				assert.NotEmpty(t, d.Message)
			}
		})
	}

	f("clean", "a { k: 1; }", false)
	f("one error", "a { k v; }\nb;", false, protocol.Range{Start: pos(0, 6), End: pos(0, 7)})
	f("keeps going", "a { = }\nb(,);\nc;", false,
		protocol.Range{Start: pos(0, 4), End: pos(0, 5)},
		protocol.Range{Start: pos(1, 2), End: pos(1, 3)})
	f("at end of input", "a { k: 1;", false, protocol.Range{Start: pos(0, 9), End: pos(0, 9)})
	f("embedded", "x @a(= y", true, protocol.Range{Start: pos(0, 5), End: pos(0, 6)})
	f("utf-16 columns", "a { k: \"é\"; x y; }", false, protocol.Range{Start: pos(0, 14), End: pos(0, 15)})
	f("surrogate pair", "a { 😀 }", false, protocol.Range{Start: pos(0, 4), End: pos(0, 6)})
}

func TestSemanticTokens(t *testing.T) {
	f := func(name, text string, want ...protocol.UInteger) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, SemanticTokens(text, false))
		})
	}

	f("empty", "")
	f("single line", "a { k: 1; }",
		0, 0, 1, 0, 0,
		0, 4, 1, 1, 0,
		0, 3, 1, 3, 0)
	f("multi-line string", "a {\n  k: \"x\ny\";\n}",
		0, 0, 1, 0, 0,
		1, 2, 1, 1, 0,
		0, 3, 2, 2, 0,
		1, 0, 2, 2, 0)
	f("utf-16 lengths", "a { k: \"é😀\"; x: 1; }",
		0, 0, 1, 0, 0,
		0, 4, 1, 1, 0,
		0, 3, 5, 2, 0,
		0, 7, 1, 1, 0,
		0, 3, 1, 3, 0)

	assert.Len(t, tokenLegend, 8)
}

func TestFormat(t *testing.T) {
	edits, err := Format("a{k:1;}")
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "a {\n    k: 1;\n}\n", edits[0].NewText)
	assert.Equal(t, protocol.Range{Start: pos(0, 0), End: pos(0, 7)}, edits[0].Range)

	edits, err = Format("a {\n    k: 1;\n}\n")
	require.NoError(t, err)
	assert.Empty(t, edits)

	_, err = Format("a {")
	assert.Error(t, err)
}

func TestSymbols(t *testing.T) {
	text := "server(1) {\n  listen: 80;\n  tls { cert: x; }\n}\nplugin;"
	symbols := Symbols(text, false)
	require.Len(t, symbols, 2)

	server := symbols[0]
	assert.Equal(t, "server", server.Name)
	assert.Equal(t, protocol.SymbolKindStruct, server.Kind)
	assert.Equal(t, protocol.Range{Start: pos(0, 0), End: pos(3, 1)}, server.Range)
	assert.Equal(t, protocol.Range{Start: pos(0, 0), End: pos(0, 6)}, server.SelectionRange)
	require.Len(t, server.Children, 2)
	assert.Equal(t, "listen", server.Children[0].Name)
	assert.Equal(t, "tls", server.Children[1].Name)
	assert.Equal(t, protocol.SymbolKindProperty, server.Children[0].Kind)

	plugin := symbols[1]
	assert.Equal(t, "plugin", plugin.Name)
	assert.Equal(t, protocol.Range{Start: pos(4, 0), End: pos(4, 7)}, plugin.Range)
	assert.Empty(t, plugin.Children)
}

func TestSymbolsUnterminated(t *testing.T) {
	symbols := Symbols("a {\n  k: 1;", false)
	require.Len(t, symbols, 1)
	assert.Equal(t, pos(1, 7), symbols[0].Range.End)
}

func TestSymbolsUTF16(t *testing.T) {
	symbols := Symbols("a { k: \"é\"; x; }", false)
	require.Len(t, symbols, 1)
	assert.Equal(t, pos(0, 16), symbols[0].Range.End)
	require.Len(t, symbols[0].Children, 2)
	assert.Equal(t, protocol.Range{Start: pos(0, 12), End: pos(0, 13)}, symbols[0].Children[1].Range)
}

func TestEndPosition(t *testing.T) {
	assert.Equal(t, pos(0, 0), endPosition(""))
	assert.Equal(t, pos(0, 3), endPosition("abc"))
	assert.Equal(t, pos(2, 0), endPosition("a\nb\n"))
	assert.Equal(t, pos(1, 3), endPosition("a\né😀"))
}
