package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with the given stdin and arguments.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseCmd(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		out, _, err := run(t, "a(1) { k: v; }\nb;", "parse")
		require.NoError(t, err)
		assert.Equal(t, "a(1) {\n    k: \"v\";\n}\n\nb;\n", out)
	})

	t.Run("file", func(t *testing.T) {
		path := writeFile(t, "doc.atrium", "x;")
		out, _, err := run(t, "", "parse", path)
		require.NoError(t, err)
		assert.Equal(t, "x;\n", out)
	})

	t.Run("embedded", func(t *testing.T) {
		out, _, err := run(t, "see @link(\"/a\"); and more", "parse", "-e")
		require.NoError(t, err)
		assert.Equal(t, "link(\"/a\");\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "a(1, x);\nb { k; }", "parse", "--json")
		require.NoError(t, err)

		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0]["name"])
		assert.Equal(t, []any{1.0, "x"}, got[0]["attributes"])
		assert.Equal(t, true, got[0]["call"])
		assert.Equal(t, "b", got[1]["name"])
		assert.NotContains(t, got[1], "call")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, stderr, err := run(t, "a { k v; }", "parse")
		require.Error(t, err)
		assert.Equal(t, "1 syntax error(s)", err.Error())
		assert.Contains(t, stderr, "<stdin>:1:7: space in property keys is not allowed")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "", "parse", filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read file")
	})
}

func TestFmtCmd(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		out, _, err := run(t, "a{k:1;}# gone\nb;", "fmt")
		require.NoError(t, err)
		assert.Equal(t, "a {\n    k: 1;\n}\n\nb;\n", out)
	})

	t.Run("write", func(t *testing.T) {
		path := writeFile(t, "doc.atrium", "a ( 'x' ) ;")
		out, _, err := run(t, "", "fmt", "-w", path)
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a(\"x\");\n", string(data))
	})

	t.Run("write needs a file", func(t *testing.T) {
		_, _, err := run(t, "a;", "fmt", "-w")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "-w requires a file argument")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, _, err := run(t, "a {", "fmt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "<stdin>: atrium:")
	})
}

func TestTokensCmd(t *testing.T) {
	out, _, err := run(t, "a;", "tokens")
	require.NoError(t, err)
	assert.Equal(t, "1:1\tblock\t\"a\"\n1:2\tpunct\t\";\"\n", out)

	out, _, err = run(t, "a ;", "tokens", "--whitespace")
	require.NoError(t, err)
	assert.Contains(t, out, "1:2\twhitespace\t\" \"\n")
}

func TestHighlightCmd(t *testing.T) {
	input := "# c\nserver(\"a\", 1) { on: true; }\n"
	out, _, err := run(t, input, "highlight", "--no-color")
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestMergeCmd(t *testing.T) {
	base := writeFile(t, "base.atrium", "listen(80);\nroot(\"/srv\");")
	overlay := writeFile(t, "overlay.atrium", "listen(8080);")

	out, _, err := run(t, "", "merge", base, overlay)
	require.NoError(t, err)
	assert.Equal(t, "listen(80);\n\nlisten(8080);\n\nroot(\"/srv\");\n", out)

	_, _, err = run(t, "", "merge", base)
	assert.Error(t, err)
}
