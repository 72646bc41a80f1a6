package atrium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
server("main") {
    listen: 80, 443;
    root: "/srv/www";
    gzip;
    cache: false;
    workers: 0;
    name: "";
    ratio: 0.75;
}

item(1);
item(2) { keep; }
item(3);
`

func loadTestConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := ParseConfig(testConfig)
	require.NoError(t, err)
	return cfg
}

func TestConfigLookups(t *testing.T) {
	cfg := loadTestConfig(t)

	assert.True(t, cfg.Has("server"))
	assert.False(t, cfg.Has("client"))
	assert.Len(t, cfg.Blocks("item"), 3)
	assert.Equal(t, "main", cfg.ValueOf("server"))
	assert.Equal(t, "1", cfg.ValueOf("item"))
	assert.Equal(t, "", cfg.ValueOf("client"))

	server := cfg.Block("server")
	assert.False(t, server.IsShadow)
	assert.Equal(t, "/srv/www", server.Text("root", ""))
	assert.Equal(t, "80", server.Text("listen", ""))
	assert.Equal(t, 80.0, server.Number("listen", 0))
	assert.Equal(t, 0.75, server.Number("ratio", 0))
	assert.Equal(t, 1.0, server.Number("root", 1))
	assert.Len(t, server.Values("listen"), 2)
	assert.True(t, server.Has("gzip"))
}

func TestConfigBool(t *testing.T) {
	server := loadTestConfig(t).Block("server")

	assert.True(t, server.Bool("gzip", false))
	assert.False(t, server.Bool("cache", true))
	assert.False(t, server.Bool("workers", true))
	assert.False(t, server.Bool("name", true))
	assert.True(t, server.Bool("root", false))
	assert.True(t, server.Bool("missing", true))
	assert.False(t, server.Bool("missing", false))
}

func TestConfigShadow(t *testing.T) {
	cfg := loadTestConfig(t)

	b := cfg.Block("client")
	require.NotNil(t, b)
	assert.True(t, b.IsShadow)
	assert.Equal(t, "client", b.Name)
	assert.Equal(t, "fallback", b.Text("anything", "fallback"))
	assert.Equal(t, 3.0, b.Number("anything", 3))
	assert.True(t, b.Bool("anything", true))
	assert.False(t, b.Has("anything"))
	assert.Nil(t, b.Values("anything"))
	assert.Equal(t, "x", b.AttrText(0, "x"))

	// Shadows are not stored.
	assert.False(t, cfg.Has("client"))
}

func TestConfigGet(t *testing.T) {
	server := loadTestConfig(t).Block("server")

	ports := Get(server, "listen", func(vs []Value) []int {
		out := make([]int, 0, len(vs))
		for _, v := range vs {
			if n, ok := v.AsNumber(); ok {
				out = append(out, int(n))
			}
		}
		return out
	}, nil)
	assert.Equal(t, []int{80, 443}, ports)

	missing := Get(server, "missing", func(vs []Value) int { return len(vs) }, -1)
	assert.Equal(t, -1, missing)

	assert.Equal(t, "d", Get(nil, "k", func([]Value) string { return "x" }, "d"))
}

func TestConfigForEach(t *testing.T) {
	t.Run("visits in order", func(t *testing.T) {
		cfg := loadTestConfig(t)
		var seen []int
		cfg.ForEach("item", func(b *Block, it *Iteration) {
			assert.Equal(t, len(seen), it.Index)
			seen = append(seen, int(b.Attributes[0].num))
		})
		assert.Equal(t, []int{1, 2, 3}, seen)
		assert.Len(t, cfg.Blocks("item"), 3)
	})

	t.Run("remove", func(t *testing.T) {
		cfg := loadTestConfig(t)
		cfg.ForEach("item", func(b *Block, it *Iteration) {
			if !b.Has("keep") {
				it.Remove()
			}
		})
		items := cfg.Blocks("item")
		require.Len(t, items, 1)
		assert.Equal(t, "2", items[0].AttrText(0, ""))
	})

	t.Run("stop", func(t *testing.T) {
		cfg := loadTestConfig(t)
		var visited int
		cfg.ForEach("item", func(b *Block, it *Iteration) {
			visited++
			it.Remove()
			if b.AttrText(0, "") == "2" {
				it.Stop()
			}
		})
		assert.Equal(t, 2, visited)
		items := cfg.Blocks("item")
		require.Len(t, items, 1)
		assert.Equal(t, "3", items[0].AttrText(0, ""))
	})

	t.Run("missing name", func(t *testing.T) {
		cfg := loadTestConfig(t)
		cfg.ForEach("nothing", func(*Block, *Iteration) {
			t.Fatal("callback called")
		})
	})
}

func TestConfigAdd(t *testing.T) {
	cfg := NewConfig(nil)
	b := cfg.Add("route", []Value{String("/")},
		Property{Key: "target", Values: []Value{String("http://backend")}},
		Property{Key: "cache", Values: []Value{Bool(true)}},
	)

	assert.Same(t, b, cfg.Block("route"))
	assert.Equal(t, "/", cfg.ValueOf("route"))
	assert.Equal(t, "route(\"/\") {\n    target: \"http://backend\";\n    cache;\n}\n", cfg.String())

	cfg.Add("route", nil)
	assert.Len(t, cfg.Blocks("route"), 2)
}

func TestConfigMarshal(t *testing.T) {
	cfg := NewConfig(nil)
	cfg.Add("listen", []Value{Number(80)})

	out, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "listen(80);\n", string(out))
	assert.Equal(t, string(out), cfg.String())

	cfg.Add("bad name", nil)
	_, err = cfg.Marshal()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid block name "bad name"`)
	assert.Empty(t, cfg.String())
}
