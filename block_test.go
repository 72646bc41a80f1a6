package atrium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperties(t *testing.T) {
	var p Properties
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Has("a"))

	p.Add("a", Number(1))
	p.Add("b", Bool(true))
	p.Add("a", Number(2), Number(3))
	assert.Equal(t, []string{"a", "b"}, p.Keys())

	values, ok := p.Get("a")
	require.True(t, ok)
	assert.Len(t, values, 3)

	p.Set("a", String("x"))
	values, _ = p.Get("a")
	assert.Len(t, values, 1)
	assert.Equal(t, []string{"a", "b"}, p.Keys())

	p.Set("c", String("y"))
	assert.Equal(t, []string{"a", "b", "c"}, p.Keys())

	p.Delete("a")
	assert.Equal(t, []string{"b", "c"}, p.Keys())
	assert.False(t, p.Has("a"))
	values, ok = p.Get("c")
	require.True(t, ok)
	assert.Equal(t, "y", values[0].String())

	p.Delete("missing")
	assert.Equal(t, 2, p.Len())

	var visited []string
	p.Range(func(key string, _ []Value) bool {
		visited = append(visited, key)
		return false
	})
	assert.Equal(t, []string{"b"}, visited)
}

func TestBlockClone(t *testing.T) {
	nested := NewBlock("n")
	nested.Properties.Add("x", Number(1))

	b := NewBlock("a", String("attr"))
	b.Properties.Add("k", Array(Number(1)), BlockValue(nested))

	c := b.Clone()
	require.True(t, b.Equal(c))

	c.Attributes[0] = String("changed")
	c.Properties.Add("k", Number(2))
	inner, _ := c.Value("k", Value{}).AsBlock()
	assert.Nil(t, inner)

	values := c.Values("k")
	cloned, _ := values[1].AsBlock()
	cloned.Properties.Add("y", Number(2))

	assert.Equal(t, "attr", b.AttrText(0, ""))
	assert.Len(t, b.Values("k"), 2)
	assert.False(t, nested.Has("y"))
}

func TestBlockEqual(t *testing.T) {
	a := NewBlock("a", Number(1))
	b := NewBlock("a", Number(1))
	b.IsCall = true
	assert.True(t, a.Equal(b))

	assert.False(t, a.Equal(NewBlock("b", Number(1))))
	assert.False(t, a.Equal(NewBlock("a", Number(2))))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Block)(nil).Equal(nil))

	b.Properties.Add("k", Bool(true))
	assert.False(t, a.Equal(b))
}

func TestTable(t *testing.T) {
	tbl := NewTable()
	tbl.Add(NewBlock("a", Number(1)))
	tbl.Add(NewBlock("b"))
	tbl.Add(NewBlock("a", Number(2)))

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
	assert.Len(t, tbl.Get("a"), 2)
	assert.True(t, tbl.Has("b"))
	assert.False(t, tbl.Has("c"))
	assert.Nil(t, tbl.Get("c"))

	c := tbl.Clone()
	assert.True(t, tbl.Equal(c))
	c.Get("a")[0].Attributes[0] = Number(9)
	assert.False(t, tbl.Equal(c))
	assert.Equal(t, "1", tbl.Get("a")[0].AttrText(0, ""))

	tbl.Set("c", nil)
	assert.True(t, tbl.Has("c"))
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names())

	tbl.Delete("a")
	assert.Equal(t, []string{"b", "c"}, tbl.Names())
	assert.False(t, tbl.Has("a"))

	var zero Table
	zero.Add(NewBlock("z"))
	assert.Equal(t, []string{"z"}, zero.Names())
}
