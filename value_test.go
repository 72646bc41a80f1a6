package atrium

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	f := func(text string, want Value) {
		t.Helper()
		t.Run(text, func(t *testing.T) {
			got := coerce(text)
			assert.True(t, want.Equal(got), "got %s %q", got.Kind(), got.String())
		})
	}

	f("true", Bool(true))
	f("false", Bool(false))
	f("True", String("True"))
	f("42", Number(42))
	f("3.25", Number(3.25))
	f("0.0", Number(0))
	f("1.2.3", String("1.2.3"))
	f("v1", String("v1"))
	f("/path", String("/path"))
}

func TestValueAccessors(t *testing.T) {
	s, ok := String("x").AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = Number(1).AsString()
	assert.False(t, ok)

	n, ok := Number(2.5).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	nested := NewBlock("n")
	got, ok := BlockValue(nested).AsBlock()
	assert.True(t, ok)
	assert.Same(t, nested, got)

	arr := NamedArray("t", String("a"), Number(1))
	assert.Equal(t, KindNamedArray, arr.Kind())
	assert.Equal(t, "t", arr.Name())
	assert.Len(t, arr.Items(), 2)
	assert.Equal(t, "", Array().Name())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "x", String("x").String())
	assert.Equal(t, "8080", Number(8080).String())
	assert.Equal(t, "0.5", Number(0.5).String())
	assert.Equal(t, "false", Bool(false).String())
	assert.Equal(t, "[1, a]", Array(Number(1), String("a")).String())
	assert.Equal(t, "t[1]", NamedArray("t", Number(1)).String())
	assert.Equal(t, "n", BlockValue(NewBlock("n")).String())
}

func TestValueTruthy(t *testing.T) {
	assert.False(t, Bool(false).Truthy())
	assert.False(t, Number(0).Truthy())
	assert.False(t, String("").Truthy())
	assert.True(t, Bool(true).Truthy())
	assert.True(t, Number(-1).Truthy())
	assert.True(t, String("false").Truthy())
	assert.True(t, Array().Truthy())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, String("1").Equal(String("1")))
	assert.False(t, String("1").Equal(Number(1)))
	assert.False(t, Array(Number(1)).Equal(NamedArray("", Number(1))))
	assert.False(t, NamedArray("a", Number(1)).Equal(NamedArray("b", Number(1))))
	assert.True(t, Array(Number(1), Bool(true)).Equal(Array(Number(1), Bool(true))))

	a := NewBlock("n", Number(1))
	a.Properties.Add("k", String("v"))
	b := a.Clone()
	assert.True(t, BlockValue(a).Equal(BlockValue(b)))
	b.Properties.Add("k", String("w"))
	assert.False(t, BlockValue(a).Equal(BlockValue(b)))
}

func TestValueInterface(t *testing.T) {
	nested := NewBlock("n")
	nested.Properties.Add("x", Number(1))
	nested.Properties.Add("y", String("a"), String("b"))

	assert.Equal(t, "s", String("s").Interface())
	assert.Equal(t, 1.5, Number(1.5).Interface())
	assert.Equal(t, true, Bool(true).Interface())
	assert.Equal(t, []any{1.0, "a"}, Array(Number(1), String("a")).Interface())
	assert.Equal(t, map[string]any{"x": 1.0, "y": []any{"a", "b"}}, BlockValue(nested).Interface())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "named array", KindNamedArray.String())
	assert.Equal(t, "unknown(42)", Kind(42).String())
}
