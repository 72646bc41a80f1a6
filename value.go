package atrium

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindArray
	KindNamedArray
	KindBlock
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindNamedArray:
		return "named array"
	case KindBlock:
		return "block"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single attribute or property value. It is a closed union over
// the kinds listed above; the zero Value is the empty string.
type Value struct {
	kind  Kind
	str   string // String text, or the name of a NamedArray.
	num   float64
	b     bool
	items []Value
	block *Block
}

// String returns a string Value. The text is kept verbatim.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Array returns an unnamed array Value holding a copy of items.
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: append([]Value{}, items...)}
}

// NamedArray returns a named array Value (name[v1, v2]) holding a copy of items.
func NamedArray(name string, items ...Value) Value {
	return Value{kind: KindNamedArray, str: name, items: append([]Value{}, items...)}
}

// BlockValue wraps a nested block.
func BlockValue(b *Block) Value {
	return Value{kind: KindBlock, block: b}
}

// coerce turns the text of a bare token into a Bool, a Number or a String.
func coerce(text string) Value {
	switch text {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	if isNumericLiteral(text) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return Number(f)
		}
	}

	return String(text)
}

// Kind returns the variant of v.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the text of a string Value.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the number held by a numeric Value.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean held by a boolean Value.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsBlock returns the nested block held by a block Value.
func (v Value) AsBlock() (*Block, bool) {
	return v.block, v.kind == KindBlock
}

// Items returns the elements of an array or named array. The slice must not
// be modified.
func (v Value) Items() []Value {
	return v.items
}

// Name returns the name of a named array, or "".
func (v Value) Name() string {
	if v.kind != KindNamedArray {
		return ""
	}
	return v.str
}

// Truthy reports the boolean reading of v: false, 0 and "" are false,
// everything else is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0
	case KindBool:
		return v.b
	case KindArray, KindNamedArray, KindBlock:
		return true
	default:
		return false
	}
}

// Interface converts v to plain Go data: string, float64, bool, []any, or
// map[string]any for blocks.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindArray, KindNamedArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindBlock:
		return v.block.Map()
	default:
		return nil
	}
}

// String renders v for display. Strings are returned verbatim, numbers in
// their shortest decimal form.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindArray, KindNamedArray:
		var sb strings.Builder
		sb.WriteString(v.Name())
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(item.String())
		}
		sb.WriteByte(']')
		return sb.String()
	case KindBlock:
		if v.block == nil {
			return ""
		}
		return v.block.Name
	default:
		return ""
	}
}

// Equal reports whether v and o hold the same data.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindArray, KindNamedArray:
		if v.str != o.str || len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindBlock:
		return v.block.Equal(o.block)
	default:
		return false
	}
}

// clone returns a deep copy of v.
func (v Value) clone() Value {
	switch v.kind {
	case KindArray, KindNamedArray:
		v.items = cloneValues(v.items)
	case KindBlock:
		v.block = v.block.Clone()
	}
	return v
}

func cloneValues(vs []Value) []Value {
	if vs == nil {
		return nil
	}
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = v.clone()
	}
	return out
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
