package atrium

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Marshal returns the block-syntax encoding of t.
//
// Every block of every name is written in table order, separated by a blank
// line. The output parses back to an equal table:
//   - strings are quoted with '"', or with '\'' or '`' when the text holds an
//     unescaped '"'; text no quote can delimit is an error
//   - numbers and booleans are bare
//   - a property holding only true is written as a bare key (key;)
//   - a block without properties ends with ';' instead of an empty body
//   - nested blocks are written recursively, one indent level deeper
func Marshal(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalBlock returns the encoding of a single block.
func MarshalBlock(b *Block) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).EncodeBlock(b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// An Encoder writes block syntax to an output stream.
type Encoder struct {
	w      io.Writer
	indent string
}

// NewEncoder returns a new encoder that writes to w, indenting with four
// spaces.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, indent: "    "}
}

// SetIndent sets the string written once per nesting level.
func (enc *Encoder) SetIndent(indent string) {
	enc.indent = indent
}

// Encode writes every block of t.
func (enc *Encoder) Encode(t *Table) error {
	s := newState(enc.w, enc.indent)
	defer putState(s)

	first := true
	t.Range(func(_ string, blocks []*Block) bool {
		for _, b := range blocks {
			if b == nil {
				continue
			}
			if !first {
				s.write("\n")
			}
			first = false
			s.marshalBlock(b, 0)
			s.write("\n")
		}
		return s.err == nil
	})

	return s.err
}

// EncodeBlock writes b followed by a newline.
func (enc *Encoder) EncodeBlock(b *Block) error {
	s := newState(enc.w, enc.indent)
	defer putState(s)

	s.marshalBlock(b, 0)
	s.write("\n")
	return s.err
}

// state holds the encoding state of one Encode call.
type state struct {
	w      io.Writer
	indent string
	err    error
}

var statePool = sync.Pool{
	New: func() any {
		return new(state)
	},
}

func newState(w io.Writer, indent string) *state {
	s := statePool.Get().(*state)
	s.w = w
	s.indent = indent
	return s
}

func putState(s *state) {
	s.w = nil
	s.err = nil
	statePool.Put(s)
}

// write writes str unless an earlier write failed.
func (s *state) write(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

func (s *state) writeIndent(depth int) {
	s.write(strings.Repeat(s.indent, depth))
}

// marshalBlock writes a top-level block: name, header and body.
func (s *state) marshalBlock(b *Block, depth int) {
	if !isKeyword(b.Name) {
		s.err = fmt.Errorf("atrium: invalid block name %q", b.Name)
		return
	}

	s.write(b.Name)
	if len(b.Attributes) > 0 {
		s.marshalAttributes(b.Attributes)
	}
	s.marshalBody(b, depth)
}

// marshalNested writes a block used as a property value. Inside a body a
// lone name would read as a bare value, so a nested call always keeps its
// parentheses.
func (s *state) marshalNested(b *Block, depth int) {
	if b.Name == "" {
		s.write("{")
		if b.Properties.Len() > 0 {
			s.write("\n")
			s.marshalProperties(b, depth+1)
			s.writeIndent(depth)
		}
		s.write("}")
		return
	}

	if !isKeyword(b.Name) {
		s.err = fmt.Errorf("atrium: invalid block name %q", b.Name)
		return
	}

	s.write(b.Name)
	if len(b.Attributes) > 0 || b.Properties.Len() == 0 {
		s.marshalAttributes(b.Attributes)
	}
	if b.Properties.Len() == 0 {
		return
	}
	s.marshalBody(b, depth)
}

func (s *state) marshalAttributes(attrs []Value) {
	s.write("(")
	for i, v := range attrs {
		if i > 0 {
			s.write(", ")
		}
		if v.kind == KindBlock {
			s.err = fmt.Errorf("atrium: block values are not allowed in attributes")
			return
		}
		s.marshalValue(v, 0)
	}
	s.write(")")
}

// marshalBody writes ";" for an empty block and a braced body otherwise.
func (s *state) marshalBody(b *Block, depth int) {
	if b.Properties.Len() == 0 {
		s.write(";")
		return
	}

	s.write(" {\n")
	s.marshalProperties(b, depth+1)
	s.writeIndent(depth)
	s.write("}")
}

func (s *state) marshalProperties(b *Block, depth int) {
	b.Properties.Range(func(key string, values []Value) bool {
		s.marshalProperty(key, values, depth)
		return s.err == nil
	})
}

func (s *state) marshalProperty(key string, values []Value, depth int) {
	if !isKeyword(key) {
		s.err = fmt.Errorf("atrium: invalid property key %q", key)
		return
	}

	if len(values) == 0 || (len(values) == 1 && values[0].kind == KindBool && values[0].b) {
		s.writeIndent(depth)
		s.write(key)
		s.write(";\n")
		return
	}

	// Blocks named after their key are written as key(...) { ... }, one
	// statement each; repeated statements accumulate on reparse.
	if allNamedBlocks(key, values) {
		for _, v := range values {
			s.writeIndent(depth)
			s.marshalNested(v.block, depth)
			if v.block.Properties.Len() == 0 {
				s.write(";")
			}
			s.write("\n")
		}
		return
	}

	s.writeIndent(depth)
	s.write(key)
	s.write(": ")
	for i, v := range values {
		if i > 0 {
			s.write(", ")
		}
		if v.kind == KindBlock {
			s.marshalNested(v.block, depth)
			continue
		}
		s.marshalValue(v, depth)
	}
	s.write(";\n")
}

func allNamedBlocks(key string, values []Value) bool {
	for _, v := range values {
		if v.kind != KindBlock || v.block == nil || v.block.Name != key {
			return false
		}
	}
	return true
}

// marshalValue writes a scalar or an array.
func (s *state) marshalValue(v Value, depth int) {
	switch v.kind {
	case KindString:
		q, ok := quote(v.str)
		if !ok {
			s.err = fmt.Errorf("atrium: no quote character can delimit %q", v.str)
			return
		}
		s.write(q)
	case KindNumber:
		s.write(formatNumber(v.num))
	case KindBool:
		if v.b {
			s.write("true")
		} else {
			s.write("false")
		}
	case KindArray, KindNamedArray:
		if v.kind == KindNamedArray {
			if !isKeyword(v.str) {
				s.err = fmt.Errorf("atrium: invalid array name %q", v.str)
				return
			}
			s.write(v.str)
		}
		s.write("[")
		for i, item := range v.items {
			if i > 0 {
				s.write(", ")
			}
			switch item.kind {
			case KindArray, KindNamedArray, KindBlock:
				s.err = fmt.Errorf("atrium: arrays may only hold scalar values, got %s", item.kind)
				return
			}
			s.marshalValue(item, depth)
		}
		s.write("]")
	case KindBlock:
		s.marshalNested(v.block, depth)
	default:
		s.err = fmt.Errorf("atrium: unsupported value kind %s", v.kind)
	}
}

// quote wraps str in the first quote character that can delimit it, one
// that only occurs after a backslash inside str. The text is written
// verbatim; nothing is escaped. It reports false when no quote fits, which
// also holds for text ending in a backslash.
func quote(str string) (string, bool) {
	if strings.HasSuffix(str, `\`) {
		return "", false
	}
	for _, q := range []byte{'"', '\'', '`'} {
		if delimits(str, q) {
			return string(q) + str + string(q), true
		}
	}
	return "", false
}

// delimits reports whether every q in str is preceded by a backslash.
func delimits(str string, q byte) bool {
	for i := 0; i < len(str); i++ {
		if str[i] == q && (i == 0 || str[i-1] != '\\') {
			return false
		}
	}
	return true
}
