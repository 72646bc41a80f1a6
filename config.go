package atrium

// Config is a convenience view over a parsed lookup table.
type Config struct {
	table *Table
}

// NewConfig wraps t. A nil table is treated as empty.
func NewConfig(t *Table) *Config {
	if t == nil {
		t = NewTable()
	}
	return &Config{table: t}
}

// Table returns the underlying table.
func (c *Config) Table() *Table {
	return c.table
}

// Has reports whether at least one block is named name.
func (c *Config) Has(name string) bool {
	return len(c.table.Get(name)) > 0
}

// Block returns the first block named name, or a shadow block.
func (c *Config) Block(name string) *Block {
	list := c.table.Get(name)
	if len(list) == 0 {
		return Shadow(name)
	}
	return list[0]
}

// Blocks returns every block named name.
func (c *Config) Blocks(name string) []*Block {
	return c.table.Get(name)
}

// Iteration controls a ForEach loop.
type Iteration struct {
	Index   int
	remove  bool
	stopped bool
}

// Remove deletes the current block from the table once the loop ends.
func (it *Iteration) Remove() {
	it.remove = true
}

// Stop ends the loop after the current callback returns.
func (it *Iteration) Stop() {
	it.stopped = true
}

// ForEach calls fn for every block named name. Blocks marked with
// Iteration.Remove are dropped from the table afterwards.
func (c *Config) ForEach(name string, fn func(b *Block, it *Iteration)) {
	list := c.table.Get(name)
	if len(list) == 0 {
		return
	}

	var removed map[int]bool
	for i, b := range list {
		if b == nil || b.Name != name {
			continue
		}

		it := Iteration{Index: i}
		fn(b, &it)
		if it.remove {
			if removed == nil {
				removed = make(map[int]bool)
			}
			removed[i] = true
		}
		if it.stopped {
			break
		}
	}

	if len(removed) == 0 {
		return
	}
	kept := make([]*Block, 0, len(list)-len(removed))
	for i, b := range list {
		if !removed[i] {
			kept = append(kept, b)
		}
	}
	c.table.Set(name, kept)
}

// Add appends a new block to the table and returns it.
func (c *Config) Add(name string, attributes []Value, properties ...Property) *Block {
	b := NewBlock(name, attributes...)
	for _, p := range properties {
		b.Properties.Add(p.Key, p.Values...)
	}
	c.table.Add(b)
	return b
}

// ValueOf returns the first attribute of the first block named name as
// text, or "".
func (c *Config) ValueOf(name string) string {
	return c.Block(name).AttrText(0, "")
}

// Merge folds other into c, base first, and returns c.
func (c *Config) Merge(other *Config) *Config {
	c.table = Merge(other.table, c.table)
	return c
}

// Marshal serializes the table.
func (c *Config) Marshal() ([]byte, error) {
	return Marshal(c.table)
}

// String serializes the table. It returns "" when the table holds a block
// that cannot be written, such as one with an invalid name; use Marshal to
// get the error.
func (c *Config) String() string {
	out, err := c.Marshal()
	if err != nil {
		return ""
	}
	return string(out)
}

// Value returns the first value of key, or def.
func (b *Block) Value(key string, def Value) Value {
	if b.IsShadow {
		return def
	}
	values, ok := b.Properties.Get(key)
	if !ok || len(values) == 0 {
		return def
	}
	return values[0]
}

// Values returns every value of key, or nil.
func (b *Block) Values(key string) []Value {
	if b.IsShadow {
		return nil
	}
	values, _ := b.Properties.Get(key)
	return values
}

// Has reports whether key is set.
func (b *Block) Has(key string) bool {
	return !b.IsShadow && b.Properties.Has(key)
}

// Bool returns the truthiness of the first value of key, or def.
func (b *Block) Bool(key string, def bool) bool {
	return Get(b, key, func(vs []Value) bool { return vs[0].Truthy() }, def)
}

// Text returns the first value of key as text, or def.
func (b *Block) Text(key, def string) string {
	return Get(b, key, func(vs []Value) string { return vs[0].String() }, def)
}

// Number returns the first value of key if it is numeric, or def.
func (b *Block) Number(key string, def float64) float64 {
	return Get(b, key, func(vs []Value) float64 {
		if f, ok := vs[0].AsNumber(); ok {
			return f
		}
		return def
	}, def)
}

// Attr returns attribute i, if present.
func (b *Block) Attr(i int) (Value, bool) {
	if b.IsShadow || i < 0 || i >= len(b.Attributes) {
		return Value{}, false
	}
	return b.Attributes[i], true
}

// AttrText returns attribute i as text, or def.
func (b *Block) AttrText(i int, def string) string {
	v, ok := b.Attr(i)
	if !ok {
		return def
	}
	return v.String()
}

// Get reads key through coerce, which receives the non-empty value list.
// def is returned for a shadow block or a missing key.
func Get[T any](b *Block, key string, coerce func([]Value) T, def T) T {
	if b == nil || b.IsShadow {
		return def
	}
	values, ok := b.Properties.Get(key)
	if !ok || len(values) == 0 {
		return def
	}
	return coerce(values)
}
