package atrium

// Table is a name-keyed multimap of blocks. Names are kept in the order they
// were first added so that iteration and serialization are deterministic.
type Table struct {
	names  []string
	blocks map[string][]*Block
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{blocks: make(map[string][]*Block, 8)}
}

// Add appends b to the list stored under b.Name.
func (t *Table) Add(b *Block) {
	if t.blocks == nil {
		t.blocks = make(map[string][]*Block, 8)
	}
	if _, ok := t.blocks[b.Name]; !ok {
		t.names = append(t.names, b.Name)
	}
	t.blocks[b.Name] = append(t.blocks[b.Name], b)
}

// Get returns the blocks stored under name.
func (t *Table) Get(name string) []*Block {
	return t.blocks[name]
}

// Has reports whether name has an entry, even an empty one.
func (t *Table) Has(name string) bool {
	_, ok := t.blocks[name]
	return ok
}

// Set replaces the list stored under name.
func (t *Table) Set(name string, blocks []*Block) {
	if t.blocks == nil {
		t.blocks = make(map[string][]*Block, 8)
	}
	if _, ok := t.blocks[name]; !ok {
		t.names = append(t.names, name)
	}
	t.blocks[name] = blocks
}

// Delete removes name and all its blocks.
func (t *Table) Delete(name string) {
	if _, ok := t.blocks[name]; !ok {
		return
	}
	delete(t.blocks, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
}

// Names returns the block names in first-seen order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Len returns the number of distinct names.
func (t *Table) Len() int {
	return len(t.names)
}

// Range calls fn for every name in order until fn returns false.
func (t *Table) Range(fn func(name string, blocks []*Block) bool) {
	for _, name := range t.names {
		if !fn(name, t.blocks[name]) {
			return
		}
	}
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := NewTable()
	for _, name := range t.names {
		list := make([]*Block, len(t.blocks[name]))
		for i, b := range t.blocks[name] {
			list[i] = b.Clone()
		}
		out.Set(name, list)
	}
	return out
}

// Equal reports whether t and o hold the same names in the same order with
// equal block lists.
func (t *Table) Equal(o *Table) bool {
	if len(t.names) != len(o.names) {
		return false
	}
	for i, name := range t.names {
		if o.names[i] != name {
			return false
		}
		a, b := t.blocks[name], o.blocks[name]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if !a[j].Equal(b[j]) {
				return false
			}
		}
	}
	return true
}
