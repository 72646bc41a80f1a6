package atrium

// Block is a named unit with positional attributes and keyed properties.
type Block struct {
	// Name is the block identifier. It is empty only for anonymous nested
	// blocks (key: { ... }).
	Name string

	// Attributes holds the values of the parenthesized header, in source order.
	Attributes []Value

	// Properties holds the body entries in insertion order.
	Properties Properties

	// IsCall is set when the header was terminated by ';' with no body.
	IsCall bool

	// IsShadow marks the empty sentinel returned by lookups that found
	// nothing. Getters on a shadow block always return their defaults.
	IsShadow bool
}

// NewBlock returns an empty block with the given name.
func NewBlock(name string, attributes ...Value) *Block {
	return &Block{Name: name, Attributes: attributes}
}

// Shadow returns a shadow block for name.
func Shadow(name string) *Block {
	return &Block{Name: name, IsShadow: true}
}

// Clone returns a deep copy of b.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}

	return &Block{
		Name:       b.Name,
		Attributes: cloneValues(b.Attributes),
		Properties: b.Properties.clone(),
		IsCall:     b.IsCall,
		IsShadow:   b.IsShadow,
	}
}

// Equal reports whether b and o have the same name, attributes and
// properties. IsCall is syntax, not data, and is not compared.
func (b *Block) Equal(o *Block) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Name != o.Name || b.IsShadow != o.IsShadow || len(b.Attributes) != len(o.Attributes) {
		return false
	}
	for i := range b.Attributes {
		if !b.Attributes[i].Equal(o.Attributes[i]) {
			return false
		}
	}
	return b.Properties.Equal(&o.Properties)
}

// Map converts the properties of b to plain Go data. A key with a single
// value maps to that value; a repeated key maps to a []any.
func (b *Block) Map() map[string]any {
	if b == nil {
		return nil
	}

	out := make(map[string]any, b.Properties.Len())
	for _, p := range b.Properties.entries {
		if len(p.Values) == 1 {
			out[p.Key] = p.Values[0].Interface()
			continue
		}
		list := make([]any, len(p.Values))
		for i, v := range p.Values {
			list[i] = v.Interface()
		}
		out[p.Key] = list
	}
	return out
}

// reset empties b for reuse by the parser, keeping allocated capacity.
func (b *Block) reset() {
	b.Name = ""
	b.Attributes = b.Attributes[:0]
	b.Properties.reset()
	b.IsCall = false
	b.IsShadow = false
}

// detach copies the scratch-owned buffers of b into a new Block. Nested
// block values are already detached and are shared, not copied.
func (b *Block) detach() *Block {
	out := &Block{
		Name:   b.Name,
		IsCall: b.IsCall,
	}
	if len(b.Attributes) > 0 {
		out.Attributes = append([]Value(nil), b.Attributes...)
	}
	out.Properties = b.Properties.detach()
	return out
}

// Property is one key of a block body with the values assigned to it.
type Property struct {
	Key    string
	Values []Value
}

// Properties is an insertion-ordered map from key to values. Assigning to an
// existing key appends rather than overwrites. The zero value is empty and
// ready to use.
type Properties struct {
	entries []Property
	index   map[string]int
}

// Len returns the number of distinct keys.
func (p *Properties) Len() int {
	return len(p.entries)
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the values assigned to key.
func (p *Properties) Get(key string) ([]Value, bool) {
	i, ok := p.lookup(key)
	if !ok {
		return nil, false
	}
	return p.entries[i].Values, true
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.lookup(key)
	return ok
}

// Add appends values to key, creating it at the end if needed.
func (p *Properties) Add(key string, values ...Value) {
	if i, ok := p.lookup(key); ok {
		p.entries[i].Values = append(p.entries[i].Values, values...)
		return
	}

	if p.index == nil {
		p.index = make(map[string]int, 8)
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, Property{Key: key, Values: append([]Value(nil), values...)})
}

// Set replaces the values of key, keeping its position if it exists.
func (p *Properties) Set(key string, values ...Value) {
	if i, ok := p.lookup(key); ok {
		p.entries[i].Values = append([]Value(nil), values...)
		return
	}
	p.Add(key, values...)
}

// Delete removes key.
func (p *Properties) Delete(key string) {
	i, ok := p.lookup(key)
	if !ok {
		return
	}

	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	delete(p.index, key)
	for j := i; j < len(p.entries); j++ {
		p.index[p.entries[j].Key] = j
	}
}

// Range calls fn for every property in order until fn returns false.
func (p *Properties) Range(fn func(key string, values []Value) bool) {
	for _, e := range p.entries {
		if !fn(e.Key, e.Values) {
			return
		}
	}
}

// Equal reports whether p and o hold the same keys, in the same order, with
// equal values.
func (p *Properties) Equal(o *Properties) bool {
	if len(p.entries) != len(o.entries) {
		return false
	}
	for i, e := range p.entries {
		oe := o.entries[i]
		if e.Key != oe.Key || len(e.Values) != len(oe.Values) {
			return false
		}
		for j := range e.Values {
			if !e.Values[j].Equal(oe.Values[j]) {
				return false
			}
		}
	}
	return true
}

func (p *Properties) lookup(key string) (int, bool) {
	if p.index == nil {
		return 0, false
	}
	i, ok := p.index[key]
	return i, ok
}

func (p *Properties) clone() Properties {
	if len(p.entries) == 0 {
		return Properties{}
	}

	out := Properties{
		entries: make([]Property, len(p.entries)),
		index:   make(map[string]int, len(p.entries)),
	}
	for i, e := range p.entries {
		out.entries[i] = Property{Key: e.Key, Values: cloneValues(e.Values)}
		out.index[e.Key] = i
	}
	return out
}

func (p *Properties) detach() Properties {
	if len(p.entries) == 0 {
		return Properties{}
	}

	out := Properties{
		entries: make([]Property, len(p.entries)),
		index:   make(map[string]int, len(p.entries)),
	}
	for i, e := range p.entries {
		out.entries[i] = Property{Key: e.Key, Values: append([]Value(nil), e.Values...)}
		out.index[e.Key] = i
	}
	return out
}

func (p *Properties) reset() {
	for i := range p.entries {
		p.entries[i] = Property{}
	}
	p.entries = p.entries[:0]
	clear(p.index)
}
