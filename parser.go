package atrium

// run drives the state machine from the first to the last byte of input.
func (c *parseContext) run() *Result {
	if c.used {
		panic("atrium: parse context reused")
	}
	c.used = true

	if c.opts.Embedded {
		c.seekBlock()
	} else {
		c.active.state = stateBlockSearch
	}

	for c.pos < len(c.src) {
		c.step()
	}
	c.finish()

	return c.result
}

// step consumes at most one byte. Transitions that hand the current byte to
// another state return without advancing the cursor.
func (c *parseContext) step() {
	f := c.active
	ch := c.src[c.pos]

	switch f.scan {
	case scanQuoted:
		c.scanQuoted(f)
		return
	case scanBare:
		if isValueChar(ch) {
			f.length++
			c.pos++
			return
		}
		c.endBare(f, ch)
		return
	}

	if isWhitespace(ch) || ch == '#' {
		if f.state == stateBlockName || f.state == statePropertyKey {
			f.broken = true
		}
		if ch == '#' {
			c.skipComment()
			return
		}
		c.pos++
		return
	}

	switch f.state {
	case stateBlockSearch:
		c.blockSearch(f, ch)
	case stateBlockName:
		c.blockName(f, ch)
	case stateAttribute:
		c.attribute(f, ch)
	case stateBeforeBody:
		c.beforeBody(f, ch)
	case statePropertySearch:
		c.propertySearch(f, ch)
	case statePropertyKey:
		c.propertyKey(f, ch)
	case stateValueStart:
		c.valueStart(f, ch)
	case stateWriteValue:
		c.writeValue(f, ch)
	}
}

func (c *parseContext) blockSearch(f *frame, ch byte) {
	if !isKeywordChar(ch) {
		c.fail(UnexpectedCharacter, "unexpected character %q", ch)
		return
	}

	f.state = stateBlockName
	f.start = c.pos
	f.length = 1
	c.pos++
}

func (c *parseContext) blockName(f *frame, ch byte) {
	if isKeywordChar(ch) {
		if f.broken {
			c.fail(BrokenIdentifier, "space in keyword names is not allowed")
			return
		}
		if f.length == 0 {
			f.start = c.pos
		}
		f.length++
		c.pos++
		return
	}

	if ch != '(' && ch != '{' && ch != ';' {
		c.fail(UnexpectedCharacter, "unexpected character %q in block name", ch)
		return
	}
	if f.length == 0 {
		c.fail(MalformedHeader, "missing block name before %q", ch)
		return
	}

	f.block.Name = f.token(c.src)
	c.pos++

	switch ch {
	case '(':
		f.state = stateAttribute
		f.target = targetAttribute
	case '{':
		f.state = statePropertySearch
		f.inBody = true
	case ';':
		f.block.IsCall = true
		c.closeBlock(f)
	}
}

func (c *parseContext) attribute(f *frame, ch byte) {
	switch {
	case ch == ')':
		if f.needValue {
			c.fail(UnexpectedCharacter, "expected attribute value after ','")
			return
		}
		c.pos++
		f.state = stateBeforeBody
	case isQuoteChar(ch):
		c.startQuoted(f, ch)
	case isValueChar(ch):
		c.startBare(f)
	case ch == '[':
		c.startArray(f, "", false)
	default:
		c.fail(UnexpectedCharacter, "unexpected character %q in block header", ch)
	}
}

func (c *parseContext) beforeBody(f *frame, ch byte) {
	switch ch {
	case '{':
		c.pos++
		f.state = statePropertySearch
		f.inBody = true
	case ';':
		f.block.IsCall = true
		if f.parent == nil {
			c.pos++
		}
		c.closeBlock(f)
	case '}', ',':
		if f.parent == nil {
			c.fail(MalformedHeader, "expected ';' or '{' after block header, got %q", ch)
			return
		}
		f.block.IsCall = true
		c.closeBlock(f)
	default:
		c.fail(MalformedHeader, "expected ';' or '{' after block header, got %q", ch)
	}
}

func (c *parseContext) propertySearch(f *frame, ch byte) {
	if ch == '}' {
		c.pos++
		c.closeBlock(f)
		return
	}

	if !isKeywordChar(ch) {
		c.fail(UnexpectedCharacter, "unexpected character %q, expected property key", ch)
		return
	}
	c.startKey(f)
}

func (c *parseContext) propertyKey(f *frame, ch byte) {
	if isKeywordChar(ch) {
		if f.broken {
			c.fail(BrokenIdentifier, "space in property keys is not allowed")
			return
		}
		f.length++
		c.pos++
		return
	}

	key := f.token(c.src)
	f.target = targetProperty

	switch ch {
	case ':':
		c.pos++
		f.key = key
		f.state = stateValueStart
		f.needValue = true
	case ';':
		c.pos++
		f.block.Properties.Add(key, Bool(true))
		f.state = statePropertySearch
	case '}':
		c.pos++
		f.block.Properties.Add(key, Bool(true))
		c.closeBlock(f)
	case '{':
		c.pos++
		f.key = key
		c.push(key, statePropertySearch)
	case '(':
		c.pos++
		f.key = key
		c.push(key, stateAttribute)
	default:
		c.fail(UnexpectedCharacter, "unexpected character %q after property key %q", ch, key)
	}
}

func (c *parseContext) valueStart(f *frame, ch byte) {
	switch {
	case isQuoteChar(ch):
		c.startQuoted(f, ch)
	case isValueChar(ch):
		c.startBare(f)
	case ch == '[':
		if f.inArray {
			c.fail(UnexpectedCharacter, "nested arrays are not supported")
			return
		}
		c.startArray(f, "", false)
	case ch == ']' && f.inArray && !f.needValue:
		c.pos++
		c.endArray(f)
	case ch == '{' && !f.inArray && f.target == targetProperty:
		c.pos++
		c.push("", statePropertySearch)
	default:
		c.fail(UnexpectedCharacter, "unexpected character %q, expected value", ch)
	}
}

func (c *parseContext) writeValue(f *frame, ch byte) {
	if f.inArray {
		switch ch {
		case ',':
			c.pos++
			f.state = stateValueStart
			f.needValue = true
		case ']':
			c.pos++
			c.endArray(f)
		default:
			c.fail(UnexpectedCharacter, "unexpected character %q in array", ch)
		}
		return
	}

	// name { ... } and name(...) as a property value.
	if f.pendingBare != "" && f.target == targetProperty && (ch == '{' || ch == '(') {
		name := f.pendingBare
		if !isKeyword(name) {
			c.fail(UnexpectedCharacter, "invalid block name %q", name)
			return
		}
		f.pending, f.hasPending, f.pendingBare = Value{}, false, ""
		c.pos++
		if ch == '{' {
			c.push(name, statePropertySearch)
		} else {
			c.push(name, stateAttribute)
		}
		return
	}

	c.commit(f)

	if f.target == targetAttribute {
		switch ch {
		case ',':
			c.pos++
			f.state = stateAttribute
			f.needValue = true
		case ')':
			c.pos++
			f.state = stateBeforeBody
		default:
			c.fail(UnexpectedCharacter, "unexpected character %q after attribute value", ch)
		}
		return
	}

	switch {
	case ch == ',':
		c.pos++
		f.state = stateValueStart
		f.needValue = true
	case ch == ';':
		c.pos++
		f.state = statePropertySearch
	case ch == '}':
		c.pos++
		c.closeBlock(f)
	case f.afterBlock && isKeywordChar(ch):
		c.startKey(f)
	default:
		c.fail(UnexpectedCharacter, "unexpected character %q after value of %q", ch, f.key)
	}
}

func (c *parseContext) startKey(f *frame) {
	f.state = statePropertyKey
	f.start = c.pos
	f.length = 1
	f.broken = false
	c.pos++
}

func (c *parseContext) startQuoted(f *frame, quote byte) {
	f.scan = scanQuoted
	f.quote = quote
	c.pos++
	f.start = c.pos
}

func (c *parseContext) startBare(f *frame) {
	f.scan = scanBare
	f.start = c.pos
	f.length = 1
	c.pos++
}

func (c *parseContext) startArray(f *frame, name string, named bool) {
	c.pos++
	f.inArray = true
	f.arrayName = name
	f.named = named
	f.array = f.array[:0]
	f.needValue = false
	f.state = stateValueStart
}

// scanQuoted finds the closing delimiter in one pass. A backslash right
// before the delimiter keeps the string open; nothing is unescaped.
func (c *parseContext) scanQuoted(f *frame) {
	for i := c.pos; i < len(c.src); i++ {
		if c.src[i] == f.quote && c.src[i-1] != '\\' {
			f.length = i - f.start
			f.scan = scanNone
			c.pos = i + 1
			c.completeValue(f, String(f.token(c.src)), "")
			return
		}
	}
	c.pos = len(c.src)
}

// endBare finishes a bare token at the first non-value byte ch, which is
// left for the next state.
func (c *parseContext) endBare(f *frame, ch byte) {
	text := f.token(c.src)
	f.scan = scanNone

	if ch == '[' && !f.inArray {
		if !isKeyword(text) {
			c.fail(UnexpectedCharacter, "invalid array name %q", text)
			return
		}
		c.startArray(f, text, true)
		return
	}

	c.completeValue(f, coerce(text), text)
}

// completeValue records a scanned value: array elements are appended
// directly, anything else waits in pending until the next separator.
func (c *parseContext) completeValue(f *frame, v Value, bare string) {
	f.state = stateWriteValue
	f.needValue = false

	if f.inArray {
		f.array = append(f.array, v)
		return
	}

	f.pending = v
	f.hasPending = true
	f.pendingBare = bare
}

func (c *parseContext) endArray(f *frame) {
	var v Value
	if f.named {
		v = NamedArray(f.arrayName, f.array...)
	} else {
		v = Array(f.array...)
	}

	f.inArray = false
	f.named = false
	f.arrayName = ""
	f.array = f.array[:0]
	f.needValue = false

	f.state = stateWriteValue
	f.pending = v
	f.hasPending = true
	f.pendingBare = ""
}

// commit moves the pending value into the scratch block.
func (c *parseContext) commit(f *frame) {
	if !f.hasPending {
		return
	}

	f.afterBlock = f.pending.kind == KindBlock
	if f.target == targetAttribute {
		f.block.Attributes = append(f.block.Attributes, f.pending)
	} else {
		f.block.Properties.Add(f.key, f.pending)
	}
	f.pending, f.hasPending, f.pendingBare = Value{}, false, ""
}

// finish handles the end of input.
func (c *parseContext) finish() {
	if c.idle {
		return
	}

	f := c.active
	switch {
	case f.scan == scanQuoted:
		c.fail(UnterminatedString, "unterminated string, missing closing %q", f.quote)
	case f.parent == nil && f.state == stateBlockSearch:
		// Clean end between blocks.
	case f.parent == nil && f.state == stateBlockName && f.length > 0:
		// A bare name at the end of input is a call with no header.
		f.block.Name = f.token(c.src)
		f.block.IsCall = true
		c.closeBlock(f)
	case f.parent == nil && f.state == stateBeforeBody:
		f.block.IsCall = true
		c.closeBlock(f)
	default:
		c.fail(UnexpectedEOF, "unexpected end of input in %s", f.state)
	}
}
