package atrium

import "fmt"

// frameState is the position of a frame in the block grammar.
type frameState int

const (
	stateBlockSearch    frameState = iota // depth 0, document mode: looking for a block name.
	stateBlockName                        // accumulating the block name.
	stateAttribute                        // inside (...), expecting a value or ')'.
	stateBeforeBody                       // after the header, expecting ';' or '{'.
	statePropertySearch                   // inside {...}, expecting a key or '}'.
	statePropertyKey                      // accumulating a key.
	stateValueStart                       // expecting a value or an array element.
	stateWriteValue                       // a value has completed.
)

func (s frameState) String() string {
	switch s {
	case stateBlockSearch:
		return "block search"
	case stateBlockName:
		return "block name"
	case stateAttribute:
		return "attribute"
	case stateBeforeBody:
		return "before body"
	case statePropertySearch:
		return "property search"
	case statePropertyKey:
		return "property key"
	case stateValueStart:
		return "value start"
	case stateWriteValue:
		return "write value"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type scanMode int

const (
	scanNone scanMode = iota
	scanQuoted
	scanBare
)

// valueTarget says where a completed value goes.
type valueTarget int

const (
	targetProperty valueTarget = iota
	targetAttribute
)

// frame is the parsing state of one nesting level. Frames are owned by the
// parseContext and reused by depth: frames[1] always parses depth 1.
type frame struct {
	parent *frame
	depth  int

	state  frameState
	inBody bool       // the '{' of this block has been consumed.
	block  Block      // scratch block, detached on close.

	// Token being scanned.
	scan   scanMode
	quote  byte
	start  int
	length int
	broken bool // whitespace seen inside a name or key.

	target    valueTarget
	key       string      // property receiving values.
	needValue bool        // a ',' was consumed; a value must follow.

	// A completed value not yet committed. Bare text is kept so that a
	// following '{' or '(' can turn it into a nested block name.
	pending     Value
	hasPending  bool
	pendingBare string
	afterBlock  bool // the last committed value was a nested block.

	inArray   bool
	arrayName string
	named     bool
	array     []Value
}

func (f *frame) reset() {
	f.state = stateBlockSearch
	f.inBody = false
	f.block.reset()
	f.scan = scanNone
	f.quote = 0
	f.start, f.length = 0, 0
	f.broken = false
	f.target = targetProperty
	f.key = ""
	f.needValue = false
	f.pending = Value{}
	f.hasPending = false
	f.pendingBare = ""
	f.afterBlock = false
	f.inArray = false
	f.arrayName = ""
	f.named = false
	clear(f.array)
	f.array = f.array[:0]
}

// token returns the text of the token being scanned.
func (f *frame) token(src string) string {
	return src[f.start : f.start+f.length]
}

// parseContext owns the input, the cursor, the frame stack and the output
// of a single Parse call. It must not be reused.
type parseContext struct {
	src    string
	pos    int
	opts   *Options
	strict bool

	frames []*frame
	active *frame
	idle   bool // embedded mode: no block is being parsed.
	used   bool

	result *Result
}

func newParseContext(src string, opts *Options) *parseContext {
	c := &parseContext{
		src:    src,
		opts:   opts,
		strict: opts.strict(),
		result: &Result{},
	}

	switch opts.Output {
	case OutputList:
		c.result.Blocks = make([]*Block, 0, 8)
	case OutputTable:
		c.result.Table = NewTable()
	}

	c.active = c.frameAt(0)
	return c
}

// frameAt returns the frame for depth, allocating it on first use.
func (c *parseContext) frameAt(depth int) *frame {
	for len(c.frames) <= depth {
		c.frames = append(c.frames, &frame{depth: len(c.frames)})
	}
	return c.frames[depth]
}

// push enters a nested block named name, starting in st.
func (c *parseContext) push(name string, st frameState) {
	parent := c.active
	f := c.frameAt(parent.depth + 1)
	f.reset()
	f.parent = parent
	f.block.Name = name
	f.state = st
	switch st {
	case stateAttribute:
		f.target = targetAttribute
	case statePropertySearch:
		f.inBody = true
	}
	c.active = f
}

// closeBlock completes the active block. At depth 0 the block is delivered
// to the caller; deeper blocks become the pending value of their parent.
func (c *parseContext) closeBlock(f *frame) {
	b := f.block.detach()

	if f.parent == nil {
		c.deliver(b)
		c.nextBlock()
		return
	}

	parent := f.parent
	f.reset()
	c.active = parent
	parent.pending = BlockValue(b)
	parent.hasPending = true
	parent.pendingBare = ""
	parent.state = stateWriteValue
}

// deliver hands a detached block to the collector and the callback.
func (c *parseContext) deliver(b *Block) {
	switch c.opts.Output {
	case OutputList:
		c.result.Blocks = append(c.result.Blocks, b)
	case OutputTable:
		c.result.Table.Add(b)
	}
	if c.opts.OnBlock != nil {
		c.opts.OnBlock(b)
	}
}

// nextBlock prepares the root frame for the next top-level block.
func (c *parseContext) nextBlock() {
	root := c.frameAt(0)
	root.reset()
	c.active = root

	if c.opts.Embedded {
		c.seekBlock()
		return
	}
	root.state = stateBlockSearch
}

// seekBlock delivers the text up to the next sigil and positions the root
// frame on the block name after it. It reports whether a sigil was found.
func (c *parseContext) seekBlock() bool {
	next := -1
	for i := c.pos; i < len(c.src); i++ {
		if c.src[i] == c.opts.Sigil {
			next = i
			break
		}
	}

	end := next
	if end < 0 {
		end = len(c.src)
	}
	c.text(c.src[c.pos:end])

	// A sigil ending the input starts nothing.
	if next < 0 || next == len(c.src)-1 {
		c.pos = len(c.src)
		c.idle = true
		return false
	}

	root := c.frameAt(0)
	root.reset()
	root.state = stateBlockName
	root.start = next + 1
	c.active = root
	c.pos = next + 1
	c.idle = false
	return true
}

func (c *parseContext) text(s string) {
	if s == "" || c.opts.OnText == nil {
		return
	}
	c.opts.OnText(s)
}

// fail aborts the block being parsed, reports the error and decides where
// parsing resumes.
func (c *parseContext) fail(kind ErrorKind, format string, args ...any) {
	line, col := position(c.src, c.pos)
	err := &SyntaxError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  c.pos,
		Line:    line,
		Column:  col,
	}
	c.result.Errors = append(c.result.Errors, err)
	if c.opts.OnError != nil {
		c.opts.OnError(err)
	}

	open := 0
	for f := c.active; f != nil; f = f.parent {
		if f.inBody {
			open++
		}
	}
	for _, f := range c.frames {
		f.reset()
	}
	c.active = c.frameAt(0)

	switch {
	case c.strict:
		c.pos = len(c.src)
		c.idle = true
	case c.opts.Embedded:
		c.seekBlock()
	default:
		c.resync(open)
	}
}

// resync skips to the end of the statement that failed: the '}' closing the
// outermost open body, or the next top-level ';'.
func (c *parseContext) resync(open int) {
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		switch {
		case isQuoteChar(ch):
			c.pos = c.skipQuoted(c.pos)
			continue
		case ch == '#':
			c.skipComment()
			continue
		case ch == '{':
			open++
		case ch == '}':
			open--
			if open <= 0 {
				c.pos++
				return
			}
		case ch == ';' && open <= 0:
			c.pos++
			return
		}
		c.pos++
	}
}

// skipQuoted returns the offset just past the string opened at i, or the end
// of input if it never closes.
func (c *parseContext) skipQuoted(i int) int {
	quote := c.src[i]
	for j := i + 1; j < len(c.src); j++ {
		if c.src[j] == quote && c.src[j-1] != '\\' {
			return j + 1
		}
	}
	return len(c.src)
}

// skipComment moves the cursor to the line break ending the comment.
func (c *parseContext) skipComment() {
	for c.pos < len(c.src) && c.src[c.pos] != '\n' {
		c.pos++
	}
}
