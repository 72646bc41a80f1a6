// Package atrium parses the Atrium block syntax: named blocks with
// positional attributes and key/value properties, either as a standalone
// configuration document or embedded in free text behind a sigil.
//
//	server("main") {
//	    listen: 8080, 8443;
//	    root: "/srv/www";
//	    gzip;
//	    tls { cert: "a.pem"; key: "a.key"; }
//	}
//
// Parsing is a single forward scan driven by a state machine with one
// reusable frame per nesting level, so nesting depth is not limited by the
// Go call stack. Parse never returns an error: syntax problems are reported
// through the error callback and collected in Result.Errors.
package atrium

import "fmt"

// DefaultSigil introduces a block in embedded mode.
const DefaultSigil = '@'

// OutputMode selects the collector filled by Parse.
type OutputMode int

const (
	// OutputNone collects nothing; blocks are only seen by OnBlock.
	OutputNone OutputMode = iota
	// OutputList collects blocks in source order into Result.Blocks.
	OutputList
	// OutputTable collects blocks by name into Result.Table.
	OutputTable
)

// Options configures a parse.
type Options struct {
	// Embedded treats the input as free text with blocks introduced by Sigil.
	Embedded bool

	// Sigil is the block initiator in embedded mode. Zero means DefaultSigil.
	Sigil byte

	// Strict stops the whole parse at the first error. When nil it defaults
	// to true in document mode and false in embedded mode.
	Strict *bool

	// Output selects the collector.
	Output OutputMode

	// OnBlock is called for every completed top-level block.
	OnBlock func(b *Block)

	// OnText is called, in embedded mode only, with the text between blocks.
	OnText func(text string)

	// OnError is called for every syntax error.
	OnError func(err *SyntaxError)
}

func (o *Options) strict() bool {
	if o.Strict != nil {
		return *o.Strict
	}
	return !o.Embedded
}

// Option configures Options.
type Option func(*Options)

// WithEmbedded enables embedded (template) mode.
func WithEmbedded() Option {
	return func(o *Options) {
		o.Embedded = true
	}
}

// WithSigil sets the embedded-mode block initiator.
func WithSigil(sigil byte) Option {
	return func(o *Options) {
		o.Sigil = sigil
	}
}

// WithStrict forces strict mode on or off.
func WithStrict(strict bool) Option {
	return func(o *Options) {
		o.Strict = &strict
	}
}

// AsList collects blocks into Result.Blocks.
func AsList() Option {
	return func(o *Options) {
		o.Output = OutputList
	}
}

// AsTable collects blocks into Result.Table.
func AsTable() Option {
	return func(o *Options) {
		o.Output = OutputTable
	}
}

// OnBlock sets the per-block callback.
func OnBlock(fn func(b *Block)) Option {
	return func(o *Options) {
		o.OnBlock = fn
	}
}

// OnText sets the embedded-mode text callback.
func OnText(fn func(text string)) Option {
	return func(o *Options) {
		o.OnText = fn
	}
}

// OnError sets the error callback.
func OnError(fn func(err *SyntaxError)) Option {
	return func(o *Options) {
		o.OnError = fn
	}
}

// Result is the output of Parse. Blocks or Table is set depending on the
// output mode; Errors lists every reported syntax error.
type Result struct {
	Blocks []*Block
	Table  *Table
	Errors []*SyntaxError
}

// Err returns the first syntax error, or nil.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Parse parses text. It always returns whatever was collected, even after
// errors.
func Parse(text string, opts ...Option) *Result {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return ParseWithOptions(text, o)
}

// ParseWithOptions is Parse with an explicit Options value.
func ParseWithOptions(text string, o Options) *Result {
	if o.Sigil == 0 {
		o.Sigil = DefaultSigil
	}
	return newParseContext(text, &o).run()
}

// ParseConfig parses a strict document into a Config. The first syntax
// error is returned as the error.
func ParseConfig(text string, opts ...Option) (*Config, error) {
	o := Options{Output: OutputTable}
	for _, opt := range opts {
		opt(&o)
	}
	o.Output = OutputTable

	res := ParseWithOptions(text, o)
	if err := res.Err(); err != nil {
		return NewConfig(res.Table), fmt.Errorf("atrium: %w", err)
	}
	return NewConfig(res.Table), nil
}
