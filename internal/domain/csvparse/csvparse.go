// Package csvparse turns published spreadsheet CSV text into rows of fields.
//
// The parser is deliberately lenient: spreadsheet exports are noisy and a
// malformed row must never abort a report. An unterminated quote is not an
// error; everything after it up to the end of the text becomes literal
// content of the current field.
package csvparse

import (
	"fmt"
	"io"
	"strings"
)

const (
	separator = ','
	quote     = '"'
	bom       = "\ufeff"
)

// Option configures a Parse call.
type Option func(*options)

type options struct {
	header bool
}

// WithHeader drops the first non-blank row when skip is true.
func WithHeader(skip bool) Option {
	return func(o *options) {
		o.header = skip
	}
}

// Parse splits text into rows, one per non-blank record.
//
// Fields are separated by commas and records by "\n" or "\r\n". A field
// wrapped in double quotes may contain commas and newlines; inside quotes
// a doubled quote is a literal quote. Whitespace outside quotes around a
// field is trimmed.
func Parse(text string, opts ...Option) [][]string {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p := &parser{}
	p.run(strings.TrimPrefix(text, bom))

	rows := p.rows
	if o.header && len(rows) > 0 {
		rows = rows[1:]
	}
	return rows
}

// ParseReader reads r to the end and parses it like Parse.
func ParseReader(r io.Reader, opts ...Option) ([][]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csvparse: read input: %w", err)
	}
	return Parse(string(b), opts...), nil
}

type parser struct {
	rows [][]string

	row   []string
	field []byte

	inQuotes bool
	// keep is the length of field that survives right-trimming: everything
	// up to the last quoted byte or non-space byte outside quotes.
	keep int
	// content is set once the current record has anything but whitespace.
	content bool
}

func (p *parser) run(text string) {
	for i := 0; i < len(text); i++ {
		c := text[i]

		if p.inQuotes {
			if c == quote {
				if i+1 < len(text) && text[i+1] == quote {
					p.appendKept(quote)
					i++
					continue
				}
				p.inQuotes = false
				continue
			}
			p.appendKept(c)
			continue
		}

		switch {
		case c == quote:
			p.inQuotes = true
			p.content = true
		case c == separator:
			p.content = true
			p.endField()
		case c == '\n':
			p.endRecord()
		case c == '\r' && i+1 < len(text) && text[i+1] == '\n':
			p.endRecord()
			i++
		case isSpace(c):
			if len(p.field) > 0 {
				p.field = append(p.field, c)
			}
		default:
			p.content = true
			p.appendKept(c)
		}
	}

	// An open quote at end of text keeps its content as literal.
	p.endRecord()
}

func (p *parser) appendKept(c byte) {
	p.field = append(p.field, c)
	p.keep = len(p.field)
}

func (p *parser) endField() {
	p.row = append(p.row, string(p.field[:p.keep]))
	p.field = p.field[:0]
	p.keep = 0
}

func (p *parser) endRecord() {
	p.endField()
	if p.content {
		p.rows = append(p.rows, p.row)
	}
	p.row = nil
	p.content = false
	p.inQuotes = false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}
