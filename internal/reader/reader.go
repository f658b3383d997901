// Package reader is a deliberately minimal s-expression reader: enough to
// turn `[$if [$eq x 1] "yes" "no"]` style program text into the
// value.SmileArg trees internal/compiler expects, so the CLI and tests have
// some way to get text in without building the real lexer/macro/syntax-rule
// system the design scopes out (no `#syntax`, no `#loanword`, no custom infix
// operators). It reads:
//
//   - lists:    ( ... )  and  [ ... ]   (interchangeable, closers must match)
//   - pairs:    (a . b)
//   - symbols:  bareword tokens, including leading `$` special forms
//   - strings:  "..." with \n \t \\ \" escapes
//   - numbers:  123, -4, 3.5 (Integer32 or Float64)
//   - booleans: #t #f
//   - null:     ()  or  []
//   - quote:    'x reads as ($quote x)
//   - comments: ; to end of line
package reader

import (
	"fmt"
	"strconv"
	"strings"

	"smile/internal/symbol"
	"smile/internal/value"
)

// Reader tokenizes and parses one source text's worth of top-level forms.
type Reader struct {
	symbols *symbol.Table
	src     []rune
	pos     int
}

func New(symbols *symbol.Table, src string) *Reader {
	return &Reader{symbols: symbols, src: []rune(src)}
}

// ReadAll parses every top-level form in the source, wrapped in a single
// ($progn ...) so a whole file compiles and runs as one expression — the
// same shape compileProgn already gives a sequence of statements.
func ReadAll(symbols *symbol.Table, src string) (value.SmileArg, error) {
	r := New(symbols, src)
	var forms []value.SmileArg
	for {
		r.skipSpaceAndComments()
		if r.atEnd() {
			break
		}
		form, err := r.readForm()
		if err != nil {
			return value.SmileArg{}, err
		}
		forms = append(forms, form)
	}
	if len(forms) == 1 {
		return forms[0], nil
	}
	items := append([]value.SmileArg{value.FromSymbol(symbol.SProgn)}, forms...)
	return value.ListFromSlice(items), nil
}

func (r *Reader) atEnd() bool { return r.pos >= len(r.src) }

func (r *Reader) peekRune() rune {
	if r.atEnd() {
		return 0
	}
	return r.src[r.pos]
}

func (r *Reader) advance() rune {
	c := r.src[r.pos]
	r.pos++
	return c
}

func (r *Reader) skipSpaceAndComments() {
	for !r.atEnd() {
		c := r.peekRune()
		switch {
		case c == ';':
			for !r.atEnd() && r.peekRune() != '\n' {
				r.pos++
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			r.pos++
		default:
			return
		}
	}
}

func (r *Reader) readForm() (value.SmileArg, error) {
	r.skipSpaceAndComments()
	if r.atEnd() {
		return value.SmileArg{}, fmt.Errorf("reader: unexpected end of input")
	}
	switch c := r.peekRune(); {
	case c == '(' || c == '[':
		return r.readList()
	case c == ')' || c == ']':
		return value.SmileArg{}, fmt.Errorf("reader: unexpected %q", c)
	case c == '\'':
		r.advance()
		inner, err := r.readForm()
		if err != nil {
			return value.SmileArg{}, err
		}
		return value.ListFromSlice([]value.SmileArg{value.FromSymbol(symbol.SQuote), inner}), nil
	case c == '"':
		return r.readString()
	case c == '#':
		return r.readHash()
	default:
		return r.readAtom()
	}
}

func closer(open rune) rune {
	if open == '(' {
		return ')'
	}
	return ']'
}

// readList reads a parenthesized/bracketed form. A single `.` token between
// two forms and before the close makes it a Pair instead of a proper List,
// matching the reader's one piece of dotted-pair syntax.
func (r *Reader) readList() (value.SmileArg, error) {
	open := r.advance()
	want := closer(open)

	var items []value.SmileArg
	for {
		r.skipSpaceAndComments()
		if r.atEnd() {
			return value.SmileArg{}, fmt.Errorf("reader: unterminated list, expected %q", want)
		}
		if c := r.peekRune(); c == ')' || c == ']' {
			if c != want {
				return value.SmileArg{}, fmt.Errorf("reader: mismatched closer %q, expected %q", c, want)
			}
			r.advance()
			return value.ListFromSlice(items), nil
		}
		if r.atDottedTail() {
			r.pos += 1 // consume '.'
			tail, err := r.readForm()
			if err != nil {
				return value.SmileArg{}, err
			}
			r.skipSpaceAndComments()
			if r.atEnd() || r.peekRune() != want {
				return value.SmileArg{}, fmt.Errorf("reader: expected %q after dotted tail", want)
			}
			r.advance()
			if len(items) != 1 {
				return value.SmileArg{}, fmt.Errorf("reader: dotted pair needs exactly one element before '.'")
			}
			return value.FromObject(value.NewPair(items[0], tail)), nil
		}
		item, err := r.readForm()
		if err != nil {
			return value.SmileArg{}, err
		}
		items = append(items, item)
	}
}

// atDottedTail reports whether the reader is positioned at a standalone `.`
// token: a dot followed by whitespace, not the start of a symbol like `.5`
// or a dotted identifier.
func (r *Reader) atDottedTail() bool {
	if r.peekRune() != '.' {
		return false
	}
	if r.pos+1 >= len(r.src) {
		return true
	}
	next := r.src[r.pos+1]
	return next == ' ' || next == '\t' || next == '\n' || next == '\r' || next == '(' || next == '['
}

func (r *Reader) readString() (value.SmileArg, error) {
	r.advance() // opening quote
	var sb strings.Builder
	for {
		if r.atEnd() {
			return value.SmileArg{}, fmt.Errorf("reader: unterminated string")
		}
		c := r.advance()
		if c == '"' {
			return value.FromObject(value.NewString(sb.String())), nil
		}
		if c == '\\' {
			if r.atEnd() {
				return value.SmileArg{}, fmt.Errorf("reader: unterminated string escape")
			}
			switch esc := r.advance(); esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(c)
	}
}

// readHash handles #t/#f; any other `#...` token is read as a plain symbol,
// since this reader implements none of the real syntax-extension forms
// `#syntax`/`#loanword` use the same sigil for.
func (r *Reader) readHash() (value.SmileArg, error) {
	start := r.pos
	r.advance() // '#'
	for !r.atEnd() && !isDelimiter(r.peekRune()) {
		r.pos++
	}
	tok := string(r.src[start:r.pos])
	switch tok {
	case "#t":
		return value.FromBool(true), nil
	case "#f":
		return value.FromBool(false), nil
	default:
		return value.SmileArg{}, fmt.Errorf("reader: unsupported token %q", tok)
	}
}

func isDelimiter(c rune) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '[', ']', '"', ';', '\'':
		return true
	default:
		return false
	}
}

// readAtom reads a bareword token and classifies it as a number or a
// symbol: a token that parses fully as an integer or float literal is a
// number, anything else (including `+`/`-`/`...` used as operator names) is
// interned as a symbol.
func (r *Reader) readAtom() (value.SmileArg, error) {
	start := r.pos
	for !r.atEnd() && !isDelimiter(r.peekRune()) {
		r.pos++
	}
	tok := string(r.src[start:r.pos])
	if tok == "" {
		return value.SmileArg{}, fmt.Errorf("reader: empty token")
	}
	if tok == "null" {
		return value.Null(), nil
	}
	if n, err := strconv.ParseInt(tok, 10, 32); err == nil {
		return value.FromInt32(int32(n)), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil && strings.ContainsAny(tok, ".eE") {
		return value.FromFloat64(f), nil
	}
	return value.FromSymbol(r.symbols.Intern(tok)), nil
}
