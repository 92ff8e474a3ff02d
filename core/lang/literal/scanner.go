// Package literal implements the literal-expression front end of the query
// language: tokenization of quoted strings and fixed keywords, the value
// grammars for annotation paths, genotype calls, genomic positions, loci
// and locus intervals, and the parse driver that renders positioned
// diagnostics.
package literal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scanner is a cursor over an immutable input string. Grammars save and
// restore the cursor to try ordered alternatives; a Scanner is never
// shared across parse calls.
type Scanner struct {
	input string
	pos   int
}

// NewScanner creates a Scanner over the given input.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// failure is a tokenization or grammar failure at a byte offset. The parse
// driver turns it into a positioned diagnostic; it never escapes the
// package as-is.
type failure struct {
	msg string
	pos int
}

func (f *failure) Error() string {
	return f.msg
}

func (s *Scanner) failf(pos int, format string, args ...interface{}) error {
	return &failure{msg: fmt.Sprintf(format, args...), pos: pos}
}

// Pos returns the current byte offset.
func (s *Scanner) Pos() int {
	return s.pos
}

// SetPos restores a previously saved offset (backtracking).
func (s *Scanner) SetPos(p int) {
	s.pos = p
}

// EOF reports whether the cursor is at the end of input.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.input)
}

// peek returns the current byte, or 0 at EOF.
func (s *Scanner) peek() byte {
	if s.pos >= len(s.input) {
		return 0
	}
	return s.input[s.pos]
}

// next consumes and returns the current byte, or 0 at EOF.
func (s *Scanner) next() byte {
	if s.pos >= len(s.input) {
		return 0
	}
	ch := s.input[s.pos]
	s.pos++
	return ch
}

// match consumes ch if it is the current byte.
func (s *Scanner) match(ch byte) bool {
	if s.peek() == ch {
		s.pos++
		return true
	}
	return false
}

// skipSpace skips whitespace.
func (s *Scanner) skipSpace() {
	for !s.EOF() {
		switch s.input[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// identifier reads a bare identifier token: a letter or underscore
// followed by letters, digits or underscores.
func (s *Scanner) identifier() (string, error) {
	s.skipSpace()
	start := s.pos
	if !isIdentStart(s.peek()) {
		return "", s.failf(s.pos, "expected identifier")
	}
	s.pos++
	for isIdentChar(s.peek()) {
		s.pos++
	}
	return s.input[start:s.pos], nil
}

// digits reads one or more decimal digits.
func (s *Scanner) digits() (string, error) {
	start := s.pos
	for isDigit(s.peek()) {
		s.pos++
	}
	if s.pos == start {
		return "", s.failf(s.pos, "expected digit")
	}
	return s.input[start:s.pos], nil
}

// int32Coerced reads a non-negative integer literal. Overflow is not an
// error: values beyond int32 coerce to the maximum, meaning
// "unknown/unbounded". Downstream code depends on that sentinel.
func (s *Scanner) int32Coerced() (int32, error) {
	s.skipSpace()
	text, err := s.digits()
	if err != nil {
		return 0, err
	}
	return coerceInt32(text), nil
}

// coerceInt32 converts a digit string, clamping overflow to MaxInt32.
func coerceInt32(text string) int32 {
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return math.MaxInt32
	}
	return int32(n)
}

// escapeChars are the characters allowed after a backslash in quoted
// literals. Anything else is an invalid escape.
const escapeChars = "bfnrtu'\"`"

// quotedLiteral matches a literal delimited by delim, skipping leading
// whitespace. The accumulated raw text (backslash escapes included) is
// unescaped before being returned.
func (s *Scanner) quotedLiteral(delim byte, label string) (string, error) {
	s.skipSpace()
	open := s.pos
	if !s.match(delim) {
		return "", s.failf(s.pos, "expected %s literal", label)
	}

	start := s.pos
	for !s.EOF() {
		ch := s.next()
		switch ch {
		case delim:
			return s.unescape(s.input[start:s.pos-1], start)
		case '\\':
			if s.EOF() {
				return "", s.failf(open, "unterminated %s literal", label)
			}
			esc := s.next()
			if strings.IndexByte(escapeChars, esc) < 0 {
				return "", s.failf(s.pos-1, "invalid escape character '\\%c'", esc)
			}
		}
	}
	return "", s.failf(open, "unterminated %s literal", label)
}

// unescape converts backslash escapes in raw to their literal form. base
// is the offset of raw within the input, used to position failures in
// \uXXXX sequences.
func (s *Scanner) unescape(raw string, base int) (string, error) {
	if strings.IndexByte(raw, '\\') < 0 {
		return raw, nil
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		i++
		switch raw[i] {
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\'', '"', '`':
			b.WriteByte(raw[i])
		case 'u':
			if i+4 >= len(raw) {
				return "", s.failf(base+i, "truncated unicode escape")
			}
			n, err := strconv.ParseUint(raw[i+1:i+5], 16, 32)
			if err != nil {
				return "", s.failf(base+i, "invalid unicode escape '\\u%s'", raw[i+1:i+5])
			}
			b.WriteRune(rune(n))
			i += 4
		}
	}
	return b.String(), nil
}

// stringLiteral matches a string literal quoted with either double or
// single quotes.
func (s *Scanner) stringLiteral() (string, error) {
	s.skipSpace()
	if s.peek() == '\'' {
		return s.quotedLiteral('\'', "string")
	}
	return s.quotedLiteral('"', "string")
}

// quotedIdentifier matches a quoted identifier: backtick by convention,
// double quote as the alternate syntax.
func (s *Scanner) quotedIdentifier() (string, error) {
	s.skipSpace()
	if s.peek() == '"' {
		return s.quotedLiteral('"', "identifier")
	}
	return s.quotedLiteral('`', "identifier")
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// EscapeString renders s as a double-quoted literal that quotedLiteral
// parses back to s. Backslashes and control characters outside the named
// escape set are written as unicode escapes.
func EscapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\'':
			b.WriteString(`\'`)
		case '`':
			b.WriteString("\\`")
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString("\\u005C")
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
