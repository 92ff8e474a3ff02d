package literal

import (
	"fmt"
	"strings"

	"github.com/seqlab/genoql/core/errors"
	"github.com/seqlab/genoql/core/genome"
	"github.com/seqlab/genoql/core/variant"
)

// inputLabel is the synthetic source label used in diagnostics; literal
// text arrives as strings, not files.
const inputLabel = "input"

// Diagnostic is a positioned tokenization or grammar failure.
type Diagnostic struct {
	Message    string
	Label      string
	Line       int // 1-based
	Col        int // 1-based
	SourceLine string
}

// Render produces the three-line diagnostic form: the message, the
// labeled source line, and a caret aligned under the failure column. Tabs
// in the echoed source prefix are kept as tabs in the caret padding so the
// caret stays visually aligned.
func (d Diagnostic) Render() string {
	var b strings.Builder
	b.WriteString(d.Message)
	b.WriteByte('\n')

	prefix := fmt.Sprintf("%s:%d:", d.Label, d.Line)
	b.WriteString(prefix)
	b.WriteString(d.SourceLine)
	b.WriteByte('\n')

	for range prefix {
		b.WriteByte(' ')
	}
	for i := 0; i < d.Col-1 && i < len(d.SourceLine); i++ {
		if d.SourceLine[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')
	return b.String()
}

// diagnose locates a failure offset within the input and builds the
// syntax error carrying the rendered diagnostic.
func diagnose(label, input string, f *failure) *errors.SyntaxError {
	pos := f.pos
	if pos > len(input) {
		pos = len(input)
	}

	lineStart := strings.LastIndexByte(input[:pos], '\n') + 1
	line := 1 + strings.Count(input[:pos], "\n")
	col := pos - lineStart + 1

	sourceLine := input[lineStart:]
	if i := strings.IndexByte(sourceLine, '\n'); i >= 0 {
		sourceLine = sourceLine[:i]
	}

	d := Diagnostic{
		Message:    f.msg,
		Label:      label,
		Line:       line,
		Col:        col,
		SourceLine: sourceLine,
	}
	return &errors.SyntaxError{
		Message:  f.msg,
		Label:    label,
		Line:     line,
		Col:      col,
		Rendered: d.Render(),
	}
}

// run drives a grammar over the whole input: trailing unconsumed input is
// a failure, grammar failures become positioned syntax errors, and
// semantic failures from the genome collaborator pass through untouched.
func run[T any](label, input string, grammar func(*Scanner) (T, error)) (T, error) {
	s := NewScanner(input)
	v, err := grammar(s)
	if err == nil {
		s.skipSpace()
		if !s.EOF() {
			err = s.failf(s.Pos(), "unexpected trailing input")
		}
	}
	if err != nil {
		var zero T
		if f, ok := err.(*failure); ok {
			return zero, diagnose(label, input, f)
		}
		return zero, err
	}
	return v, nil
}

// ParsePath parses a dot-separated annotation path, validates the first
// segment against the expected root, and returns the remaining segments.
func ParsePath(input, root string) ([]string, error) {
	path, err := run(inputLabel, input, parsePath)
	if err != nil {
		return nil, err
	}
	return validatePath(path, root)
}

// ParsePathOpt is ParsePath returning ok=false instead of an error.
func ParsePathOpt(input, root string) ([]string, bool) {
	path, err := ParsePath(input, root)
	return path, err == nil
}

// ParseCall parses a genotype call literal.
func ParseCall(input string) (variant.Call, error) {
	return run(inputLabel, input, parseCall)
}

// ParseCallOpt is ParseCall returning ok=false instead of an error.
func ParseCallOpt(input string) (variant.Call, bool) {
	c, err := ParseCall(input)
	return c, err == nil
}

// ParsePosition parses a genomic position literal.
func ParsePosition(input string) (Position, error) {
	return run(inputLabel, input, parsePosition)
}

// ParsePositionOpt is ParsePosition returning ok=false instead of an error.
func ParsePositionOpt(input string) (Position, bool) {
	p, err := ParsePosition(input)
	return p, err == nil
}

// ParseStringLiteral parses a quoted string literal (single or double
// quotes) and returns its unescaped value.
func ParseStringLiteral(input string) (string, error) {
	return run(inputLabel, input, func(s *Scanner) (string, error) {
		return s.stringLiteral()
	})
}

// ParseStringLiteralOpt is ParseStringLiteral returning ok=false instead
// of an error.
func ParseStringLiteralOpt(input string) (string, bool) {
	v, err := ParseStringLiteral(input)
	return v, err == nil
}

// ParseLocus parses a contig:position literal against the bound genome
// and bounds-checks the resulting locus.
func (g *Grammar) ParseLocus(input string) (genome.Locus, error) {
	ep, err := run(inputLabel, input, g.parseLocus)
	if err != nil {
		return genome.Locus{}, err
	}
	if err := g.genome.CheckLocus(ep.loc); err != nil {
		return genome.Locus{}, err
	}
	return ep.loc, nil
}

// ParseLocusOpt is ParseLocus returning ok=false instead of an error.
func (g *Grammar) ParseLocusOpt(input string) (genome.Locus, bool) {
	l, err := g.ParseLocus(input)
	return l, err == nil
}

// ParseInterval parses a locus interval literal against the bound genome,
// normalizing and bounds-checking the result.
func (g *Grammar) ParseInterval(input string) (genome.LocusInterval, error) {
	return run(inputLabel, input, g.parseInterval)
}

// ParseIntervalOpt is ParseInterval returning ok=false instead of an error.
func (g *Grammar) ParseIntervalOpt(input string) (genome.LocusInterval, bool) {
	iv, err := g.ParseInterval(input)
	return iv, err == nil
}
