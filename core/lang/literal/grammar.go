package literal

import (
	"math"

	"github.com/seqlab/genoql/core/errors"
	"github.com/seqlab/genoql/core/variant"
)

// Position is a parsed genomic position. When FromEnd is true the
// position is unresolved and stands for the length of whatever contig it
// attaches to; N is meaningful only when FromEnd is false.
type Position struct {
	N       int32
	FromEnd bool
}

// fractional digit caps for the scaled-decimal position forms.
const (
	kiloExponent = 3
	megaExponent = 6
)

// parsePath matches one or more dot-separated identifiers, each either a
// bare identifier or a quoted one.
func parsePath(s *Scanner) ([]string, error) {
	var segments []string
	for {
		seg, err := s.pathSegment()
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
		s.skipSpace()
		if !s.match('.') {
			return segments, nil
		}
	}
}

// pathSegment matches a single path identifier.
func (s *Scanner) pathSegment() (string, error) {
	s.skipSpace()
	switch s.peek() {
	case '`', '"':
		return s.quotedIdentifier()
	default:
		return s.identifier()
	}
}

// validatePath checks the parsed path against the expected root and
// strips it. These failures happen after a successful syntactic parse, so
// they carry no position.
func validatePath(path []string, root string) ([]string, error) {
	if len(path) == 0 {
		return nil, errors.NewValidation("path", "empty annotation path")
	}
	if path[0] != root {
		return nil, errors.NewValidation("path",
			"annotation path must begin with '"+root+"', got '"+path[0]+"'")
	}
	return path[1:], nil
}

// parseCall matches a genotype call. Alternatives are tried in declared
// order; the multi-allele forms come first so that "0/1" is not consumed
// as the haploid call "0" with trailing input.
func parseCall(s *Scanner) (variant.Call, error) {
	start := s.Pos()

	// n0/n1/.../nk, unphased, at least two alleles
	if c, err := parseAlleleList(s, '/', false); err == nil {
		return c, nil
	}
	s.SetPos(start)

	// n0|n1|...|nk, phased
	if c, err := parseAlleleList(s, '|', true); err == nil {
		return c, nil
	}
	s.SetPos(start)

	// single integer, unphased haploid
	if n, err := s.int32Coerced(); err == nil {
		return variant.NewHaploid(n, false), nil
	}
	s.SetPos(start)

	// |n, phased haploid
	s.skipSpace()
	if s.match('|') {
		if n, err := s.int32Coerced(); err == nil {
			return variant.NewHaploid(n, true), nil
		}
	}
	s.SetPos(start)

	// -, unphased empty
	s.skipSpace()
	if s.match('-') {
		return variant.NewMissing(false), nil
	}
	s.SetPos(start)

	// |-, phased empty
	s.skipSpace()
	if s.match('|') && s.match('-') {
		return variant.NewMissing(true), nil
	}
	s.SetPos(start)

	return variant.Call{}, s.failf(s.Pos(), "expected genotype call")
}

// parseAlleleList matches sep-separated allele integers, requiring at
// least two.
func parseAlleleList(s *Scanner, sep byte, phased bool) (variant.Call, error) {
	first, err := s.int32Coerced()
	if err != nil {
		return variant.Call{}, err
	}
	alleles := []int32{first}
	for s.match(sep) {
		n, err := s.int32Coerced()
		if err != nil {
			return variant.Call{}, err
		}
		alleles = append(alleles, n)
	}
	if len(alleles) < 2 {
		return variant.Call{}, s.failf(s.Pos(), "expected '%c'", sep)
	}
	return variant.NewCall(phased, alleles...), nil
}

// parsePosition matches a genomic position. Alternatives in declared
// order: start, end, integer with a k/m suffix, scaled decimal with a k/m
// suffix, bare integer.
func parsePosition(s *Scanner) (Position, error) {
	s.skipSpace()
	start := s.Pos()

	if s.matchWordFold("start") {
		return Position{N: 1}, nil
	}
	s.SetPos(start)
	if s.matchWordFold("end") {
		return Position{FromEnd: true}, nil
	}
	s.SetPos(start)

	if n, ok := s.tryScaledInt('k', 'K', kiloExponent); ok {
		return Position{N: n}, nil
	}
	s.SetPos(start)
	if n, ok := s.tryScaledInt('m', 'M', megaExponent); ok {
		return Position{N: n}, nil
	}
	s.SetPos(start)

	if n, ok := s.tryScaledDecimal('k', 'K', kiloExponent); ok {
		return Position{N: n}, nil
	}
	s.SetPos(start)
	if n, ok := s.tryScaledDecimal('m', 'M', megaExponent); ok {
		return Position{N: n}, nil
	}
	s.SetPos(start)

	n, err := s.int32Coerced()
	if err != nil {
		return Position{}, s.failf(start, "expected position")
	}
	return Position{N: n}, nil
}

// matchWordFold consumes word case-insensitively (ASCII).
func (s *Scanner) matchWordFold(word string) bool {
	start := s.pos
	for i := 0; i < len(word); i++ {
		ch := s.peek()
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		if ch != word[i] {
			s.pos = start
			return false
		}
		s.pos++
	}
	return true
}

// tryScaledInt matches digits followed by a scale suffix (5K -> 5000).
func (s *Scanner) tryScaledInt(lo, hi byte, exp int) (int32, bool) {
	text, err := s.digits()
	if err != nil {
		return 0, false
	}
	if !s.match(lo) && !s.match(hi) {
		return 0, false
	}
	return scaleDigits(text, exp), true
}

// tryScaledDecimal matches digits '.' digits followed by a scale suffix
// (1.5K -> 1500). The fractional part may not exceed the suffix exponent.
func (s *Scanner) tryScaledDecimal(lo, hi byte, exp int) (int32, bool) {
	whole, err := s.digits()
	if err != nil {
		return 0, false
	}
	if !s.match('.') {
		return 0, false
	}
	frac, err := s.digits()
	if err != nil {
		return 0, false
	}
	if len(frac) > exp {
		return 0, false
	}
	if !s.match(lo) && !s.match(hi) {
		return 0, false
	}
	return scaleDigits(whole+frac, exp-len(frac)), true
}

// scaleDigits parses a digit string and multiplies by 10^exp using
// integer arithmetic; overflow coerces to the MaxInt32 sentinel.
func scaleDigits(text string, exp int) int32 {
	n := int64(coerceInt32(text))
	for i := 0; i < exp; i++ {
		n *= 10
		if n > math.MaxInt32 {
			return math.MaxInt32
		}
	}
	return int32(n)
}
