package literal

import (
	"github.com/seqlab/genoql/core/genome"
)

// Genome is the reference-genome contract the coordinate grammars consume.
// *genome.Reference satisfies it; tests use synthetic implementations.
type Genome interface {
	ContigNames() []string
	ContigLength(name string) (int32, error)
	CheckLocus(l genome.Locus) error
	NormalizeInterval(iv genome.LocusInterval) genome.LocusInterval
	CheckInterval(iv genome.LocusInterval) (genome.LocusInterval, error)
}

// Grammar binds the coordinate grammars to a reference genome. The contig
// matcher is built once at construction; a Grammar is immutable and safe
// for concurrent parse calls.
type Grammar struct {
	genome  Genome
	contigs *LiteralMatcher
}

// NewGrammar builds the coordinate grammars for a genome.
func NewGrammar(g Genome) *Grammar {
	return &Grammar{
		genome:  g,
		contigs: OneOfLiteral(g.ContigNames()...),
	}
}

// endpoint is a locus endpoint plus whether its position was resolved
// from the contig length rather than written explicitly.
type endpoint struct {
	loc        genome.Locus
	fromLength bool
}

// parseContig matches a contig name from the genome's contig set.
func (g *Grammar) parseContig(s *Scanner) (string, error) {
	s.skipSpace()
	return g.contigs.Match(s, "contig name")
}

// parseLocus matches contig:position, resolving an "end" position to the
// contig length.
func (g *Grammar) parseLocus(s *Scanner) (endpoint, error) {
	contig, err := g.parseContig(s)
	if err != nil {
		return endpoint{}, err
	}
	if !s.match(':') {
		return endpoint{}, s.failf(s.Pos(), "expected ':' after contig name")
	}
	pos, err := parsePosition(s)
	if err != nil {
		return endpoint{}, err
	}
	return g.resolve(contig, pos)
}

// resolve turns a parsed position into a locus endpoint, filling in the
// contig length for the "end" sentinel.
func (g *Grammar) resolve(contig string, pos Position) (endpoint, error) {
	if !pos.FromEnd {
		return endpoint{loc: genome.Locus{Contig: contig, Position: pos.N}}, nil
	}
	length, err := g.genome.ContigLength(contig)
	if err != nil {
		return endpoint{}, err
	}
	return endpoint{loc: genome.Locus{Contig: contig, Position: length}, fromLength: true}, nil
}

// contigSpan builds the endpoints covering a whole contig.
func (g *Grammar) contigSpan(contig string) (endpoint, endpoint, error) {
	length, err := g.genome.ContigLength(contig)
	if err != nil {
		return endpoint{}, endpoint{}, err
	}
	start := endpoint{loc: genome.Locus{Contig: contig, Position: 1}, fromLength: true}
	end := endpoint{loc: genome.Locus{Contig: contig, Position: length}, fromLength: true}
	return start, end, nil
}

// parseInterval matches a locus interval: an optional bracket pair
// selecting endpoint inclusivity around one of the coordinate-range
// forms, then genome normalization and bounds checking.
func (g *Grammar) parseInterval(s *Scanner) (genome.LocusInterval, error) {
	s.skipSpace()
	includeStart, includeEnd := true, true
	bracketed := false
	switch {
	case s.match('['):
		bracketed = true
	case s.match('('):
		bracketed = true
		includeStart = false
	}

	start, end, err := g.parseRange(s)
	if err != nil {
		return genome.LocusInterval{}, err
	}

	if bracketed {
		s.skipSpace()
		switch {
		case s.match(']'):
		case s.match(')'):
			includeEnd = false
		default:
			return genome.LocusInterval{}, s.failf(s.Pos(), "expected ']' or ')'")
		}
	}

	iv := genome.LocusInterval{
		Interval: genome.Interval[genome.Locus]{
			Start:        start.loc,
			End:          end.loc,
			IncludeStart: includeStart,
			IncludeEnd:   includeEnd,
		},
		StartFromLength: start.fromLength,
		EndFromLength:   end.fromLength,
	}

	// Bounds violations are genome failures, not positioned parse
	// failures; they pass through the driver untouched.
	return g.genome.CheckInterval(g.genome.NormalizeInterval(iv))
}

// parseRange matches the coordinate-range forms in declared order:
// locus-contig:position, locus-position, contig-contig, bare contig.
func (g *Grammar) parseRange(s *Scanner) (endpoint, endpoint, error) {
	mark := s.Pos()

	// locus - contig:position
	if start, err := g.parseLocus(s); err == nil {
		dash := s.Pos()
		if s.match('-') {
			if end, err := g.parseLocus(s); err == nil {
				return start, end, nil
			}
			s.SetPos(dash + 1)

			// locus - position (same contig as the left locus)
			if pos, err := parsePosition(s); err == nil {
				end, err := g.resolve(start.loc.Contig, pos)
				if err != nil {
					return endpoint{}, endpoint{}, err
				}
				return start, end, nil
			}
		}
	}
	s.SetPos(mark)

	// contig - contig
	if c1, err := g.parseContig(s); err == nil {
		if s.match('-') {
			if c2, err := g.parseContig(s); err == nil {
				start, _, err := g.contigSpan(c1)
				if err != nil {
					return endpoint{}, endpoint{}, err
				}
				_, end, err := g.contigSpan(c2)
				if err != nil {
					return endpoint{}, endpoint{}, err
				}
				return start, end, nil
			}
		}
	}
	s.SetPos(mark)

	// bare contig
	if c, err := g.parseContig(s); err == nil {
		start, end, err := g.contigSpan(c)
		if err != nil {
			return endpoint{}, endpoint{}, err
		}
		return start, end, nil
	}

	return endpoint{}, endpoint{}, s.failf(mark, "expected locus interval")
}
