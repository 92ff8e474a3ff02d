package literal

import (
	"testing"

	"github.com/seqlab/genoql/core/errors"
	"github.com/seqlab/genoql/core/genome"
)

func testGrammar(t *testing.T) *Grammar {
	t.Helper()
	rg, err := genome.New(genome.Definition{
		Name: "test",
		Contigs: []genome.Contig{
			{Name: "chr1", Length: 1000},
			{Name: "chr10", Length: 800},
			{Name: "chr2", Length: 500},
			{Name: "chrX", Length: 300},
		},
	})
	if err != nil {
		t.Fatalf("genome.New() error: %v", err)
	}
	return NewGrammar(rg)
}

func TestParseLocus(t *testing.T) {
	g := testGrammar(t)

	tests := []struct {
		input string
		want  genome.Locus
	}{
		{"chr1:42", genome.Locus{Contig: "chr1", Position: 42}},
		{"chr10:5", genome.Locus{Contig: "chr10", Position: 5}},
		{"chr1:0.5K", genome.Locus{Contig: "chr1", Position: 500}},
		{"chr1:start", genome.Locus{Contig: "chr1", Position: 1}},
		{"chr1:end", genome.Locus{Contig: "chr1", Position: 1000}},
		{"chrX:END", genome.Locus{Contig: "chrX", Position: 300}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := g.ParseLocus(tt.input)
			if err != nil {
				t.Fatalf("ParseLocus(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLocus(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLocusFailures(t *testing.T) {
	g := testGrammar(t)

	inputs := []string{"", "chr9:5", "chr1", "chr1:", "chr1:abc", "chr1:5 extra"}
	for _, input := range inputs {
		if _, err := g.ParseLocus(input); err == nil {
			t.Errorf("ParseLocus(%q) succeeded, want error", input)
		}
	}

	if _, ok := g.ParseLocusOpt("chr9:5"); ok {
		t.Errorf("ParseLocusOpt(\"chr9:5\") = ok, want !ok")
	}
}

func TestParseLocusBounds(t *testing.T) {
	g := testGrammar(t)

	for _, input := range []string{"chr1:0", "chr1:5000", "chrX:301"} {
		t.Run(input, func(t *testing.T) {
			_, err := g.ParseLocus(input)
			if !errors.Is(err, errors.ErrOutOfRange) {
				t.Errorf("ParseLocus(%q) = %v, want ErrOutOfRange", input, err)
			}
		})
	}

	if _, ok := g.ParseLocusOpt("chr1:0"); ok {
		t.Errorf("ParseLocusOpt(\"chr1:0\") = ok, want !ok")
	}
	if got, err := g.ParseLocus("chr1:1000"); err != nil || got.Position != 1000 {
		t.Errorf("ParseLocus(\"chr1:1000\") = %v, %v, want position 1000", got, err)
	}
}

func TestParseInterval(t *testing.T) {
	g := testGrammar(t)

	tests := []struct {
		name  string
		input string
		start genome.Locus
		end   genome.Locus
		// endpoints default to inclusive; brackets flip these
		excludeStart    bool
		excludeEnd      bool
		startFromLength bool
		endFromLength   bool
	}{
		{
			name:  "explicit positions",
			input: "chr1:10-20",
			start: genome.Locus{Contig: "chr1", Position: 10},
			end:   genome.Locus{Contig: "chr1", Position: 20},
		},
		{
			name:  "two loci",
			input: "chr1:10-chr2:20",
			start: genome.Locus{Contig: "chr1", Position: 10},
			end:   genome.Locus{Contig: "chr2", Position: 20},
		},
		{
			name:         "exclusive start bracket",
			input:        "(chr1:10-20]",
			start:        genome.Locus{Contig: "chr1", Position: 10},
			end:          genome.Locus{Contig: "chr1", Position: 20},
			excludeStart: true,
		},
		{
			name:       "exclusive end bracket",
			input:      "[chr1:10-20)",
			start:      genome.Locus{Contig: "chr1", Position: 10},
			end:        genome.Locus{Contig: "chr1", Position: 20},
			excludeEnd: true,
		},
		{
			name:  "exclusive end at contig boundary",
			input: "[chr1:10-1001)",
			start: genome.Locus{Contig: "chr1", Position: 10},
			end:   genome.Locus{Contig: "chr1", Position: 1000},
		},
		{
			name:            "bare contig",
			input:           "chr1",
			start:           genome.Locus{Contig: "chr1", Position: 1},
			end:             genome.Locus{Contig: "chr1", Position: 1000},
			startFromLength: true,
			endFromLength:   true,
		},
		{
			name:            "contig to contig",
			input:           "chr1-chr2",
			start:           genome.Locus{Contig: "chr1", Position: 1},
			end:             genome.Locus{Contig: "chr2", Position: 500},
			startFromLength: true,
			endFromLength:   true,
		},
		{
			name:          "end sentinel resolved",
			input:         "chr1:10-end",
			start:         genome.Locus{Contig: "chr1", Position: 10},
			end:           genome.Locus{Contig: "chr1", Position: 1000},
			endFromLength: true,
		},
		{
			name:          "end sentinel on right locus",
			input:         "chr1:10-chr2:end",
			start:         genome.Locus{Contig: "chr1", Position: 10},
			end:           genome.Locus{Contig: "chr2", Position: 500},
			endFromLength: true,
		},
		{
			name:  "prefixed contig name",
			input: "chr10:5-10",
			start: genome.Locus{Contig: "chr10", Position: 5},
			end:   genome.Locus{Contig: "chr10", Position: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.ParseInterval(tt.input)
			if err != nil {
				t.Fatalf("ParseInterval(%q) error: %v", tt.input, err)
			}
			if got.Start != tt.start || got.End != tt.end {
				t.Errorf("ParseInterval(%q) = %v-%v, want %v-%v",
					tt.input, got.Start, got.End, tt.start, tt.end)
			}
			if got.IncludeStart != !tt.excludeStart || got.IncludeEnd != !tt.excludeEnd {
				t.Errorf("ParseInterval(%q) inclusivity = (%v, %v), want (%v, %v)", tt.input,
					got.IncludeStart, got.IncludeEnd, !tt.excludeStart, !tt.excludeEnd)
			}
			if got.StartFromLength != tt.startFromLength || got.EndFromLength != tt.endFromLength {
				t.Errorf("ParseInterval(%q) marks = (%v, %v), want (%v, %v)", tt.input,
					got.StartFromLength, got.EndFromLength, tt.startFromLength, tt.endFromLength)
			}
		})
	}
}

func TestParseIntervalFailures(t *testing.T) {
	g := testGrammar(t)

	t.Run("grammar failures are positioned", func(t *testing.T) {
		inputs := []string{"", "chr9", "chr1:10-", "[chr1:10-20", "chr1:10"}
		for _, input := range inputs {
			_, err := g.ParseInterval(input)
			if !errors.Is(err, errors.ErrSyntax) {
				t.Errorf("ParseInterval(%q) = %v, want ErrSyntax", input, err)
			}
		}
	})

	t.Run("bounds failures are genome errors", func(t *testing.T) {
		_, err := g.ParseInterval("chr1:10-2000")
		if !errors.Is(err, errors.ErrOutOfRange) {
			t.Errorf("ParseInterval() = %v, want ErrOutOfRange", err)
		}
	})

	t.Run("empty interval rejected", func(t *testing.T) {
		_, err := g.ParseInterval("(chr1:10-10]")
		if !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("ParseInterval() = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("reversed interval rejected", func(t *testing.T) {
		_, err := g.ParseInterval("chr2:1-chr1:1")
		if !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("ParseInterval() = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("opt swallows all failure kinds", func(t *testing.T) {
		if _, ok := g.ParseIntervalOpt("chr1:10-2000"); ok {
			t.Errorf("ParseIntervalOpt() = ok, want !ok")
		}
		if _, ok := g.ParseIntervalOpt("?"); ok {
			t.Errorf("ParseIntervalOpt() = ok, want !ok")
		}
	})
}
