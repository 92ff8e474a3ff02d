// Package variant holds genotype values produced by the literal grammars.
package variant

import (
	"strconv"
	"strings"
)

// UnknownAllele is the sentinel allele index meaning "unknown/unbounded".
// Allele integers that overflow are coerced to it rather than rejected.
const UnknownAllele int32 = 1<<31 - 1

// Call is a genotype call: an ordered list of non-negative allele indices
// plus a phasing flag. Ploidy 0 is a missing call, ploidy 1 a haploid
// call. Allele order is preserved as written; for phased calls it carries
// haplotype information.
type Call struct {
	alleles []int32
	phased  bool
}

// NewCall builds a call of arbitrary ploidy. Alleles are kept in the
// order given. Negative allele indices are clamped to zero; the grammars
// never produce them but direct callers might.
func NewCall(phased bool, alleles ...int32) Call {
	copied := make([]int32, len(alleles))
	for i, a := range alleles {
		if a < 0 {
			a = 0
		}
		copied[i] = a
	}
	return Call{alleles: copied, phased: phased}
}

// NewMissing builds a ploidy-0 call.
func NewMissing(phased bool) Call {
	return Call{phased: phased}
}

// NewHaploid builds a ploidy-1 call.
func NewHaploid(allele int32, phased bool) Call {
	return NewCall(phased, allele)
}

// Ploidy returns the number of alleles in the call.
func (c Call) Ploidy() int {
	return len(c.alleles)
}

// Phased reports whether allele order carries haplotype information.
func (c Call) Phased() bool {
	return c.phased
}

// IsMissing reports whether the call has no alleles.
func (c Call) IsMissing() bool {
	return len(c.alleles) == 0
}

// Allele returns the i-th allele index.
func (c Call) Allele(i int) int32 {
	return c.alleles[i]
}

// Alleles returns a copy of the allele indices in input order.
func (c Call) Alleles() []int32 {
	out := make([]int32, len(c.alleles))
	copy(out, c.alleles)
	return out
}

// Equal reports whether two calls have the same phasing and alleles.
func (c Call) Equal(o Call) bool {
	if c.phased != o.phased || len(c.alleles) != len(o.alleles) {
		return false
	}
	for i := range c.alleles {
		if c.alleles[i] != o.alleles[i] {
			return false
		}
	}
	return true
}

// String renders the call in the literal syntax it was parsed from:
// "-" or "|-" for missing calls, "n" or "|n" for haploid calls, and
// slash- or pipe-separated allele lists otherwise.
func (c Call) String() string {
	switch len(c.alleles) {
	case 0:
		if c.phased {
			return "|-"
		}
		return "-"
	case 1:
		s := strconv.FormatInt(int64(c.alleles[0]), 10)
		if c.phased {
			return "|" + s
		}
		return s
	}

	sep := "/"
	if c.phased {
		sep = "|"
	}
	parts := make([]string, len(c.alleles))
	for i, a := range c.alleles {
		parts[i] = strconv.FormatInt(int64(a), 10)
	}
	return strings.Join(parts, sep)
}
