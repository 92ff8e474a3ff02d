package genome

import (
	"fmt"

	"github.com/seqlab/genoql/core/errors"
)

// Interval is a generic range with independently inclusive or exclusive
// endpoints.
type Interval[T any] struct {
	Start        T    `json:"start"`
	End          T    `json:"end"`
	IncludeStart bool `json:"includeStart"`
	IncludeEnd   bool `json:"includeEnd"`
}

// LocusInterval is an interval of loci. StartFromLength and EndFromLength
// mark endpoints whose position was not written explicitly and was resolved
// from the contig length (bare-contig and "end" forms); downstream
// consumers treat such endpoints as extending to wherever the contig ends.
type LocusInterval struct {
	Interval[Locus]
	StartFromLength bool `json:"startFromLength,omitempty"`
	EndFromLength   bool `json:"endFromLength,omitempty"`
}

// String renders the interval with bracket characters reflecting
// endpoint inclusivity.
func (iv LocusInterval) String() string {
	open, close := "[", "]"
	if !iv.IncludeStart {
		open = "("
	}
	if !iv.IncludeEnd {
		close = ")"
	}
	return fmt.Sprintf("%s%s-%s%s", open, iv.Start, iv.End, close)
}

// NormalizeInterval rewrites exclusive endpoints that sit one step
// outside contig bounds into their inclusive in-bounds equivalents: an
// exclusive start at 0 becomes an inclusive start at 1, an exclusive end
// at length+1 becomes an inclusive end at the contig length. All other
// endpoints keep their position and inclusivity as written; the flags are
// part of the interval value. Remaining bounds violations are left for
// CheckInterval.
func (r *Reference) NormalizeInterval(iv LocusInterval) LocusInterval {
	out := iv
	if !out.IncludeStart && out.Start.Position == 0 {
		out.Start.Position = 1
		out.IncludeStart = true
	}
	if !out.IncludeEnd {
		if length, err := r.ContigLength(out.End.Contig); err == nil && out.End.Position == length+1 {
			out.End.Position = length
			out.IncludeEnd = true
		}
	}
	return out
}

// CheckInterval validates a normalized interval against genome bounds and
// rejects empty ranges, honoring endpoint inclusivity. It returns the
// interval unchanged on success.
func (r *Reference) CheckInterval(iv LocusInterval) (LocusInterval, error) {
	if err := r.CheckLocus(iv.Start); err != nil {
		return LocusInterval{}, err
	}
	if err := r.CheckLocus(iv.End); err != nil {
		return LocusInterval{}, err
	}
	first, last := boundLoci(iv)
	if r.CompareLoci(first, last) > 0 {
		return LocusInterval{}, errors.NewValidation("interval",
			fmt.Sprintf("interval %s is empty", iv))
	}
	return iv, nil
}

// boundLoci returns the first and last loci the interval covers,
// shifting exclusive endpoints inward.
func boundLoci(iv LocusInterval) (Locus, Locus) {
	first, last := iv.Start, iv.End
	if !iv.IncludeStart {
		first.Position++
	}
	if !iv.IncludeEnd {
		last.Position--
	}
	return first, last
}

// Contains reports whether the locus falls inside the interval under the
// genome ordering, honoring endpoint inclusivity.
func (r *Reference) Contains(iv LocusInterval, l Locus) bool {
	first, last := boundLoci(iv)
	return r.CompareLoci(first, l) <= 0 && r.CompareLoci(l, last) <= 0
}
