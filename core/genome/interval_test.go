package genome

import (
	"testing"

	"github.com/seqlab/genoql/core/errors"
)

func inclusive(start, end Locus) LocusInterval {
	return LocusInterval{Interval: Interval[Locus]{
		Start:        start,
		End:          end,
		IncludeStart: true,
		IncludeEnd:   true,
	}}
}

func exclusiveStart(start, end Locus) LocusInterval {
	return LocusInterval{Interval: Interval[Locus]{
		Start:        start,
		End:          end,
		IncludeStart: false,
		IncludeEnd:   true,
	}}
}

func exclusiveEnd(start, end Locus) LocusInterval {
	return LocusInterval{Interval: Interval[Locus]{
		Start:        start,
		End:          end,
		IncludeStart: true,
		IncludeEnd:   false,
	}}
}

func TestNormalizeInterval(t *testing.T) {
	rg := mustReference(t)

	tests := []struct {
		name                             string
		in                               LocusInterval
		wantStart, wantEnd               int32
		wantIncludeStart, wantIncludeEnd bool
	}{
		{
			name: "inclusive unchanged",
			in:   inclusive(Locus{"chr1", 10}, Locus{"chr1", 20}),
			wantStart: 10, wantEnd: 20,
			wantIncludeStart: true, wantIncludeEnd: true,
		},
		{
			name: "in-bounds exclusive start preserved",
			in:   exclusiveStart(Locus{"chr1", 10}, Locus{"chr1", 20}),
			wantStart: 10, wantEnd: 20,
			wantIncludeStart: false, wantIncludeEnd: true,
		},
		{
			name: "in-bounds exclusive end preserved",
			in:   exclusiveEnd(Locus{"chr1", 10}, Locus{"chr1", 20}),
			wantStart: 10, wantEnd: 20,
			wantIncludeStart: true, wantIncludeEnd: false,
		},
		{
			name: "exclusive start at 0 becomes inclusive 1",
			in:   exclusiveStart(Locus{"chr1", 0}, Locus{"chr1", 20}),
			wantStart: 1, wantEnd: 20,
			wantIncludeStart: true, wantIncludeEnd: true,
		},
		{
			name: "exclusive end at length+1 becomes inclusive length",
			in:   exclusiveEnd(Locus{"chr1", 10}, Locus{"chr1", 1001}),
			wantStart: 10, wantEnd: 1000,
			wantIncludeStart: true, wantIncludeEnd: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rg.NormalizeInterval(tt.in)
			if got.Start.Position != tt.wantStart || got.End.Position != tt.wantEnd {
				t.Errorf("NormalizeInterval() = %v-%v, want %d-%d",
					got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
			if got.IncludeStart != tt.wantIncludeStart || got.IncludeEnd != tt.wantIncludeEnd {
				t.Errorf("NormalizeInterval() inclusivity = (%v, %v), want (%v, %v)",
					got.IncludeStart, got.IncludeEnd, tt.wantIncludeStart, tt.wantIncludeEnd)
			}
		})
	}
}

func TestCheckInterval(t *testing.T) {
	rg := mustReference(t)

	t.Run("valid", func(t *testing.T) {
		iv := inclusive(Locus{"chr1", 1}, Locus{"chr2", 500})
		if _, err := rg.CheckInterval(iv); err != nil {
			t.Errorf("CheckInterval() = %v, want nil", err)
		}
	})

	t.Run("start after end", func(t *testing.T) {
		iv := inclusive(Locus{"chr2", 1}, Locus{"chr1", 1000})
		if _, err := rg.CheckInterval(iv); !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("CheckInterval() = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("empty interval", func(t *testing.T) {
		// (chr1:10-10] has effective endpoints 11 and 10, so it is empty.
		iv := LocusInterval{Interval: Interval[Locus]{
			Start: Locus{"chr1", 10}, End: Locus{"chr1", 10},
			IncludeStart: false, IncludeEnd: true,
		}}
		if _, err := rg.CheckInterval(rg.NormalizeInterval(iv)); err == nil {
			t.Errorf("CheckInterval() succeeded on an empty interval")
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		iv := inclusive(Locus{"chr1", 1}, Locus{"chr1", 1001})
		if _, err := rg.CheckInterval(iv); !errors.Is(err, errors.ErrOutOfRange) {
			t.Errorf("CheckInterval() = %v, want ErrOutOfRange", err)
		}
	})

	t.Run("unknown contig", func(t *testing.T) {
		iv := inclusive(Locus{"chr99", 1}, Locus{"chr99", 5})
		if _, err := rg.CheckInterval(iv); !errors.Is(err, errors.ErrNotFound) {
			t.Errorf("CheckInterval() = %v, want ErrNotFound", err)
		}
	})
}

func TestContains(t *testing.T) {
	rg := mustReference(t)
	iv := inclusive(Locus{"chr1", 100}, Locus{"chr2", 50})

	tests := []struct {
		locus Locus
		want  bool
	}{
		{Locus{"chr1", 100}, true},
		{Locus{"chr1", 999}, true},
		{Locus{"chr2", 50}, true},
		{Locus{"chr1", 99}, false},
		{Locus{"chr2", 51}, false},
		{Locus{"chrX", 1}, false},
	}

	for _, tt := range tests {
		if got := rg.Contains(iv, tt.locus); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", iv, tt.locus, got, tt.want)
		}
	}
}

func TestLocusIntervalString(t *testing.T) {
	tests := []struct {
		iv   LocusInterval
		want string
	}{
		{inclusive(Locus{"chr1", 10}, Locus{"chr1", 20}), "[chr1:10-chr1:20]"},
		{
			LocusInterval{Interval: Interval[Locus]{
				Start: Locus{"chr1", 10}, End: Locus{"chr1", 20},
				IncludeStart: false, IncludeEnd: true,
			}},
			"(chr1:10-chr1:20]",
		},
		{
			LocusInterval{Interval: Interval[Locus]{
				Start: Locus{"chr1", 10}, End: Locus{"chr1", 20},
				IncludeStart: true, IncludeEnd: false,
			}},
			"[chr1:10-chr1:20)",
		},
	}

	for _, tt := range tests {
		if got := tt.iv.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
