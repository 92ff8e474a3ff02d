package physical

import (
	"strings"
	"testing"

	"github.com/seqlab/genoql/core/genome"
	"github.com/seqlab/genoql/core/lang/vm"
)

func testGenome(t *testing.T, name string) *genome.Reference {
	t.Helper()
	rg, err := genome.New(genome.Definition{
		Name: name,
		Contigs: []genome.Contig{
			{Name: "chr1", Length: 1000},
			{Name: "chr2", Length: 500},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rg
}

func TestCanonicalIsSingleton(t *testing.T) {
	rg := testGenome(t, "test")

	a := Canonical(rg, false)
	b := Canonical(rg, false)
	if a != b {
		t.Errorf("Canonical returned distinct instances for the same genome")
	}

	req := Canonical(rg, true)
	if req == a {
		t.Errorf("required and optional types should be distinct instances")
	}
	if !req.Required() {
		t.Errorf("Required() = false, want true")
	}
	if a.Required() {
		t.Errorf("Required() = true, want false")
	}
}

func TestCompatible(t *testing.T) {
	rg := testGenome(t, "test")
	same := testGenome(t, "test")
	other := testGenome(t, "other")

	p := Canonical(rg, false)
	if !p.Compatible(Canonical(same, true)) {
		t.Errorf("identical definitions should be compatible")
	}
	if p.Compatible(Canonical(other, false)) {
		t.Errorf("different genomes should not be compatible")
	}
	if p.Compatible(nil) {
		t.Errorf("nil should not be compatible")
	}
}

func TestEncodeDecodeLocus(t *testing.T) {
	rg := testGenome(t, "test")
	p := Canonical(rg, false)

	rec, err := p.EncodeLocus(genome.Locus{Contig: "chr2", Position: 400})
	if err != nil {
		t.Fatalf("EncodeLocus: %v", err)
	}

	contig, err := p.ContigAt(rec)
	if err != nil {
		t.Fatalf("ContigAt: %v", err)
	}
	if contig != "chr2" {
		t.Errorf("ContigAt = %q, want %q", contig, "chr2")
	}

	pos, err := p.PositionAt(rec)
	if err != nil {
		t.Fatalf("PositionAt: %v", err)
	}
	if pos != 400 {
		t.Errorf("PositionAt = %d, want 400", pos)
	}

	l, err := p.DecodeLocus(rec)
	if err != nil {
		t.Fatalf("DecodeLocus: %v", err)
	}
	if l != (genome.Locus{Contig: "chr2", Position: 400}) {
		t.Errorf("DecodeLocus = %v", l)
	}
}

func TestEncodeLocusValidates(t *testing.T) {
	rg := testGenome(t, "test")
	p := Canonical(rg, false)

	tests := []struct {
		name  string
		locus genome.Locus
	}{
		{"unknown contig", genome.Locus{Contig: "chr9", Position: 1}},
		{"position zero", genome.Locus{Contig: "chr1", Position: 0}},
		{"past end", genome.Locus{Contig: "chr2", Position: 501}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.EncodeLocus(tt.locus); err == nil {
				t.Errorf("EncodeLocus(%v) succeeded, want error", tt.locus)
			}
		})
	}
}

func TestContigAtBadRecord(t *testing.T) {
	rg := testGenome(t, "test")
	p := Canonical(rg, false)

	if _, err := p.ContigAt([]byte{0x01}); err == nil {
		t.Errorf("ContigAt on truncated record succeeded, want error")
	}
	if _, err := p.PositionAt(nil); err == nil {
		t.Errorf("PositionAt on empty record succeeded, want error")
	}
}

func TestEmitMatchesDirectDecode(t *testing.T) {
	rg := testGenome(t, "test")
	p := Canonical(rg, false)

	rec, err := p.EncodeLocus(genome.Locus{Contig: "chr1", Position: 123})
	if err != nil {
		t.Fatalf("EncodeLocus: %v", err)
	}

	prog := vm.NewProgram()
	src := prog.AllocReg()
	contigReg := p.EmitContig(prog, src)
	posReg := p.EmitPosition(prog, src)
	prog.AddOp(vm.OpHalt, 0, 0, 0)

	regs := make([]vm.Value, prog.NumReg)
	regs[src] = vm.RecordValue(rec)
	if err := vm.Exec(prog, regs); err != nil {
		t.Fatalf("Exec: %v", err)
	}

	if got := regs[contigReg].Str; got != "chr1" {
		t.Errorf("contig register = %q, want %q", got, "chr1")
	}
	if got := regs[posReg].Int; got != int32(123) {
		t.Errorf("position register = %d, want 123", got)
	}
}

func TestEmitComments(t *testing.T) {
	rg := testGenome(t, "test")
	p := Canonical(rg, false)

	prog := vm.NewProgram()
	src := prog.AllocReg()
	p.EmitContig(prog, src)
	p.EmitPosition(prog, src)

	listing := prog.Listing()
	if !strings.Contains(listing, "locus<test>.contig") {
		t.Errorf("listing missing contig comment:\n%s", listing)
	}
	if !strings.Contains(listing, "locus<test>.position") {
		t.Errorf("listing missing position comment:\n%s", listing)
	}
}

func TestTypeStrings(t *testing.T) {
	rg := testGenome(t, "test")

	tests := []struct {
		got  string
		want string
	}{
		{Canonical(rg, false).String(), "plocus<test>"},
		{Canonical(rg, true).String(), "plocus<test>+"},
		{Canonical(rg, false).Virtual().String(), "locus<test>"},
		{PString{}.String(), "pstring"},
		{PInt32{}.String(), "pint32"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}

	p := Canonical(rg, false)
	if p.ContigType().Kind() != vm.KindString {
		t.Errorf("ContigType kind = %v", p.ContigType().Kind())
	}
	if p.PositionType().Kind() != vm.KindInt32 {
		t.Errorf("PositionType kind = %v", p.PositionType().Kind())
	}
}
