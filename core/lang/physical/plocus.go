// Package physical describes how parsed coordinate values are laid out
// once compiled, and emits the instructions a backend uses to read them.
package physical

import (
	"fmt"

	"github.com/seqlab/genoql/core/errors"
	"github.com/seqlab/genoql/core/genome"
	"github.com/seqlab/genoql/core/lang/vm"
)

// Field indices of the locus record layout. The order is part of the
// contract backends compile against.
const (
	ContigField   = 0
	PositionField = 1
)

// PString is the physical type of the contig field.
type PString struct{}

// Kind returns the register kind values of this type occupy.
func (PString) Kind() vm.Kind { return vm.KindString }

func (PString) String() string { return "pstring" }

// PInt32 is the physical type of the position field.
type PInt32 struct{}

// Kind returns the register kind values of this type occupy.
func (PInt32) Kind() vm.Kind { return vm.KindInt32 }

func (PInt32) String() string { return "pint32" }

// TLocus is the virtual (logical) locus type bound to a reference genome.
type TLocus struct {
	Genome *genome.Reference
}

func (t TLocus) String() string {
	return fmt.Sprintf("locus<%s>", t.Genome.Name())
}

// PLocus is the canonical physical representation of a locus bound to a
// reference genome: a record whose field 0 is the contig name and field 1
// the 1-based position. A PLocus is immutable and safe for unrestricted
// concurrent reads.
type PLocus struct {
	rg       *genome.Reference
	required bool
}

// canonical caches the per-genome instances. Construction happens once
// per genome binding and is not required to be thread-safe.
var canonical = make(map[canonicalKey]*PLocus)

type canonicalKey struct {
	fingerprint [32]byte
	required    bool
}

// Canonical returns the canonical physical locus type for a genome,
// optionally marked required (non-nullable).
func Canonical(rg *genome.Reference, required bool) *PLocus {
	key := canonicalKey{fingerprint: rg.Fingerprint(), required: required}
	if p, ok := canonical[key]; ok {
		return p
	}
	p := &PLocus{rg: rg, required: required}
	canonical[key] = p
	return p
}

// Genome returns the bound reference genome.
func (p *PLocus) Genome() *genome.Reference {
	return p.rg
}

// Required reports whether values of this type are non-nullable.
func (p *PLocus) Required() bool {
	return p.required
}

// Virtual returns the logical locus type bound to the same genome.
func (p *PLocus) Virtual() TLocus {
	return TLocus{Genome: p.rg}
}

// ContigType returns the physical type of the contig field.
func (p *PLocus) ContigType() PString {
	return PString{}
}

// PositionType returns the physical type of the position field.
func (p *PLocus) PositionType() PInt32 {
	return PInt32{}
}

// Compatible reports whether another physical locus type can stand in
// for this one. Layouts only interoperate when bound to the same genome.
func (p *PLocus) Compatible(o *PLocus) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.rg.SameAs(o.rg)
}

func (p *PLocus) String() string {
	req := ""
	if p.required {
		req = "+"
	}
	return fmt.Sprintf("plocus<%s>%s", p.rg.Name(), req)
}

// EncodeLocus validates a locus against the bound genome and serializes
// it into the record layout.
func (p *PLocus) EncodeLocus(l genome.Locus) ([]byte, error) {
	if err := p.rg.CheckLocus(l); err != nil {
		return nil, err
	}
	return vm.EncodeRecord(vm.StringValue(l.Contig), vm.Int32Value(l.Position))
}

// ContigAt extracts the contig name from an encoded locus record.
func (p *PLocus) ContigAt(rec []byte) (string, error) {
	v, err := vm.DecodeField(rec, ContigField)
	if err != nil {
		return "", errors.Wrap(err, "decoding contig field")
	}
	return v.Str, nil
}

// PositionAt extracts the position from an encoded locus record.
func (p *PLocus) PositionAt(rec []byte) (int32, error) {
	v, err := vm.DecodeField(rec, PositionField)
	if err != nil {
		return 0, errors.Wrap(err, "decoding position field")
	}
	return v.Int, nil
}

// DecodeLocus extracts both fields of an encoded locus record.
func (p *PLocus) DecodeLocus(rec []byte) (genome.Locus, error) {
	contig, err := p.ContigAt(rec)
	if err != nil {
		return genome.Locus{}, err
	}
	pos, err := p.PositionAt(rec)
	if err != nil {
		return genome.Locus{}, err
	}
	return genome.Locus{Contig: contig, Position: pos}, nil
}

// EmitContig appends the instructions extracting the contig string from
// the record in register src and returns the result register.
func (p *PLocus) EmitContig(prog *vm.Program, src int) int {
	dst := prog.AllocReg()
	addr := prog.AddOp(vm.OpFieldStr, src, ContigField, dst)
	prog.SetComment(addr, fmt.Sprintf("%s.contig", p.Virtual()))
	return dst
}

// EmitPosition appends the instructions extracting the position integer
// from the record in register src and returns the result register.
func (p *PLocus) EmitPosition(prog *vm.Program, src int) int {
	dst := prog.AllocReg()
	addr := prog.AddOp(vm.OpFieldInt, src, PositionField, dst)
	prog.SetComment(addr, fmt.Sprintf("%s.position", p.Virtual()))
	return dst
}
