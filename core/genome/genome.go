// Package genome models reference genomes: ordered contigs with lengths,
// genomic loci, and locus intervals. A Reference is immutable after
// construction and safe for concurrent reads.
package genome

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/seqlab/genoql/core/errors"
)

// Contig is a named sequence segment with a 1-based length in base pairs.
type Contig struct {
	Name   string `json:"name"`
	Length int32  `json:"length"`
}

// Definition is the serializable form of a reference genome.
type Definition struct {
	Name    string   `json:"name"`
	Contigs []Contig `json:"contigs"`
}

// Locus is a genomic coordinate: a contig name and a 1-based position.
type Locus struct {
	Contig   string `json:"contig"`
	Position int32  `json:"position"`
}

// String renders the locus in contig:position form.
func (l Locus) String() string {
	return l.Contig + ":" + strconv.FormatInt(int64(l.Position), 10)
}

// Reference is an immutable, validated reference genome. Contig order is
// the declaration order of the definition and determines locus ordering.
type Reference struct {
	name        string
	contigs     []Contig
	index       map[string]int
	fingerprint [32]byte
}

// New validates a definition and builds a Reference.
func New(def Definition) (*Reference, error) {
	if def.Name == "" {
		return nil, errors.NewValidation("genome", "name must not be empty")
	}
	if len(def.Contigs) == 0 {
		return nil, errors.NewValidation("genome", "must declare at least one contig")
	}

	index := make(map[string]int, len(def.Contigs))
	for i, c := range def.Contigs {
		if c.Name == "" {
			return nil, errors.NewValidation("contig", fmt.Sprintf("contig %d has an empty name", i))
		}
		if c.Length < 1 {
			return nil, errors.NewValidation("contig", fmt.Sprintf("contig %s has non-positive length %d", c.Name, c.Length))
		}
		if _, dup := index[c.Name]; dup {
			return nil, errors.NewValidation("contig", fmt.Sprintf("duplicate contig name %s", c.Name))
		}
		index[c.Name] = i
	}

	contigs := make([]Contig, len(def.Contigs))
	copy(contigs, def.Contigs)

	return &Reference{
		name:        def.Name,
		contigs:     contigs,
		index:       index,
		fingerprint: fingerprint(def.Name, contigs),
	}, nil
}

// fingerprint computes the BLAKE3 hash of the canonical genome definition.
// The canonical form is the name followed by one name<TAB>length line per
// contig in declaration order.
func fingerprint(name string, contigs []Contig) [32]byte {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('\n')
	for _, c := range contigs {
		b.WriteString(c.Name)
		b.WriteByte('\t')
		b.WriteString(strconv.FormatInt(int64(c.Length), 10))
		b.WriteByte('\n')
	}
	return blake3.Sum256([]byte(b.String()))
}

// Name returns the genome name.
func (r *Reference) Name() string {
	return r.name
}

// Contigs returns a copy of the ordered contig list.
func (r *Reference) Contigs() []Contig {
	out := make([]Contig, len(r.contigs))
	copy(out, r.contigs)
	return out
}

// ContigNames returns the contig names in declaration order.
func (r *Reference) ContigNames() []string {
	names := make([]string, len(r.contigs))
	for i, c := range r.contigs {
		names[i] = c.Name
	}
	return names
}

// HasContig reports whether the genome declares the named contig.
func (r *Reference) HasContig(name string) bool {
	_, ok := r.index[name]
	return ok
}

// ContigIndex returns the declaration index of the named contig.
func (r *Reference) ContigIndex(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// ContigLength returns the length of the named contig.
func (r *Reference) ContigLength(name string) (int32, error) {
	i, ok := r.index[name]
	if !ok {
		return 0, errors.NewNotFound("contig", name)
	}
	return r.contigs[i].Length, nil
}

// CompareLoci orders two loci by contig declaration order, then position.
// Loci on contigs unknown to the genome sort after all known contigs.
func (r *Reference) CompareLoci(a, b Locus) int {
	ai, aok := r.index[a.Contig]
	bi, bok := r.index[b.Contig]
	switch {
	case !aok && !bok:
		return strings.Compare(a.Contig, b.Contig)
	case !aok:
		return 1
	case !bok:
		return -1
	}
	if ai != bi {
		if ai < bi {
			return -1
		}
		return 1
	}
	switch {
	case a.Position < b.Position:
		return -1
	case a.Position > b.Position:
		return 1
	}
	return 0
}

// IsValidLocus reports whether the locus names a known contig and its
// position lies in [1, contig length].
func (r *Reference) IsValidLocus(l Locus) bool {
	i, ok := r.index[l.Contig]
	if !ok {
		return false
	}
	return l.Position >= 1 && l.Position <= r.contigs[i].Length
}

// CheckLocus returns an error if the locus is outside genome bounds.
func (r *Reference) CheckLocus(l Locus) error {
	i, ok := r.index[l.Contig]
	if !ok {
		return errors.NewNotFound("contig", l.Contig)
	}
	if l.Position < 1 || l.Position > r.contigs[i].Length {
		return errors.NewRange(l.Contig, int64(l.Position), r.contigs[i].Length)
	}
	return nil
}

// Fingerprint returns the BLAKE3 hash of the canonical genome definition.
func (r *Reference) Fingerprint() [32]byte {
	return r.fingerprint
}

// FingerprintHex returns the fingerprint as a lowercase hex string.
func (r *Reference) FingerprintHex() string {
	return hex.EncodeToString(r.fingerprint[:])
}

// SameAs reports whether two references describe the same genome.
func (r *Reference) SameAs(o *Reference) bool {
	if r == o {
		return true
	}
	if r == nil || o == nil {
		return false
	}
	return r.fingerprint == o.fingerprint
}

// Definition returns the serializable form of the genome.
func (r *Reference) Definition() Definition {
	return Definition{Name: r.name, Contigs: r.Contigs()}
}

// SortLoci sorts loci in place under the genome ordering.
func (r *Reference) SortLoci(loci []Locus) {
	sort.Slice(loci, func(i, j int) bool {
		return r.CompareLoci(loci[i], loci[j]) < 0
	})
}
