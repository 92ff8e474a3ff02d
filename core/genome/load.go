package genome

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/ulikunitz/xz"

	"github.com/seqlab/genoql/core/errors"
)

// ReadDefinitionJSON decodes a JSON genome definition:
//
//	{"name": "GRCh38", "contigs": [{"name": "chr1", "length": 248956422}, ...]}
func ReadDefinitionJSON(r io.Reader) (Definition, error) {
	var def Definition
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return Definition{}, errors.Wrap(err, "decoding genome definition")
	}
	return def, nil
}

// WriteDefinitionJSON encodes a definition as indented JSON.
func WriteDefinitionJSON(w io.Writer, def Definition) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(def)
}

// contigLine is the grammar for VCF-header-style contig declarations:
//
//	##contig=<ID=chr1,length=248956422>
//
// Attributes may appear in any order; unknown attributes are ignored.
//
//nolint:govet // participle grammar tags are not standard struct tags
type contigLine struct {
	Attrs []contigAttr `parser:"Prefix @@ ( ',' @@ )* '>'"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type contigAttr struct {
	Key   string `parser:"@Ident '='"`
	Value string `parser:"@Ident"`
}

// contigLexer tokenizes a single contig declaration line.
var contigLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Prefix", Pattern: `##contig=<`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_.\-]+`},
	{Name: "Punct", Pattern: `[=,>]`},
})

var contigParser = participle.MustBuild[contigLine](
	participle.Lexer(contigLexer),
)

// ParseContigLines reads VCF-header-style contig declarations, one per
// line. A "##reference=NAME" line overrides the supplied genome name.
// Lines that are blank or start with "#" but are not contig declarations
// are skipped.
func ParseContigLines(name string, r io.Reader) (Definition, error) {
	def := Definition{Name: name}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "##reference="):
			def.Name = strings.TrimPrefix(line, "##reference=")
			continue
		case !strings.HasPrefix(line, "##contig="):
			continue
		}

		parsed, err := contigParser.ParseString("", line)
		if err != nil {
			return Definition{}, errors.Wrapf(err, "contig declaration on line %d", lineNo)
		}

		var c Contig
		for _, attr := range parsed.Attrs {
			switch attr.Key {
			case "ID":
				c.Name = attr.Value
			case "length":
				n, err := strconv.ParseInt(attr.Value, 10, 32)
				if err != nil {
					return Definition{}, errors.NewValidation("contig",
						fmt.Sprintf("bad length %q on line %d", attr.Value, lineNo))
				}
				c.Length = int32(n)
			}
		}
		if c.Name == "" {
			return Definition{}, errors.NewValidation("contig",
				fmt.Sprintf("missing ID attribute on line %d", lineNo))
		}
		def.Contigs = append(def.Contigs, c)
	}
	if err := scanner.Err(); err != nil {
		return Definition{}, errors.NewIO("read", "", err)
	}
	return def, nil
}

// LoadDefinitionFile reads a genome definition from disk. The format is
// chosen by extension: .json, .xml (assembly report), or .vcf/.txt (contig
// declaration lines). A trailing .xz extension selects transparent
// decompression of any of the above.
func LoadDefinitionFile(path string) (Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return Definition{}, errors.NewIO("open", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	logical := path
	if strings.HasSuffix(logical, ".xz") {
		xr, err := xz.NewReader(bufio.NewReader(f))
		if err != nil {
			return Definition{}, errors.NewIO("decompress", path, err)
		}
		r = xr
		logical = strings.TrimSuffix(logical, ".xz")
	}

	base := filepath.Base(logical)
	ext := filepath.Ext(logical)
	name := strings.TrimSuffix(base, ext)

	switch ext {
	case ".json":
		return ReadDefinitionJSON(r)
	case ".xml":
		return ParseAssemblyXML(r)
	case ".vcf", ".txt":
		return ParseContigLines(name, r)
	default:
		return Definition{}, errors.NewUnsupported("definition format", "unknown extension "+ext)
	}
}

// LoadFile is LoadDefinitionFile followed by New.
func LoadFile(path string) (*Reference, error) {
	def, err := LoadDefinitionFile(path)
	if err != nil {
		return nil, err
	}
	return New(def)
}
