package genome

import (
	"io"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/seqlab/genoql/core/errors"
)

// Assembly-report XML selectors, compiled once.
var (
	assemblyExpr = xpath.MustCompile("//assembly")
	contigExpr   = xpath.MustCompile("//assembly/contigs/contig")
)

// ParseAssemblyXML reads an assembly report document of the form:
//
//	<assembly name="GRCh38">
//	  <contigs>
//	    <contig name="chr1" length="248956422"/>
//	    ...
//	  </contigs>
//	</assembly>
func ParseAssemblyXML(r io.Reader) (Definition, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return Definition{}, errors.Wrap(err, "parsing assembly XML")
	}

	root := xmlquery.QuerySelector(doc, assemblyExpr)
	if root == nil {
		return Definition{}, errors.NewValidation("assembly", "missing <assembly> element")
	}

	def := Definition{Name: root.SelectAttr("name")}
	for _, node := range xmlquery.QuerySelectorAll(doc, contigExpr) {
		name := node.SelectAttr("name")
		if name == "" {
			return Definition{}, errors.NewValidation("contig", "contig element missing name attribute")
		}
		length, err := strconv.ParseInt(node.SelectAttr("length"), 10, 32)
		if err != nil {
			return Definition{}, errors.NewValidation("contig", "contig "+name+" has a bad length attribute")
		}
		def.Contigs = append(def.Contigs, Contig{Name: name, Length: int32(length)})
	}
	return def, nil
}
