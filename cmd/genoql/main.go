// Command genoql is the CLI tool for the genomic query literal language.
// It provides commands for parsing literals, managing reference genomes,
// and serving the parsers over WebSocket.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/seqlab/genoql/core/genome"
	"github.com/seqlab/genoql/core/lang/literal"
	"github.com/seqlab/genoql/core/lang/physical"
	"github.com/seqlab/genoql/core/lang/vm"
	"github.com/seqlab/genoql/internal/logging"
	"github.com/seqlab/genoql/internal/registry"
	"github.com/seqlab/genoql/internal/web"
)

const version = "0.1.0"

// CLI defines the command-line interface for genoql.
var CLI struct {
	// Global flags
	Registry  string `name:"registry" help:"Genome registry database path" default:"genoql.db" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error"`
	LogFormat string `name:"log-format" help:"Log format (json, text)" default:"json" enum:"json,text"`

	// Command groups (noun-first organization)
	Parse   ParseGroup  `cmd:"" help:"Parse literals (path, call, position, string, locus, interval)"`
	Genome  GenomeGroup `cmd:"" help:"Reference genome management"`
	Codegen CodegenCmd  `cmd:"" help:"Emit the locus field-access program"`
	Serve   ServeCmd    `cmd:"" help:"Start the WebSocket parse service"`
	Version VersionCmd  `cmd:"" help:"Print version information"`
}

// ParseGroup contains one command per literal grammar.
type ParseGroup struct {
	Path     ParsePathCmd     `cmd:"" help:"Parse an annotation path"`
	Call     ParseCallCmd     `cmd:"" help:"Parse a genotype call"`
	Position ParsePositionCmd `cmd:"" help:"Parse a genomic position"`
	String   ParseStringCmd   `cmd:"" help:"Parse a quoted string literal"`
	Locus    ParseLocusCmd    `cmd:"" help:"Parse a locus against a genome"`
	Interval ParseIntervalCmd `cmd:"" help:"Parse a locus interval against a genome"`
}

// GenomeGroup contains registry operations.
type GenomeGroup struct {
	Import      GenomeImportCmd      `cmd:"" help:"Import a genome definition file into the registry"`
	List        GenomeListCmd        `cmd:"" help:"List imported genomes"`
	Show        GenomeShowCmd        `cmd:"" help:"Print a genome definition as JSON"`
	Delete      GenomeDeleteCmd      `cmd:"" help:"Remove a genome from the registry"`
	Fingerprint GenomeFingerprintCmd `cmd:"" help:"Print the fingerprint of a definition file"`
}

func openRegistry() (*registry.Registry, error) {
	return registry.Open(CLI.Registry)
}

func loadGenome(ctx context.Context, name string) (*genome.Reference, error) {
	reg, err := openRegistry()
	if err != nil {
		return nil, err
	}
	defer reg.Close()
	return reg.Get(ctx, name)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ParsePathCmd parses an annotation path literal.
type ParsePathCmd struct {
	Input string `arg:"" help:"Path literal, e.g. va.info.AC"`
	Root  string `help:"Required root of the path" default:"va"`
}

func (c *ParsePathCmd) Run() error {
	path, err := literal.ParsePath(c.Input, c.Root)
	if err != nil {
		return err
	}
	return printJSON(path)
}

// ParseCallCmd parses a genotype call literal.
type ParseCallCmd struct {
	Input string `arg:"" help:"Call literal, e.g. 0/1, 1|2, -, 3"`
}

func (c *ParseCallCmd) Run() error {
	call, err := literal.ParseCall(c.Input)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"alleles": call.Alleles(),
		"phased":  call.Phased(),
		"display": call.String(),
	})
}

// ParsePositionCmd parses a genomic position literal.
type ParsePositionCmd struct {
	Input string `arg:"" help:"Position literal, e.g. 100, 1.5K, 2M, start, end"`
}

func (c *ParsePositionCmd) Run() error {
	pos, err := literal.ParsePosition(c.Input)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"n": pos.N, "from_end": pos.FromEnd})
}

// ParseStringCmd parses a quoted string literal.
type ParseStringCmd struct {
	Input string `arg:"" help:"Quoted literal, e.g. \"a\\tb\""`
}

func (c *ParseStringCmd) Run() error {
	s, err := literal.ParseStringLiteral(c.Input)
	if err != nil {
		return err
	}
	return printJSON(s)
}

// ParseLocusCmd parses a locus against a registered genome.
type ParseLocusCmd struct {
	Input  string `arg:"" help:"Locus literal, e.g. chr1:12345"`
	Genome string `required:"" help:"Registered genome name"`
}

func (c *ParseLocusCmd) Run() error {
	rg, err := loadGenome(context.Background(), c.Genome)
	if err != nil {
		return err
	}
	l, err := literal.NewGrammar(rg).ParseLocus(c.Input)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"contig": l.Contig, "position": l.Position})
}

// ParseIntervalCmd parses a locus interval against a registered genome.
type ParseIntervalCmd struct {
	Input  string `arg:"" help:"Interval literal, e.g. chr1:100-200 or [chr1:1-chr2:5)"`
	Genome string `required:"" help:"Registered genome name"`
}

func (c *ParseIntervalCmd) Run() error {
	rg, err := loadGenome(context.Background(), c.Genome)
	if err != nil {
		return err
	}
	iv, err := literal.NewGrammar(rg).ParseInterval(c.Input)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"start":   map[string]any{"contig": iv.Start.Contig, "position": iv.Start.Position},
		"end":     map[string]any{"contig": iv.End.Contig, "position": iv.End.Position},
		"display": iv.String(),
	})
}

// GenomeImportCmd imports a definition file into the registry.
type GenomeImportCmd struct {
	Path string `arg:"" help:"Definition file (.json, .xml, .vcf, .txt, optionally .xz)" type:"existingfile"`
	Name string `help:"Override the genome name from the file"`
}

func (c *GenomeImportCmd) Run() error {
	def, err := genome.LoadDefinitionFile(c.Path)
	if err != nil {
		return err
	}
	if c.Name != "" {
		def.Name = c.Name
	}
	rg, err := genome.New(def)
	if err != nil {
		return err
	}

	reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	entry, err := reg.Put(context.Background(), rg)
	if err != nil {
		return err
	}
	logging.GenomeImport(entry.Name, len(rg.Contigs()), entry.Fingerprint,
		"import_id", entry.ImportID)
	return printJSON(entry)
}

// GenomeListCmd lists imported genomes.
type GenomeListCmd struct{}

func (c *GenomeListCmd) Run() error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	entries, err := reg.List(context.Background())
	if err != nil {
		return err
	}
	return printJSON(entries)
}

// GenomeShowCmd prints a genome definition as JSON.
type GenomeShowCmd struct {
	Name string `arg:"" help:"Registered genome name"`
}

func (c *GenomeShowCmd) Run() error {
	rg, err := loadGenome(context.Background(), c.Name)
	if err != nil {
		return err
	}
	return genome.WriteDefinitionJSON(os.Stdout, rg.Definition())
}

// GenomeDeleteCmd removes a genome from the registry.
type GenomeDeleteCmd struct {
	Name string `arg:"" help:"Registered genome name"`
}

func (c *GenomeDeleteCmd) Run() error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()
	return reg.Delete(context.Background(), c.Name)
}

// GenomeFingerprintCmd prints the fingerprint of a definition file
// without importing it.
type GenomeFingerprintCmd struct {
	Path string `arg:"" help:"Definition file" type:"existingfile"`
}

func (c *GenomeFingerprintCmd) Run() error {
	rg, err := genome.LoadFile(c.Path)
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s\n", rg.FingerprintHex(), rg.Name())
	return nil
}

// CodegenCmd prints the program a backend runs to pull the contig and
// position fields out of an encoded locus.
type CodegenCmd struct {
	Genome   string `required:"" help:"Registered genome name"`
	Required bool   `help:"Mark the type non-nullable"`
}

func (c *CodegenCmd) Run() error {
	rg, err := loadGenome(context.Background(), c.Genome)
	if err != nil {
		return err
	}
	p := physical.Canonical(rg, c.Required)

	prog := vm.NewProgram()
	src := prog.AllocReg()
	p.EmitContig(prog, src)
	p.EmitPosition(prog, src)
	prog.AddOp(vm.OpHalt, 0, 0, 0)

	fmt.Printf("type %s, record in r%d\n", p, src)
	fmt.Print(prog.Listing())
	return nil
}

// ServeCmd starts the WebSocket parse service.
type ServeCmd struct {
	Addr string `help:"Listen address" default:":8080"`
}

func (c *ServeCmd) Run() error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	defer reg.Close()

	svc := web.NewService(reg)
	mux := http.NewServeMux()
	// The websocket upgrade hijacks the connection, so the parse route
	// stays outside the response-wrapping log middleware.
	mux.Handle("/parse", svc.Handler())
	mux.Handle("/healthz", logging.RequestLogMiddleware(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	logging.ServerStartup(c.Addr)
	return http.ListenAndServe(c.Addr, mux)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("genoql version %s (%s sqlite driver)\n", version, registry.DriverType())
	return nil
}

func logLevel(s string) logging.Level {
	switch strings.ToLower(s) {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("genoql"),
		kong.Description("Genomic query literal language tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	format := logging.FormatJSON
	if CLI.LogFormat == "text" {
		format = logging.FormatText
	}
	logging.InitLogger(logLevel(CLI.LogLevel), format)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
