/*
Package codegen emits parser tables as Go source and restores them.

Constructing LR(1) tables for larger grammars takes time. Clients may instead
construct the tables once, write them to a Go file with Generate, and restore
them at program start:

	// at build time
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	if err := lrgen.CreateTables(lr.LALR1); err != nil { … }
	codegen.Generate(w, lrgen.Tables(), "calc", "CalcTables")

	// in package calc
	tables, err := codegen.Restore(g, CalcTables)
	p := parser.NewParser(tables)

Restore checks the emitted data against the grammar. Semantic actions are
not part of the emitted data, they remain attached to the grammar.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"io"

	"github.com/npillmayer/schuko/tracing"
	"github.com/xiul/Jacob/lr"
	"github.com/xiul/Jacob/lr/sparse"
	"golang.org/x/tools/imports"
)

// tracer traces with key 'jacob.lr'.
func tracer() tracing.Trace {
	return tracing.Select("jacob.lr")
}

// Data is the emitted form of parser tables.
type Data struct {
	Grammar     string           // name of the grammar
	Mode        string           // construction mode
	States      int              // number of states
	Start       uint             // start state
	Symbols     []string         // symbol names, indexed by symbol value
	Rules       []string         // rules, indexed by serial
	Action      []sparse.Triplet // non-empty cells of the ACTION table
	Goto        []sparse.Triplet // non-empty cells of the GOTO table
	Fingerprint string
}

// Generate writes Go source declaring a variable varName of type *codegen.Data
// to w. The source is part of package pkg.
func Generate(w io.Writer, tables *lr.Tables, pkg string, varName string) error {
	if tables == nil || tables.G == nil {
		return fmt.Errorf("no tables to generate code for")
	}
	if !token.IsIdentifier(pkg) || !token.IsIdentifier(varName) {
		return fmt.Errorf("illegal Go identifiers %q / %q", pkg, varName)
	}
	d := Extract(tables)
	var b bytes.Buffer
	b.WriteString("// Code generated by jacob. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("import (\n\t\"github.com/xiul/Jacob/lr/codegen\"\n")
	b.WriteString("\t\"github.com/xiul/Jacob/lr/sparse\"\n)\n\n")
	fmt.Fprintf(&b, "// %s holds the %s parser tables for grammar %q.\n", varName, d.Mode, d.Grammar)
	fmt.Fprintf(&b, "var %s = &codegen.Data{\n", varName)
	fmt.Fprintf(&b, "Grammar: %q,\n", d.Grammar)
	fmt.Fprintf(&b, "Mode: %q,\n", d.Mode)
	fmt.Fprintf(&b, "States: %d,\n", d.States)
	fmt.Fprintf(&b, "Start: %d,\n", d.Start)
	b.WriteString("Symbols: []string{\n")
	for v, name := range d.Symbols {
		fmt.Fprintf(&b, "%q, // %d\n", name, v)
	}
	b.WriteString("},\nRules: []string{\n")
	for serial, r := range d.Rules {
		fmt.Fprintf(&b, "%q, // %d\n", r, serial)
	}
	b.WriteString("},\n")
	writeTriplets(&b, "Action", d.Action)
	writeTriplets(&b, "Goto", d.Goto)
	fmt.Fprintf(&b, "Fingerprint: %q,\n}\n", d.Fingerprint)
	src, err := imports.Process(pkg+"_tables.go", b.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		tracer().Errorf("generated code does not format: %v", err)
		return fmt.Errorf("cannot format generated code: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// Extract collects the data of parser tables to emit.
func Extract(tables *lr.Tables) *Data {
	g := tables.G
	d := &Data{
		Grammar:     g.Name,
		Mode:        tables.Mode.String(),
		States:      tables.States,
		Start:       tables.Start,
		Action:      tables.Action.Triplets(),
		Goto:        tables.Goto.Triplets(),
		Fingerprint: tables.Fingerprint(),
	}
	for v := 0; v < g.SymbolCount(); v++ {
		d.Symbols = append(d.Symbols, g.SymbolByValue(v).Name)
	}
	for _, r := range g.Rules() {
		d.Rules = append(d.Rules, r.String())
	}
	return d
}

func writeTriplets(b *bytes.Buffer, field string, triplets []sparse.Triplet) {
	fmt.Fprintf(b, "%s: []sparse.Triplet{\n", field)
	row := -1
	for _, t := range triplets {
		if t.Row != row {
			if row >= 0 {
				b.WriteString("\n")
			}
			row = t.Row
		}
		fmt.Fprintf(b, "{Row: %d, Col: %d, Value: %d}, ", t.Row, t.Col, t.Value)
	}
	b.WriteString("\n},\n")
}

// Restore re-creates parser tables from emitted data. The grammar has to be
// identical to the one the tables have been constructed for, otherwise
// Restore returns an error.
func Restore(g *lr.Grammar, d *Data) (*lr.Tables, error) {
	if g == nil || d == nil {
		return nil, fmt.Errorf("cannot restore tables: missing grammar or data")
	}
	if len(d.Symbols) != g.SymbolCount() {
		return nil, fmt.Errorf("tables for %q have %d symbols, grammar %q has %d",
			d.Grammar, len(d.Symbols), g.Name, g.SymbolCount())
	}
	for v, name := range d.Symbols {
		if A := g.SymbolByValue(v); A == nil || A.Name != name {
			return nil, fmt.Errorf("symbol %d of tables is %q, does not match grammar %q", v, name, g.Name)
		}
	}
	if len(d.Rules) != g.Size() {
		return nil, fmt.Errorf("tables for %q have %d rules, grammar %q has %d",
			d.Grammar, len(d.Rules), g.Name, g.Size())
	}
	mode, err := lr.ParseMode(d.Mode)
	if err != nil {
		return nil, err
	}
	tables, err := lr.RestoreTables(g, mode, d.States, d.Start, d.Action, d.Goto)
	if err != nil {
		return nil, err
	}
	if fp := tables.Fingerprint(); fp != d.Fingerprint {
		return nil, fmt.Errorf("tables for %q do not match grammar %q (fingerprint %s)", d.Grammar, g.Name, fp)
	}
	tracer().Infof("restored %s tables for grammar %q", mode, g.Name)
	return tables, nil
}
