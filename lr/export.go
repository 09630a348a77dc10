package lr

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xiul/Jacob/lr/iteratable"
)

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	var b bytes.Buffer
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.States() {
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.items)))
	}
	it := c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID,
			escapeGraphviz(edge.label.Name)))
	}
	b.WriteString("}\n")
	_, err := w.Write(b.Bytes())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

// forGraphviz formats the items of a state as a record label.
// Lookaheads of LR(1) items sharing a core are collected into one line.
func forGraphviz(S *iteratable.Set) string {
	var cores []Item
	las := make(map[Item][]string)
	S.Each(func(x interface{}) {
		i := asItem(x)
		if _, ok := las[i]; !ok {
			cores = append(cores, i)
			las[i] = nil
		}
		if la := lookahead(x); la != nil {
			las[i] = append(las[i], la.Name)
		}
	})
	var b bytes.Buffer
	for n, i := range cores {
		if n > 0 {
			b.WriteString("\\l")
		}
		b.WriteString(escapeGraphviz(i.String()))
		if len(las[i]) > 0 {
			b.WriteString(escapeGraphviz(", " + strings.Join(las[i], "/")))
		}
	}
	b.WriteString("\\l")
	return b.String()
}

var graphvizEscaper = strings.NewReplacer(
	`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func escapeGraphviz(s string) string {
	return graphvizEscaper.Replace(s)
}

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.gototable == nil {
		return fmt.Errorf("GOTO table not yet created, cannot export to HTML")
	}
	return parserTableAsHTML(lrgen, lrgen.gototable, lrgen.g.SymbolCount(), w)
}

// ActionTableAsHTML exports the ACTION-table in HTML-format.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) error {
	if lrgen.actiontable == nil {
		return fmt.Errorf("ACTION table not yet created, cannot export to HTML")
	}
	return parserTableAsHTML(lrgen, lrgen.actiontable, lrgen.g.TerminalCount(), w)
}

func parserTableAsHTML(lrgen *TableGenerator, table *Table, cols int, w io.Writer) error {
	var b bytes.Buffer
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("%s %s table of size = %d<p>", lrgen.mode, table.Name(), table.ValueCount()))
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	for v := 0; v < cols; v++ {
		b.WriteString(fmt.Sprintf("<td>%s</td>", htmlEscaper.Replace(lrgen.g.SymbolByValue(v).Name)))
	}
	b.WriteString("</tr>\n")
	for _, state := range lrgen.dfa.States() {
		b.WriteString(fmt.Sprintf("<tr><td>state %d</td>\n", state.ID))
		for v := 0; v < cols; v++ {
			td := "&nbsp;"
			if val := table.Value(state.ID, v); val != table.NullValue() {
				td = cellString(table, val)
			}
			b.WriteString("<td>")
			b.WriteString(td)
			b.WriteString("</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := w.Write(b.Bytes())
	return err
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func cellString(table *Table, val int32) string {
	if table.Name() == "GOTO" {
		return fmt.Sprintf("%d", val)
	}
	switch val {
	case ShiftAction:
		return "s"
	case AcceptAction:
		return "acc"
	}
	return fmt.Sprintf("r%d", val)
}
