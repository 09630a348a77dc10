package lr

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestCFSMSizes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	tests := []struct {
		name    string
		grammar func(*testing.T) *Grammar
		lr0     int
		lr1     int
	}{
		{"Expr", exprGrammar, 12, 22},
		{"NonSLR1", nonSLRGrammar, 10, 14},
	}
	for _, test := range tests {
		ga := Analysis(test.grammar(t))
		lr0 := buildCFSM(ga, false)
		lr1 := buildCFSM(ga, true)
		lalr := mergeCores(lr1)
		if lr0.Size() != test.lr0 {
			t.Errorf("%s: expected LR(0) CFSM with %d states, have %d", test.name, test.lr0, lr0.Size())
		}
		if lr1.Size() != test.lr1 {
			t.Errorf("%s: expected LR(1) CFSM with %d states, have %d", test.name, test.lr1, lr1.Size())
		}
		if lalr.Size() != lr0.Size() {
			t.Errorf("%s: expected LALR(1) CFSM to have as many states as LR(0), have %d ≠ %d",
				test.name, lalr.Size(), lr0.Size())
		}
		if lalr.S0.ID != 0 || lr1.S0.ID != 0 || lr0.S0.ID != 0 {
			t.Errorf("%s: start state should have ID 0", test.name)
		}
	}
}

func TestCFSMGoto(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	lrgen := NewTableGenerator(Analysis(g))
	c := lrgen.CFSM()
	s := c.Goto(c.S0, g.SymbolByName("E"))
	if s == nil || !s.Accept {
		t.Fatalf("expected goto(S0, E) to be accepting, is %v", s)
	}
	if c.Goto(s, g.Terminal("(")) != nil {
		t.Errorf("expected no transition for '(' after E")
	}
	if c.State(s.ID) != s {
		t.Errorf("state arena out of sync for state %d", s.ID)
	}
}

func TestTablesConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	tests := []struct {
		name    string
		grammar func(*testing.T) *Grammar
		mode    Mode
		msg     string // empty if tables should be constructed
	}{
		{"Expr", exprGrammar, SLR, ""},
		{"Expr", exprGrammar, LALR1, ""},
		{"Expr", exprGrammar, LR1, ""},
		{"NonSLR1", nonSLRGrammar, SLR, "Shift / Reduce conflict"},
		{"NonSLR1", nonSLRGrammar, LALR1, ""},
		{"NonSLR1", nonSLRGrammar, LR1, ""},
		{"NonLALR1", nonLALRGrammar, SLR, "Reduce/Reduce conflict"},
		{"NonLALR1", nonLALRGrammar, LALR1, "Reduce/Reduce conflict"},
		{"NonLALR1", nonLALRGrammar, LR1, ""},
		{"Eps", epsGrammar, SLR, ""},
		{"Eps", epsGrammar, LR1, ""},
	}
	for _, test := range tests {
		lrgen := NewTableGenerator(Analysis(test.grammar(t)))
		err := lrgen.CreateTables(test.mode)
		if test.msg == "" {
			if err != nil {
				t.Errorf("%s/%s: unexpected error: %v", test.name, test.mode, err)
			} else if lrgen.Tables() == nil {
				t.Errorf("%s/%s: tables missing", test.name, test.mode)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s/%s: expected %s, got none", test.name, test.mode, test.msg)
			continue
		}
		if !strings.Contains(err.Error(), test.msg) {
			t.Errorf("%s/%s: expected %s, got %v", test.name, test.mode, test.msg, err)
		}
		if !IsConflict(err) || !lrgen.HasConflicts || lrgen.Tables() != nil {
			t.Errorf("%s/%s: conflict not reported properly", test.name, test.mode)
		}
	}
}

func TestShiftReduceConflictDetails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	g := nonSLRGrammar(t)
	lrgen := NewTableGenerator(Analysis(g))
	err := lrgen.CreateTables(SLR)
	var sr *ShiftReduceConflict
	if !errors.As(err, &sr) {
		t.Fatalf("expected a shift/reduce conflict, got %v", err)
	}
	if sr.Terminal.Name != "=" {
		t.Errorf("expected conflict on '=', is on %v", sr.Terminal)
	}
	if sr.Reduce.String() != "R ➞ L" {
		t.Errorf("expected conflicting reduction R ➞ L, is %v", sr.Reduce)
	}
	if len(sr.ShiftRules) != 1 || sr.ShiftRules[0].String() != "S ➞ L = R" {
		t.Errorf("expected shift by S ➞ L = R, have %v", sr.ShiftRules)
	}
}

func TestTablesEntries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	for _, mode := range []Mode{SLR, LALR1, LR1} {
		lrgen := NewTableGenerator(Analysis(g))
		if err := lrgen.CreateTables(mode); err != nil {
			t.Fatal(err)
		}
		tables := lrgen.Tables()
		if tables.Start != 0 || tables.Mode != mode {
			t.Errorf("%s: unexpected table header %d/%s", mode, tables.Start, tables.Mode)
		}
		acc := lrgen.AcceptingStates()
		if len(acc) != 1 {
			t.Fatalf("%s: expected 1 accepting state, have %v", mode, acc)
		}
		if a := tables.Action.Value(acc[0], g.EOF().Value); a != AcceptAction {
			t.Errorf("%s: expected accept on $ in state %d, have %s", mode, acc[0], valstring(a, tables.Action))
		}
		integer := g.Terminal("integer")
		if a := tables.Action.Value(0, integer.Value); a != ShiftAction {
			t.Errorf("%s: expected shift on integer in state 0, have %s", mode, valstring(a, tables.Action))
		}
		s := tables.Goto.Value(0, integer.Value)
		if a := tables.Action.Value(uint(s), g.EOF().Value); a != 6 {
			t.Errorf("%s: expected reduce by F ➞ integer after integer, have %s", mode, valstring(a, tables.Action))
		}
		if a := tables.Action.Value(0, g.Terminal("+").Value); a != tables.Action.NullValue() {
			t.Errorf("%s: expected no action for '+' in state 0", mode)
		}
	}
}

func TestTablesIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	for _, mode := range []Mode{SLR, LALR1, LR1} {
		var prints [2]string
		for i := range prints {
			lrgen := NewTableGenerator(Analysis(exprGrammar(t)))
			if err := lrgen.CreateTables(mode); err != nil {
				t.Fatal(err)
			}
			prints[i] = lrgen.Tables().Fingerprint()
		}
		if prints[0] == "" || prints[0] != prints[1] {
			t.Errorf("%s: fingerprints differ: %q vs %q", mode, prints[0], prints[1])
		}
	}
	lrgen := NewTableGenerator(Analysis(exprGrammar(t)))
	lrgen.CreateTables(SLR)
	slr := lrgen.Tables().Fingerprint()
	lrgen.CreateTables(LR1)
	if slr == lrgen.Tables().Fingerprint() {
		t.Errorf("SLR and LR(1) tables should differ for the expression grammar")
	}
}

func TestParseMode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	tests := []struct {
		in   string
		mode Mode
		ok   bool
	}{
		{"SLR", SLR, true},
		{"lalr1", LALR1, true},
		{"LALR(1)", LALR1, true},
		{"LR(1)", LR1, true},
		{"LL1", SLR, false},
	}
	for _, test := range tests {
		m, err := ParseMode(test.in)
		if (err == nil) != test.ok || (test.ok && m != test.mode) {
			t.Errorf("ParseMode(%q) = %s, %v", test.in, m, err)
		}
	}
}

func TestExports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(Analysis(nonSLRGrammar(t)))
	if err := lrgen.CreateTables(LALR1); err != nil {
		t.Fatal(err)
	}
	var dot, html bytes.Buffer
	if err := lrgen.CFSM().CFSM2GraphViz(&dot); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dot.String(), "digraph {") || !strings.Contains(dot.String(), "s000 -> ") {
		t.Errorf("unexpected GraphViz output:\n%s", dot.String())
	}
	if err := ActionTableAsHTML(lrgen, &html); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html.String(), "acc") {
		t.Errorf("expected an accept entry in ACTION table HTML")
	}
	if err := GotoTableAsHTML(lrgen, &html); err != nil {
		t.Fatal(err)
	}
}
