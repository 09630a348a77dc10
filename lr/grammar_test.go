package lr

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// Expression grammar, the classic.
//
//     E ➞ E + T | T
//     T ➞ T * F | F
//     F ➞ ( E ) | integer
//
func exprGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Expr")
	b.LHS("E").N("E").T("+").N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").N("T").T("*").N("F").End()
	b.LHS("T").N("F").End()
	b.LHS("F").T("(").N("E").T(")").End()
	b.LHS("F").T("integer").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// Grammar which is LALR(1), but not SLR.
//
//     S ➞ L = R | R
//     L ➞ * R | integer
//     R ➞ L
//
func nonSLRGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("NonSLR1")
	b.LHS("S").N("L").T("=").N("R").End()
	b.LHS("S").N("R").End()
	b.LHS("L").T("*").N("R").End()
	b.LHS("L").T("integer").End()
	b.LHS("R").N("L").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// Grammar which is LR(1), but not LALR(1).
//
//     S ➞ ! E ! | ? E ? | ! F ? | ? F !
//     E ➞ *
//     F ➞ *
//
func nonLALRGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("NonLALR1")
	b.LHS("S").T("!").N("E").T("!").End()
	b.LHS("S").T("?").N("E").T("?").End()
	b.LHS("S").T("!").N("F").T("?").End()
	b.LHS("S").T("?").N("F").T("!").End()
	b.LHS("E").T("*").End()
	b.LHS("F").T("*").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// Grammar with ε-rules.
//
//     S ➞ A a
//     A ➞ B D
//     B ➞ b | ε
//     D ➞ d | ε
//
func epsGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Eps")
	b.LHS("S").N("A").T("a").End()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").T("b").End()
	b.LHS("B").Epsilon()
	b.LHS("D").T("d").End()
	b.LHS("D").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGrammarAugmented(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	g.Dump()
	if g.Size() != 7 {
		t.Errorf("expected 7 rules including S' ➞ E, have %d", g.Size())
	}
	r0 := g.Rule(0)
	if r0.LHS.Name != StartSymbolName || len(r0.RHS()) != 1 || r0.RHS()[0] != g.Start() {
		t.Errorf("expected rule 0 to be S' ➞ E, is %v", r0)
	}
	if g.Start().Name != "E" {
		t.Errorf("expected start symbol E, have %v", g.Start())
	}
	if g.EOF().Name != "$" || g.EOF().Value != 0 || !g.EOF().IsTerminal() {
		t.Errorf("expected end marker $ with value 0, have %v/%d", g.EOF(), g.EOF().Value)
	}
	if g.TerminalCount() != 6 { // $ + * ( ) integer
		t.Errorf("expected 6 terminals, have %d", g.TerminalCount())
	}
	for v := 0; v < g.SymbolCount(); v++ {
		if A := g.SymbolByValue(v); A == nil || A.Value != v {
			t.Errorf("symbol value %d does not map to a symbol", v)
		}
	}
	if g.Terminal("E") != nil || g.Terminal("integer") == nil {
		t.Errorf("Terminal() does not distinguish terminals from non-terminals")
	}
	if r := g.Rule(4); r.String() != "T ➞ F" {
		t.Errorf("expected rule 4 to print as 'T ➞ F', is %q", r.String())
	}
}

func TestGrammarStartOverride(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("A").T("a").End()
	b.LHS("S").N("A").N("A").End()
	b.Start("S").EndMarker("EOF")
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if g.Start().Name != "S" {
		t.Errorf("expected start symbol S, have %v", g.Start())
	}
	if g.EOF().Name != "EOF" {
		t.Errorf("expected end marker EOF, have %v", g.EOF())
	}
	if g.Size() != 3 || g.Rule(0).RHS()[0] != g.Start() {
		t.Errorf("unexpected rule layout, rule 0 = %v", g.Rule(0))
	}
}

func TestGrammarErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	noop := func([]interface{}) (interface{}, error) { return nil, nil }
	tests := []struct {
		name  string
		build func(b *GrammarBuilder)
		msg   string
	}{
		{"empty", func(b *GrammarBuilder) {}, "no rules"},
		{"undefined", func(b *GrammarBuilder) {
			b.LHS("S").N("A").End()
		}, "not defined"},
		{"unknown", func(b *GrammarBuilder) {
			b.LHS("S").Sym("x").End()
		}, "neither"},
		{"start", func(b *GrammarBuilder) {
			b.LHS("S").T("a").End()
			b.Start("X")
		}, "start symbol"},
		{"arity", func(b *GrammarBuilder) {
			b.LHS("S").T("a").T("b").DoN(3, noop)
		}, "expects 3 values"},
		{"reserved", func(b *GrammarBuilder) {
			b.LHS("S").T("$").End()
		}, "reserved"},
		{"both", func(b *GrammarBuilder) {
			b.Terminals("A")
			b.LHS("S").N("A").End()
			b.LHS("A").T("a").End()
		}, "terminal"},
	}
	for _, test := range tests {
		b := NewGrammarBuilder(test.name)
		test.build(b)
		_, err := b.Grammar()
		if err == nil {
			t.Errorf("%s: expected grammar error, got none", test.name)
			continue
		}
		var gerr *GrammarError
		if !errors.As(err, &gerr) {
			t.Errorf("%s: expected *GrammarError, got %T", test.name, err)
		}
		if !strings.Contains(err.Error(), test.msg) {
			t.Errorf("%s: expected error to mention %q, is %q", test.name, test.msg, err.Error())
		}
	}
}

func TestGrammarSymSlots(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Sym")
	b.Terminals("a", "b")
	b.LHS("S").Sym("a", "X", "b").End()
	b.LHS("X").Sym("a").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	rhs := g.Rule(1).RHS()
	if !rhs[0].IsTerminal() || rhs[1].IsTerminal() || !rhs[2].IsTerminal() {
		t.Errorf("Sym() did not resolve terminals and non-terminals: %v", g.Rule(1))
	}
}
