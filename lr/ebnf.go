package lr

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/exp/ebnf"
)

// ActionFactory supplies semantic actions for rules read from EBNF. It is
// called with the LHS and the RHS symbol names of every rule the user wrote.
// Returning nil selects DefaultAction.
type ActionFactory func(lhs string, rhs []string) SemanticAction

// GrammarFromEBNF reads a grammar in EBNF notation, as understood by package
// golang.org/x/exp/ebnf:
//
//    E = E "+" T | T .
//    T = T "*" F | F .
//    F = "(" E ")" | integer .
//
// Names without a production and quoted tokens are terminals. Terminals
// listed in terminals are declared first, in order. start names the start
// symbol and must not be empty.
//
// Groups, options and repetitions are rewritten into helper non-terminals.
// Their semantic values are: for a group or option the value of a single
// symbol or a []interface{} of the values of a sequence (nil for an absent
// option), for a repetition a []interface{} with one entry per iteration.
// An option spanning a whole production, as well as the empty production
// "A = .", produce ε-rules for the LHS itself.
func GrammarFromEBNF(name string, src io.Reader, start string, terminals []string,
	actions ActionFactory) (*Grammar, error) {
	//
	if start == "" {
		return nil, &GrammarError{Grammar: name, Msg: "no start symbol given for EBNF grammar"}
	}
	prods, err := ebnf.Parse(name, src)
	if err != nil {
		return nil, fmt.Errorf("cannot read EBNF grammar %s: %w", name, err)
	}
	if prods[start] == nil {
		return nil, &GrammarError{Grammar: name, Msg: fmt.Sprintf("start symbol %q has no production", start)}
	}
	d := &desugarer{
		gb:      NewGrammarBuilder(name).Start(start).Terminals(terminals...),
		prods:   prods,
		actions: actions,
		helpers: make(map[string]bool),
		counter: make(map[string]int),
	}
	order := make([]*ebnf.Production, 0, len(prods))
	for _, p := range prods {
		order = append(order, p)
	}
	sort.Slice(order, func(i, j int) bool {
		return order[i].Pos().Offset < order[j].Pos().Offset
	})
	for _, p := range order {
		if err := d.production(p); err != nil {
			return nil, &GrammarError{Grammar: name, Msg: err.Error()}
		}
	}
	return d.gb.Grammar()
}

type desugarer struct {
	gb      *GrammarBuilder
	prods   ebnf.Grammar
	actions ActionFactory
	helpers map[string]bool
	counter map[string]int
}

func (d *desugarer) production(p *ebnf.Production) error {
	lhs := p.Name.String
	switch x := p.Expr.(type) {
	case nil:
		d.rule(lhs, nil, d.userAction(lhs, nil))
		return nil
	case *ebnf.Option: // A = [ … ] .
		if err := d.alternatives(lhs, x.Body, true); err != nil {
			return err
		}
		d.rule(lhs, nil, d.userAction(lhs, nil))
		return nil
	}
	return d.alternatives(lhs, p.Expr, true)
}

// alternatives adds a rule for every alternative of x. User rules get
// actions from the factory, helper rules get their action from the caller.
func (d *desugarer) alternatives(lhs string, x ebnf.Expression, user bool) error {
	alts, ok := x.(ebnf.Alternative)
	if !ok {
		alts = ebnf.Alternative{x}
	}
	for _, alt := range alts {
		rhs, err := d.sequence(lhs, alt)
		if err != nil {
			return err
		}
		if user {
			d.rule(lhs, rhs, d.userAction(lhs, rhs))
		} else {
			d.rule(lhs, rhs, collect)
		}
	}
	return nil
}

func (d *desugarer) sequence(lhs string, x ebnf.Expression) ([]string, error) {
	seq, ok := x.(ebnf.Sequence)
	if !ok {
		seq = ebnf.Sequence{x}
	}
	rhs := make([]string, 0, len(seq))
	for _, e := range seq {
		sym, err := d.term(lhs, e)
		if err != nil {
			return nil, err
		}
		rhs = append(rhs, sym)
	}
	return rhs, nil
}

func (d *desugarer) term(lhs string, x ebnf.Expression) (string, error) {
	switch t := x.(type) {
	case *ebnf.Name:
		if d.prods[t.String] == nil {
			d.gb.Terminals(t.String)
		}
		return t.String, nil
	case *ebnf.Token:
		d.gb.Terminals(t.String)
		return t.String, nil
	case *ebnf.Group:
		h := d.helper(lhs, "grp")
		return h, d.alternatives(h, t.Body, false)
	case *ebnf.Option:
		h := d.helper(lhs, "opt")
		if err := d.alternatives(h, t.Body, false); err != nil {
			return "", err
		}
		d.rule(h, nil, DefaultAction)
		return h, nil
	case *ebnf.Repetition:
		h := d.helper(lhs, "rep")
		item := h + "·"
		d.helpers[item] = true
		if err := d.alternatives(item, t.Body, false); err != nil {
			return "", err
		}
		d.rule(h, []string{h, item}, appendItem) // left recursion keeps the stack flat
		d.rule(h, nil, emptyList)
		return h, nil
	case *ebnf.Range:
		return "", fmt.Errorf("%s: character ranges are not supported in grammar rules", t.Pos())
	case *ebnf.Bad:
		return "", fmt.Errorf("%s: %s", t.Pos(), t.Error)
	}
	return "", fmt.Errorf("unexpected EBNF expression %T in production %s", x, lhs)
}

func (d *desugarer) helper(lhs, kind string) string {
	d.counter[lhs]++
	h := fmt.Sprintf("%s#%s%d", lhs, kind, d.counter[lhs])
	d.helpers[h] = true
	return h
}

func (d *desugarer) rule(lhs string, rhs []string, action SemanticAction) {
	rb := d.gb.LHS(lhs)
	if len(rhs) == 0 {
		rb.Epsilon()
		rb.Do(action)
		return
	}
	for _, sym := range rhs {
		if d.prods[sym] != nil || d.helpers[sym] {
			rb.N(sym)
		} else {
			rb.T(sym)
		}
	}
	rb.Do(action)
}

func (d *desugarer) userAction(lhs string, rhs []string) SemanticAction {
	if d.actions == nil {
		return DefaultAction
	}
	if a := d.actions(lhs, rhs); a != nil {
		return a
	}
	return DefaultAction
}

// collect is the action for group and option alternatives.
func collect(values []interface{}) (interface{}, error) {
	if len(values) == 1 {
		return values[0], nil
	}
	return append([]interface{}(nil), values...), nil
}

func appendItem(values []interface{}) (interface{}, error) {
	list, _ := values[0].([]interface{})
	return append(list, values[1]), nil
}

func emptyList([]interface{}) (interface{}, error) {
	return []interface{}{}, nil
}

// --- Printing --------------------------------------------------------------

// EBNF writes the rules of g in EBNF notation, one production per
// non-terminal. ε-rules are written as an option around the remaining
// alternatives. The augmented start rule is omitted.
func (g *Grammar) EBNF(w io.Writer) error {
	var b bytes.Buffer
	for _, A := range g.nonterminals[1:] {
		var alts []string
		eps := false
		for _, r := range g.RulesFor(A) {
			if r.IsEps() {
				eps = true
				continue
			}
			syms := make([]string, len(r.rhs))
			for i, X := range r.rhs {
				syms[i] = ebnfSymbol(X)
			}
			alts = append(alts, strings.Join(syms, " "))
		}
		body := strings.Join(alts, " | ")
		if eps && body != "" {
			body = "[ " + body + " ]"
		}
		if body == "" {
			b.WriteString(fmt.Sprintf("%s = .\n", ebnfSymbol(A)))
		} else {
			b.WriteString(fmt.Sprintf("%s = %s .\n", ebnfSymbol(A), body))
		}
	}
	_, err := w.Write(b.Bytes())
	return err
}

func ebnfSymbol(A *Symbol) string {
	if A.IsTerminal() && !isIdentifier(A.Name) {
		return strconv.Quote(A.Name)
	}
	return A.Name
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !unicode.IsLetter(r) && r != '_' && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
