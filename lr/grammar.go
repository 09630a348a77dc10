package lr

import (
	"bytes"
	"fmt"

	"github.com/xiul/Jacob/lr/iteratable"
)

// Reserved symbol names.
const (
	StartSymbolName = "S'" // name of the augmented start symbol
	EOFName         = "$"  // default name of the end-of-input marker
)

// --- Symbols ---------------------------------------------------------------

// Symbol is a grammar symbol, either a terminal or a non-terminal.
// Symbols are identified by name and kind. Every symbol carries a dense
// integer value, which is used as a column index for parser tables.
// Terminals are numbered first, starting with the end-of-input marker (0).
type Symbol struct {
	Name     string
	Value    int
	terminal bool
}

// IsTerminal returns true if A is a terminal.
func (A *Symbol) IsTerminal() bool {
	return A != nil && A.terminal
}

func (A *Symbol) String() string {
	if A == nil {
		return "<nil>"
	}
	return A.Name
}

// --- Rules -----------------------------------------------------------------

// SemanticAction is a function attached to a grammar rule. When the parser
// reduces a rule, it calls the rule's action with the semantic values of the
// RHS symbols, left to right, and uses the result as the value of the LHS.
// The number of values always equals the length of the RHS.
type SemanticAction func(values []interface{}) (interface{}, error)

// DefaultAction returns the first value of the RHS, or nil for empty RHSs.
func DefaultAction(values []interface{}) (interface{}, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}

// Rule is a type for rules of a grammar. Rules cannot be shared between
// grammars. Rule no. 0 always is the augmented start rule  S' ➞ S.
type Rule struct {
	Serial int            // order number of this rule within a grammar
	LHS    *Symbol        // symbol of left hand side
	rhs    []*Symbol      // right hand side
	Action SemanticAction // called on reduction
}

// RHS returns the right hand side of a rule. Clients must not modify it.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// Len returns the number of symbols on the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEps returns true if the right hand side of r is empty.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("%s ➞", r.LHS))
	if len(r.rhs) == 0 {
		b.WriteString(" ε")
	}
	for _, A := range r.rhs {
		b.WriteString(" ")
		b.WriteString(A.Name)
	}
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for an augmented, context-free grammar.
// Create grammars with a GrammarBuilder. Grammars are immutable after
// construction.
type Grammar struct {
	Name         string
	rules        []*Rule
	terminals    []*Symbol // index equals symbol value
	nonterminals []*Symbol // index equals symbol value - len(terminals)
	symbols      map[string]*Symbol
	start        *Symbol // user defined start symbol
}

// GrammarError is returned for malformed grammars.
type GrammarError struct {
	Grammar string
	Msg     string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("grammar %s: %s", e.Grammar, e.Msg)
}

// Rule returns the grammar rule no. i, or nil.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Rules returns all rules, including the augmented start rule no. 0.
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

// Size returns the number of rules in the grammar.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// SymbolCount returns the number of terminals plus non-terminals.
func (g *Grammar) SymbolCount() int {
	return len(g.terminals) + len(g.nonterminals)
}

// TerminalCount returns the number of terminals, including the EOF marker.
func (g *Grammar) TerminalCount() int {
	return len(g.terminals)
}

// SymbolByName gets the symbol for a given name, or nil.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.symbols[name]
}

// Terminal returns the terminal with a given name, or nil.
func (g *Grammar) Terminal(name string) *Symbol {
	if A := g.symbols[name]; A.IsTerminal() {
		return A
	}
	return nil
}

// SymbolByValue returns the symbol for a table column value, or nil.
func (g *Grammar) SymbolByValue(v int) *Symbol {
	if v < 0 {
		return nil
	}
	if v < len(g.terminals) {
		return g.terminals[v]
	}
	if v -= len(g.terminals); v < len(g.nonterminals) {
		return g.nonterminals[v]
	}
	return nil
}

// EOF returns the end-of-input marker symbol.
func (g *Grammar) EOF() *Symbol {
	return g.terminals[0]
}

// Start returns the start symbol of the (non-augmented) grammar.
func (g *Grammar) Start() *Symbol {
	return g.start
}

// Terminals returns all terminals, starting with the EOF marker.
func (g *Grammar) Terminals() []*Symbol {
	return g.terminals
}

// NonTerminals returns all non-terminals, starting with the augmented start symbol.
func (g *Grammar) NonTerminals() []*Symbol {
	return g.nonterminals
}

// EachSymbol iterates over all symbols of the grammar, terminals first.
// Return values of the mapper function are ignored.
func (g *Grammar) EachSymbol(mapper func(*Symbol) interface{}) {
	for _, A := range g.terminals {
		mapper(A)
	}
	for _, A := range g.nonterminals {
		mapper(A)
	}
}

// EachNonTerminal iterates over all non-terminal symbols of the grammar.
// Return values of the mapper function are ignored.
func (g *Grammar) EachNonTerminal(mapper func(name string, N *Symbol) interface{}) {
	for _, A := range g.nonterminals {
		mapper(A.Name, A)
	}
}

// RulesFor returns all rules with LHS A, in declaration order.
func (g *Grammar) RulesFor(A *Symbol) []*Rule {
	var rules []*Rule
	for _, r := range g.rules {
		if r.LHS == A {
			rules = append(rules, r)
		}
	}
	return rules
}

// FindNonTermRules returns a set of LR(0) items, where each item stems from
// a rule with a given LHS and the dot is at position 0. If asItems is false,
// the set contains the rules themselves.
func (g *Grammar) FindNonTermRules(A *Symbol, asItems bool) *iteratable.Set {
	iset := newItemSet()
	for _, r := range g.RulesFor(A) {
		if asItems {
			item, _ := StartItem(r)
			iset.Add(item)
		} else {
			iset.Add(r)
		}
	}
	return iset
}

// Dump is a debugging helper, tracing all the rules of g.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	tracer().Debugf("Start symbol: %s", g.start)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------------------------------------")
}

// === Grammar Builder =======================================================

// GrammarBuilder is used to construct a Grammar.
//
//    b := NewGrammarBuilder("Expressions")
//    b.Terminals("+", "*", "(", ")", "integer")
//    b.LHS("E").N("E").T("+").N("T").Do(add)   // E  ➞  E + T
//    b.LHS("E").N("T").End()                   // E  ➞  T
//    …
//    g, err := b.Grammar()
//
// Rules are numbered in the order of their declaration, starting with 1.
// The first LHS is the start symbol, unless overridden with Start(…).
type GrammarBuilder struct {
	name      string
	terminals []string
	termset   map[string]bool
	rules     []*ruleDef
	start     string
	eof       string
}

type refKind int8

const (
	refAny refKind = iota
	refTerminal
	refNonTerminal
)

type symRef struct {
	name string
	kind refKind
}

type ruleDef struct {
	lhs    string
	rhs    []symRef
	action SemanticAction
	arity  int // declared arity, -1 if unknown
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar to build.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{
		name:    gname,
		termset: make(map[string]bool),
		eof:     EOFName,
	}
}

// Terminals declares terminal symbols. Terminals are identified by name; a
// tokenizer produces tokens carrying these names.
func (gb *GrammarBuilder) Terminals(names ...string) *GrammarBuilder {
	for _, name := range names {
		if !gb.termset[name] {
			gb.termset[name] = true
			gb.terminals = append(gb.terminals, name)
		}
	}
	return gb
}

// Start overrides the start symbol, which otherwise is the LHS of the first rule.
func (gb *GrammarBuilder) Start(name string) *GrammarBuilder {
	gb.start = name
	return gb
}

// EndMarker sets the name of the end-of-input terminal (default is "$").
func (gb *GrammarBuilder) EndMarker(name string) *GrammarBuilder {
	gb.eof = name
	return gb
}

// LHS starts a new rule with a given left hand side.
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	r := &ruleDef{lhs: name, action: DefaultAction, arity: -1}
	gb.rules = append(gb.rules, r)
	return &RuleBuilder{gb: gb, rule: r}
}

// RuleBuilder is a builder type for rules.
type RuleBuilder struct {
	gb   *GrammarBuilder
	rule *ruleDef
}

// N appends a non-terminal to the RHS of a rule.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rule.rhs = append(rb.rule.rhs, symRef{name: name, kind: refNonTerminal})
	return rb
}

// T appends a terminal to the RHS of a rule. The terminal is declared
// implicitly.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.gb.Terminals(name)
	rb.rule.rhs = append(rb.rule.rhs, symRef{name: name, kind: refTerminal})
	return rb
}

// Sym appends symbols to the RHS of a rule. Every name has to be either a
// declared terminal or the LHS of some rule.
func (rb *RuleBuilder) Sym(names ...string) *RuleBuilder {
	for _, name := range names {
		rb.rule.rhs = append(rb.rule.rhs, symRef{name: name, kind: refAny})
	}
	return rb
}

// Epsilon sets an empty RHS and ends the rule.
func (rb *RuleBuilder) Epsilon() {
	rb.rule.rhs = nil
}

// End ends the rule, using the default action.
func (rb *RuleBuilder) End() {}

// Do ends the rule with a semantic action.
func (rb *RuleBuilder) Do(action SemanticAction) {
	if action != nil {
		rb.rule.action = action
	}
}

// DoN ends the rule with a semantic action expecting arity values.
// Grammar() checks the arity against the length of the RHS.
func (rb *RuleBuilder) DoN(arity int, action SemanticAction) {
	rb.Do(action)
	rb.rule.arity = arity
}

// Grammar returns the grammar constructed by the builder, augmented by a
// start rule  S' ➞ S. It returns a *GrammarError if the grammar is malformed.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	fail := func(format string, args ...interface{}) (*Grammar, error) {
		err := &GrammarError{Grammar: gb.name, Msg: fmt.Sprintf(format, args...)}
		tracer().Errorf("%v", err)
		return nil, err
	}
	if len(gb.rules) == 0 {
		return fail("grammar has no rules")
	}
	if gb.eof == "" || gb.eof == StartSymbolName {
		return fail("illegal name for end marker: %q", gb.eof)
	}
	g := &Grammar{
		Name:    gb.name,
		symbols: make(map[string]*Symbol),
	}
	// terminals: EOF marker first
	lhsNames, lhsSet := gb.lhsNames()
	g.addTerminal(gb.eof)
	for _, name := range gb.terminals {
		if name == gb.eof || name == StartSymbolName {
			return fail("reserved name %q used as terminal", name)
		}
		if lhsSet[name] {
			return fail("symbol %q is declared as a terminal and used as LHS", name)
		}
		g.addTerminal(name)
	}
	// non-terminals: augmented start symbol first
	g.addNonTerminal(StartSymbolName)
	for _, name := range lhsNames {
		if name == gb.eof || name == StartSymbolName {
			return fail("reserved name %q used as non-terminal", name)
		}
		g.addNonTerminal(name)
	}
	startName := gb.start
	if startName == "" {
		startName = gb.rules[0].lhs
	}
	if !lhsSet[startName] {
		return fail("start symbol %q is not defined by any rule", startName)
	}
	g.start = g.symbols[startName]
	g.rules = append(g.rules, &Rule{
		Serial: 0,
		LHS:    g.symbols[StartSymbolName],
		rhs:    []*Symbol{g.start},
		Action: DefaultAction,
	})
	for i, rdef := range gb.rules {
		r := &Rule{
			Serial: i + 1,
			LHS:    g.symbols[rdef.lhs],
			Action: rdef.action,
		}
		for _, ref := range rdef.rhs {
			A, err := g.resolve(ref)
			if err != "" {
				return fail("rule %d (%s): %s", i+1, rdef.lhs, err)
			}
			r.rhs = append(r.rhs, A)
		}
		if rdef.arity >= 0 && rdef.arity != len(r.rhs) {
			return fail("rule %d (%s): action expects %d values, RHS has %d symbols",
				i+1, r, rdef.arity, len(r.rhs))
		}
		g.rules = append(g.rules, r)
	}
	return g, nil
}

func (gb *GrammarBuilder) lhsNames() ([]string, map[string]bool) {
	set := make(map[string]bool)
	var names []string
	for _, r := range gb.rules {
		if !set[r.lhs] {
			set[r.lhs] = true
			names = append(names, r.lhs)
		}
	}
	return names, set
}

func (g *Grammar) addTerminal(name string) {
	A := &Symbol{Name: name, Value: len(g.terminals), terminal: true}
	g.terminals = append(g.terminals, A)
	g.symbols[name] = A
}

func (g *Grammar) addNonTerminal(name string) {
	// terminals are complete at this point
	A := &Symbol{Name: name, Value: len(g.terminals) + len(g.nonterminals)}
	g.nonterminals = append(g.nonterminals, A)
	g.symbols[name] = A
}

func (g *Grammar) resolve(ref symRef) (*Symbol, string) {
	A, ok := g.symbols[ref.name]
	switch {
	case ref.name == StartSymbolName || ref.name == g.EOF().Name:
		return nil, fmt.Sprintf("reserved symbol %q used on RHS", ref.name)
	case !ok && ref.kind == refTerminal:
		return nil, fmt.Sprintf("terminal %q not declared", ref.name)
	case !ok && ref.kind == refNonTerminal:
		return nil, fmt.Sprintf("non-terminal %q is not defined by any rule", ref.name)
	case !ok:
		return nil, fmt.Sprintf("symbol %q is neither a declared terminal nor defined by any rule", ref.name)
	case ref.kind == refTerminal && !A.IsTerminal():
		return nil, fmt.Sprintf("symbol %q used as terminal, but is a non-terminal", ref.name)
	case ref.kind == refNonTerminal && A.IsTerminal():
		return nil, fmt.Sprintf("non-terminal %q is not defined by any rule", ref.name)
	}
	return A, ""
}
