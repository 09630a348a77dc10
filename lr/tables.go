package lr

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"github.com/xiul/Jacob/lr/sparse"
)

// Actions for parser action tables. Reduce actions are encoded as the
// (positive) serial number of the rule to reduce.
const (
	ShiftAction  = -1
	AcceptAction = -2
)

// Mode selects the table construction strategy.
type Mode int

// Table construction modes, from weakest to strongest.
const (
	SLR   Mode = iota // SLR(1): LR(0) automaton, lookaheads from FOLLOW sets
	LALR1             // LALR(1): LR(1) automaton with merged cores
	LR1               // canonical LR(1)
)

func (m Mode) String() string {
	switch m {
	case SLR:
		return "SLR"
	case LALR1:
		return "LALR1"
	case LR1:
		return "LR1"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name ("SLR", "LALR1", "LR1", case insensitive,
// parentheses allowed) to a Mode.
func ParseMode(s string) (Mode, error) {
	norm := strings.ToUpper(strings.NewReplacer("(", "", ")", "", " ", "").Replace(s))
	switch norm {
	case "SLR", "SLR1":
		return SLR, nil
	case "LALR", "LALR1":
		return LALR1, nil
	case "LR1", "CLR1":
		return LR1, nil
	}
	return SLR, fmt.Errorf("unknown table construction mode: %q", s)
}

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables(mode) constructs
// the CFSM and parser tables for an LR-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	mode         Mode
	gototable    *Table
	actiontable  *Table
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	return lrgen
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables(…) beforehand, but it is possible
// to call lrgen.CFSM() directly. In this case the LR(0) CFSM will be created,
// if it has not been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = buildCFSM(lrgen.ga, false)
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// Mode returns the construction mode of the most recent call to CreateTables.
func (lrgen *TableGenerator) Mode() Mode {
	return lrgen.mode
}

// CreateTables creates the necessary data structures for an LR parser,
// using a given construction strategy. If the grammar is not suitable for
// the strategy, CreateTables returns a *ShiftReduceConflict or a
// *ReduceReduceConflict, and no tables are available.
func (lrgen *TableGenerator) CreateTables(mode Mode) error {
	lrgen.mode = mode
	lrgen.gototable, lrgen.actiontable = nil, nil
	lrgen.HasConflicts = false
	switch mode {
	case SLR:
		lrgen.dfa = buildCFSM(lrgen.ga, false)
	case LR1:
		lrgen.dfa = buildCFSM(lrgen.ga, true)
	case LALR1:
		lrgen.dfa = mergeCores(buildCFSM(lrgen.ga, true))
	default:
		return fmt.Errorf("unknown table construction mode %d", int(mode))
	}
	gototable := lrgen.BuildGotoTable()
	actiontable, err := lrgen.buildActionTable()
	if err != nil {
		lrgen.HasConflicts = IsConflict(err)
		tracer().Infof("cannot create %s tables for %s: %v", mode, lrgen.g.Name, err)
		return err
	}
	lrgen.gototable, lrgen.actiontable = gototable, actiontable
	return nil
}

// Tables returns the parser tables, or nil if they have not been created
// successfully.
func (lrgen *TableGenerator) Tables() *Tables {
	if lrgen.actiontable == nil || lrgen.gototable == nil {
		return nil
	}
	return &Tables{
		G:      lrgen.g,
		Mode:   lrgen.mode,
		Action: lrgen.actiontable,
		Goto:   lrgen.gototable,
		Start:  lrgen.dfa.S0.ID,
		States: lrgen.dfa.Size(),
	}
}

// AcceptingStates returns all states of the CFSM which contain the completed
// start rule, i.e. states which accept on end of input.
// Clients have to call CreateTables() first.
func (lrgen *TableGenerator) AcceptingStates() []uint {
	if lrgen.dfa == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
		return nil
	}
	acc := make([]uint, 0, 1)
	for _, state := range lrgen.dfa.States() {
		if state.Accept {
			acc = append(acc, state.ID)
		}
	}
	return acc
}

// ===========================================================================

// BuildGotoTable builds the GOTO table. This is normally not called directly, but rather
// via CreateTables(). Columns for terminals hold the successor states for
// shift actions, columns for non-terminals the successor states after reductions.
func (lrgen *TableGenerator) BuildGotoTable() *Table {
	statescnt := lrgen.dfa.Size()
	extent := lrgen.g.SymbolCount()
	tracer().Infof("GOTO table of size %d x %d", statescnt, extent)
	gototable := newTable("GOTO", statescnt, extent)
	for _, state := range lrgen.dfa.States() {
		for _, e := range lrgen.dfa.allEdges(state) {
			gototable.set(state.ID, e.label.Value, int32(e.to.ID))
		}
	}
	return gototable
}

// For building an ACTION table we iterate over all the states of the CFSM.
// An inner loop iterates over all the items within a CFSM-state.
// If an item has a terminal immediately after the dot, we produce a shift
// entry. If an item's dot is behind the complete RHS of a rule,
// we produce a reduce-entry for the rule
// - for the SLR case: for each terminal from FOLLOW(LHS)
// - for the LR(1) and LALR(1) cases: for the lookahead of the item.
// Completing the start rule on end of input produces an accept entry.
//
// Writing a second, different action into a cell is a conflict and aborts
// table construction.
func (lrgen *TableGenerator) buildActionTable() (*Table, error) {
	statescnt := lrgen.dfa.Size()
	extent := lrgen.g.TerminalCount()
	tracer().Infof("ACTION table of size %d x %d", statescnt, extent)
	actions := newTable("ACTION", statescnt, extent)
	for _, state := range lrgen.dfa.States() {
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, x := range state.items.Values() {
			i := asItem(x)
			A := i.PeekSymbol()
			if A != nil && A.IsTerminal() { // create a shift entry
				tracer().Debugf("    creating shift entry --%v--> ", A)
				if err := lrgen.addAction(actions, state, A, ShiftAction); err != nil {
					return nil, err
				}
				continue
			}
			if A != nil {
				continue // goto entries are taken from the CFSM edges
			}
			for _, la := range lrgen.lookaheads(x) { // we are at the end of a rule
				action := int32(i.rule.Serial)
				if i.rule.Serial == 0 {
					if la != lrgen.g.EOF() {
						continue
					}
					action = AcceptAction
				}
				tracer().Debugf("    creating %s entry @ %v for %v", valstring(action, actions), la, i.rule)
				if err := lrgen.addAction(actions, state, la, action); err != nil {
					return nil, err
				}
			}
		}
	}
	return actions, nil
}

// lookaheads returns the terminals for which a complete item should reduce.
func (lrgen *TableGenerator) lookaheads(x interface{}) []*Symbol {
	if lrgen.mode == SLR {
		follow := lrgen.ga.Follow(asItem(x).rule.LHS)
		las := make([]*Symbol, 0, follow.Size())
		for _, la := range follow.Values() {
			las = append(las, la.(*Symbol))
		}
		return las
	}
	return []*Symbol{lookahead(x)}
}

func (lrgen *TableGenerator) addAction(actions *Table, state *CFSMState, la *Symbol, action int32) error {
	a := actions.Value(state.ID, la.Value)
	if a == actions.NullValue() || a == action {
		actions.set(state.ID, la.Value, action)
		return nil
	}
	tracer().Debugf("    %s is 2nd action, have %s", valstring(action, actions), valstring(a, actions))
	if a == ShiftAction || action == ShiftAction {
		reduce := action
		if reduce == ShiftAction {
			reduce = a
		}
		return &ShiftReduceConflict{
			State:      state.ID,
			Terminal:   la,
			Reduce:     lrgen.ruleOf(reduce),
			ShiftRules: lrgen.shiftRules(state, la),
			Mode:       lrgen.mode,
		}
	}
	return &ReduceReduceConflict{
		State:    state.ID,
		Terminal: la,
		Rules:    [2]*Rule{lrgen.ruleOf(a), lrgen.ruleOf(action)},
		Mode:     lrgen.mode,
	}
}

func (lrgen *TableGenerator) ruleOf(action int32) *Rule {
	if action == AcceptAction {
		return lrgen.g.Rule(0)
	}
	return lrgen.g.Rule(int(action))
}

// shiftRules collects the rules of all items in state which shift A.
func (lrgen *TableGenerator) shiftRules(state *CFSMState, A *Symbol) []*Rule {
	seen := make(map[*Rule]bool)
	var rules []*Rule
	for _, x := range state.items.Values() {
		if i := asItem(x); i.PeekSymbol() == A && !seen[i.rule] {
			seen[i.rule] = true
			rules = append(rules, i.rule)
		}
	}
	return rules
}

// --- Tables ----------------------------------------------------------------

// Table is a parser table, either an ACTION table or a GOTO table. Rows are
// indexed by state IDs, columns by symbol values.
type Table struct {
	name   string
	matrix *sparse.IntMatrix
}

func newTable(name string, states, symbols int) *Table {
	return &Table{
		name:   name,
		matrix: sparse.NewIntMatrix(states, symbols, sparse.DefaultNullValue),
	}
}

func (t *Table) set(state uint, col int, val int32) {
	t.matrix.Set(int(state), col, val)
}

// Name returns "ACTION" or "GOTO".
func (t *Table) Name() string {
	return t.name
}

// NullValue is the value of empty table cells.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the entry for a state and a symbol value.
func (t *Table) Value(state uint, col int) int32 {
	if col < 0 || col >= t.matrix.N() {
		return t.matrix.NullValue()
	}
	return t.matrix.Value(int(state), col)
}

// ValueCount returns the number of non-empty cells.
func (t *Table) ValueCount() int {
	return t.matrix.ValueCount()
}

// Each calls f for every non-empty cell, ordered by state and column.
func (t *Table) Each(f func(state uint, col int, val int32)) {
	t.matrix.Each(func(i, j int, v int32) {
		f(uint(i), j, v)
	})
}

// Tables is the result of a successful table construction: everything a
// parser needs to recognize the language of a grammar. Tables are immutable
// and may be shared between parsers running concurrently.
type Tables struct {
	G      *Grammar
	Mode   Mode
	Action *Table
	Goto   *Table
	Start  uint // start state
	States int  // number of states
}

// Fingerprint returns a hash over the table contents and the rule layout.
// Constructing tables twice from identical input yields equal fingerprints.
func (t *Tables) Fingerprint() string {
	type rule struct {
		LHS string
		RHS []string
	}
	var layout struct {
		Mode   int
		States int
		Rules  []rule
		Action []sparse.Triplet
		Goto   []sparse.Triplet
	}
	layout.Mode = int(t.Mode)
	layout.States = t.States
	for _, r := range t.G.rules {
		rr := rule{LHS: r.LHS.Name}
		for _, A := range r.rhs {
			rr.RHS = append(rr.RHS, A.Name)
		}
		layout.Rules = append(layout.Rules, rr)
	}
	layout.Action = t.Action.matrix.Triplets()
	layout.Goto = t.Goto.matrix.Triplets()
	h, err := structhash.Hash(layout, 1)
	if err != nil {
		tracer().Errorf("cannot compute table fingerprint: %v", err)
		return ""
	}
	return h
}

// RestoreTables re-creates tables for a grammar from their triplets, e.g.,
// from tables previously emitted as Go source. Triplets are checked against
// the dimensions of the tables, but not for consistency with g.
func RestoreTables(g *Grammar, mode Mode, states int, start uint,
	action, gototable []sparse.Triplet) (*Tables, error) {
	//
	if g == nil || states <= 0 || int(start) >= states {
		return nil, fmt.Errorf("cannot restore tables: invalid dimensions")
	}
	t := &Tables{
		G:      g,
		Mode:   mode,
		Start:  start,
		States: states,
		Action: newTable("ACTION", states, g.TerminalCount()),
		Goto:   newTable("GOTO", states, g.SymbolCount()),
	}
	fill := func(table *Table, triplets []sparse.Triplet) error {
		for _, tr := range triplets {
			if int(tr.Row) >= table.matrix.M() || int(tr.Col) >= table.matrix.N() ||
				tr.Row < 0 || tr.Col < 0 {
				return fmt.Errorf("cannot restore tables: %s entry (%d,%d) out of range",
					table.name, tr.Row, tr.Col)
			}
			table.set(uint(tr.Row), int(tr.Col), tr.Value)
		}
		return nil
	}
	if err := fill(t.Action, action); err != nil {
		return nil, err
	}
	if err := fill(t.Goto, gototable); err != nil {
		return nil, err
	}
	return t, nil
}

// Triplets returns the non-empty cells of a table.
func (t *Table) Triplets() []sparse.Triplet {
	return t.matrix.Triplets()
}

// ----------------------------------------------------------------------

// valstring is a short helper to stringify an action table value.
func valstring(v int32, m *Table) string {
	if v == m.NullValue() {
		return "<none>"
	} else if v == AcceptAction {
		return "<accept>"
	} else if v == ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}
