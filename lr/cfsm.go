package lr

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/xiul/Jacob/lr/iteratable"
)

// https://stackoverflow.com/questions/12968048/what-is-the-closure-of-a-left-recursive-lr0-item-with-epsilon-transitions
// https://www.cs.bgu.ac.il/~comp151/wiki.files/ps6.html#sec-2-7-3

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// Compute the closure of an LR(0) item.
func (ga *LRAnalysis) closure(i Item) *iteratable.Set {
	S := newItemSet()
	S.Add(i)
	return ga.closureSet(S)
}

// Compute the LR(0) closure of an item set: for every item  A ➞ α • B β
// add all items  B ➞ • γ  until nothing changes.
func (ga *LRAnalysis) closureSet(S *iteratable.Set) *iteratable.Set {
	C := S.Copy() // add start items to closure
	C.IterateOnce()
	for C.Next() {
		item := asItem(C.Item())
		A := item.PeekSymbol()           // get symbol A after dot
		if A != nil && !A.IsTerminal() { // A is non-terminal
			R := ga.g.FindNonTermRules(A, true)
			if New := R.Difference(C); !New.Empty() {
				C.Union(New)
			}
		}
	}
	return C
}

// gotoSet advances the dot over A for every item of a closure with A after
// the dot. It works for LR(0) items as well as for LR(1) items.
func (ga *LRAnalysis) gotoSet(closure *iteratable.Set, A *Symbol) (*iteratable.Set, *Symbol) {
	// for every item in closure C
	// if item in C:  N -> ... *A ...
	//     advance N -> ... A * ...
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		switch i := x.(type) {
		case Item:
			if i.PeekSymbol() == A {
				gotoset.Add(i.Advance())
			}
		case LR1Item:
			if i.PeekSymbol() == A {
				gotoset.Add(i.Advance())
			}
		}
	}
	return gotoset, A
}

func (ga *LRAnalysis) gotoSetClosure(i *iteratable.Set, A *Symbol, lr1 bool) (*iteratable.Set, *Symbol) {
	gotoset, _ := ga.gotoSet(i, A)
	var gclosure *iteratable.Set
	if lr1 {
		gclosure = ga.closure1Set(gotoset)
	} else {
		gclosure = ga.closureSet(gotoset)
	}
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure, A
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     uint            // serial ID of this state
	items  *iteratable.Set // configuration items within this state
	Accept bool            // is this an accepting state?
	key    string          // hash key of the item set
}

// CFSM edge between 2 states, directed and labeled with a grammar symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

type edgeKey struct {
	from  uint
	label int
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

// Items returns the items of a state. For SLR automata these are of type Item,
// otherwise of type LR1Item. The slice is a copy.
func (s *CFSMState) Items() []interface{} {
	return s.items.Values()
}

// Create a state from an item set
func state(id uint, iset *iteratable.Set, key string) *CFSMState {
	s := &CFSMState{ID: id, key: key}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	return s
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.Serial == 0 && i.PeekSymbol() == nil {
			return true
		}
	}
	return false
}

// symbolsAfterDot returns all symbols which occur after a dot in the items of
// s, ordered by symbol value.
func (s *CFSMState) symbolsAfterDot() []*Symbol {
	seen := make(map[*Symbol]bool)
	var syms []*Symbol
	for _, x := range s.items.Values() {
		if A := asItem(x).PeekSymbol(); A != nil && !seen[A] {
			seen[A] = true
			syms = append(syms, A)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].Value < syms[j].Value })
	return syms
}

// Create an edge
func edge(from, to *CFSMState, label *Symbol) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(int(c1.ID), int(c2.ID))
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram (or the LR(1) state diagram for LR(1) and LALR(1)
// tables). Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes, or even to
// compute your own tables from it.
//
// States live in an arena, indexed by ID, and edges are indexed by
// (state, symbol).
type CFSM struct {
	g         *Grammar               // this CFSM is for Grammar g
	states    *treeset.Set           // all the states
	arena     []*CFSMState           // states by ID
	byKey     map[string]*CFSMState  // states by item set key
	edges     *arraylist.List        // all the edges between states
	edgeIndex map[edgeKey]*CFSMState // transition function
	S0        *CFSMState             // start state
	cfsmIds   uint                   // serial IDs for CFSM states
	lr1       bool                   // items carry lookaheads
	coreKeys  bool                   // states are identified by their LR(0) core
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar, lr1 bool) *CFSM {
	c := &CFSM{g: g, lr1: lr1}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.byKey = make(map[string]*CFSMState)
	c.edgeIndex = make(map[edgeKey]*CFSMState)
	return c
}

// Add a state to the CFSM. Checks first if state is present.
func (c *CFSM) addState(iset *iteratable.Set) (*CFSMState, bool) {
	key := itemSetKey(iset, c.lr1 && !c.coreKeys)
	if s := c.byKey[key]; s != nil {
		return s, false
	}
	s := state(c.cfsmIds, iset, key)
	c.cfsmIds++
	c.states.Add(s)
	c.arena = append(c.arena, s)
	c.byKey[key] = s
	return s, true
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) *cfsmEdge {
	k := edgeKey{from: s0.ID, label: sym.Value}
	if to, ok := c.edgeIndex[k]; ok {
		if to != s1 {
			panic(fmt.Sprintf("CFSM is not deterministic: %s --%s--> %s and %s", s0, sym, to, s1))
		}
		return nil
	}
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	c.edgeIndex[k] = s1
	return e
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return len(c.arena)
}

// State returns the state with a given ID, or nil.
func (c *CFSM) State(id uint) *CFSMState {
	if int(id) >= len(c.arena) {
		return nil
	}
	return c.arena[id]
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	states := make([]*CFSMState, 0, c.states.Size())
	for _, x := range c.states.Values() {
		states = append(states, x.(*CFSMState))
	}
	return states
}

// Goto returns the successor state of s for symbol A, or nil.
func (c *CFSM) Goto(s *CFSMState, A *Symbol) *CFSMState {
	if s == nil || A == nil {
		return nil
	}
	return c.edgeIndex[edgeKey{from: s.ID, label: A.Value}]
}

// Construct the characteristic finite state machine CFSM for a grammar.
// For lr1 == false the states consist of LR(0) items, otherwise of LR(1)
// items. States are discovered by a worklist algorithm, starting with the
// closure of the augmented start item.
func buildCFSM(ga *LRAnalysis, lr1 bool) *CFSM {
	tracer().Debugf("=== build CFSM (lr1=%v) =========================================", lr1)
	G := ga.g
	cfsm := emptyCFSM(G, lr1)
	item, sym := StartItem(G.rules[0])
	tracer().Debugf("Start item=%v/%v", item, sym)
	var closure0 *iteratable.Set
	if lr1 {
		closure0 = ga.closure1(LR1Item{Item: item, LA: G.EOF()})
	} else {
		closure0 = ga.closure(item)
	}
	cfsm.S0, _ = cfsm.addState(closure0)
	cfsm.S0.Dump()
	S := treeset.NewWith(stateComparator)
	S.Add(cfsm.S0)
	for S.Size() > 0 {
		s := S.Values()[0].(*CFSMState)
		S.Remove(s)
		for _, A := range s.symbolsAfterDot() {
			tracer().Debugf("checking goto-set for symbol = %v", A)
			gotoset, _ := ga.gotoSetClosure(s.items, A, lr1)
			snew, isNew := cfsm.addState(gotoset)
			if isNew {
				S.Add(snew)
				if snew.containsCompletedStartRule() {
					snew.Accept = true
				}
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
		}
	}
	tracer().Infof("CFSM for %s has %d states", G.Name, cfsm.Size())
	return cfsm
}
