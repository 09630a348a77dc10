package lr

import (
	"github.com/xiul/Jacob/lr/iteratable"
)

// === LR(1) Closure =========================================================

// Refer to "Compilers: Principles, Techniques, and Tools" (2nd ed.) by Aho,
// Lam, Sethi & Ullman, Section 4.7.2 Constructing LR(1) Sets of Items.

// Compute the LR(1) closure of a single item.
func (ga *LRAnalysis) closure1(i LR1Item) *iteratable.Set {
	S := newItemSet()
	S.Add(i)
	return ga.closure1Set(S)
}

// Compute the LR(1) closure of an item set: for every item  [A ➞ α • B β, a]
// add all items  [B ➞ • γ, b]  for every terminal b in FIRST(β a).
func (ga *LRAnalysis) closure1Set(S *iteratable.Set) *iteratable.Set {
	C := S.Copy()
	C.IterateOnce()
	for C.Next() {
		item := C.Item().(LR1Item)
		B := item.PeekSymbol()
		if B == nil || B.IsTerminal() {
			continue
		}
		L, nullable := ga.FirstOfSequence(item.Rest())
		if nullable {
			L.Add(item.LA)
		}
		for _, r := range ga.g.RulesFor(B) {
			start, _ := StartItem(r)
			for _, b := range L.Values() {
				C.Add(LR1Item{Item: start, LA: b.(*Symbol)})
			}
		}
	}
	return C
}

// === LALR(1) ===============================================================

// mergeCores derives the LALR(1) automaton from a canonical LR(1) automaton,
// merging all states which share an LR(0) core. The items of a merged state
// are the union of the LR(1) items of its members, i.e. every core item
// carries the union of the lookaheads. Merged states are numbered in order of
// the first appearance of their core, thus the start state keeps ID 0.
//
// Transitions of merged states are well defined: states with equal cores
// have successors with equal cores for every symbol.
func mergeCores(lr1 *CFSM) *CFSM {
	tracer().Debugf("=== merge LR(1) states with equal cores ==========================")
	c := emptyCFSM(lr1.g, true)
	c.coreKeys = true
	merged := make([]*CFSMState, lr1.Size())
	for _, s := range lr1.arena { // in order of IDs
		key := itemSetKey(s.items, false)
		m := c.byKey[key]
		if m == nil {
			m = state(c.cfsmIds, newItemSet(), key)
			c.cfsmIds++
			c.states.Add(m)
			c.arena = append(c.arena, m)
			c.byKey[key] = m
		}
		m.items.Union(s.items)
		m.Accept = m.Accept || s.Accept
		merged[s.ID] = m
		tracer().Debugf("LR(1) state %d merged into LALR(1) state %d", s.ID, m.ID)
	}
	it := lr1.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		c.addEdge(merged[e.from.ID], merged[e.to.ID], e.label)
	}
	c.S0 = merged[lr1.S0.ID]
	tracer().Infof("LALR(1) CFSM for %s has %d states (LR(1): %d)", c.g.Name, c.Size(), lr1.Size())
	return c
}
