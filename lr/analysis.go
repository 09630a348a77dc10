package lr

import (
	"github.com/xiul/Jacob/lr/iteratable"
)

// LRAnalysis is an object for grammar analysis (compute FIRST and FOLLOW sets,
// and determine which non-terminals derive ε).
type LRAnalysis struct {
	g          *Grammar
	derivesEps map[*Symbol]bool
	firstSets  map[*Symbol]*iteratable.Set // sets of terminals
	followSets map[*Symbol]*iteratable.Set // sets of terminals
}

// Analysis creates an analyser for a grammar. The analyser immediately
// computes nullability, FIRST sets and FOLLOW sets, each by iterating to a
// fixpoint. Every iteration only grows sets, which are bounded by the finite
// alphabet of g.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:          g,
		derivesEps: make(map[*Symbol]bool),
		firstSets:  make(map[*Symbol]*iteratable.Set),
		followSets: make(map[*Symbol]*iteratable.Set),
	}
	ga.markEps()
	ga.initFirstSets()
	ga.initFollowSets()
	return ga
}

// Grammar returns the grammar this analyser operates on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// DerivesEpsilon returns true if a symbol may derive the empty sequence.
func (ga *LRAnalysis) DerivesEpsilon(A *Symbol) bool {
	return ga.derivesEps[A]
}

// First returns FIRST(A), a set of terminal symbols. The returned set is a copy.
// Whether ε is in FIRST(A) has to be checked with DerivesEpsilon(A).
func (ga *LRAnalysis) First(A *Symbol) *iteratable.Set {
	return ga.firstSets[A].Copy()
}

// Follow returns FOLLOW(A), a set of terminal symbols. The returned set is
// a copy. For terminals the set is empty.
func (ga *LRAnalysis) Follow(A *Symbol) *iteratable.Set {
	if f, ok := ga.followSets[A]; ok {
		return f.Copy()
	}
	return iteratable.NewSet(0)
}

// FirstOfSequence returns FIRST(X1 … Xn), together with a flag indicating
// if the whole sequence derives ε.
func (ga *LRAnalysis) FirstOfSequence(syms []*Symbol) (*iteratable.Set, bool) {
	F := iteratable.NewSet(0)
	return F, ga.addFirstOfSequence(F, syms)
}

// addFirstOfSequence adds FIRST(X1 … Xn) to F and reports if the sequence
// is nullable.
func (ga *LRAnalysis) addFirstOfSequence(F *iteratable.Set, syms []*Symbol) bool {
	for _, A := range syms {
		if A.IsTerminal() {
			F.Add(A)
			return false
		}
		F.Union(ga.firstSets[A])
		if !ga.derivesEps[A] {
			return false
		}
	}
	return true
}

func (ga *LRAnalysis) markEps() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			if ga.derivesEps[r.LHS] {
				continue
			}
			nullable := true
			for _, A := range r.rhs {
				if A.IsTerminal() || !ga.derivesEps[A] {
					nullable = false
					break
				}
			}
			if nullable {
				tracer().Debugf("%s derives ε", r.LHS)
				ga.derivesEps[r.LHS] = true
				changed = true
			}
		}
	}
}

func (ga *LRAnalysis) initFirstSets() {
	for _, A := range ga.g.terminals {
		ga.firstSets[A] = iteratable.NewSet(1).Add(A)
	}
	for _, A := range ga.g.nonterminals {
		ga.firstSets[A] = iteratable.NewSet(0)
	}
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			F := ga.firstSets[r.LHS]
			before := F.Size()
			ga.addFirstOfSequence(F, r.rhs)
			if F.Size() > before {
				changed = true
			}
		}
	}
	for _, A := range ga.g.nonterminals {
		tracer().Debugf("FIRST(%s) = %s", A, itemSetString(ga.firstSets[A]))
	}
}

func (ga *LRAnalysis) initFollowSets() {
	for _, A := range ga.g.nonterminals {
		ga.followSets[A] = iteratable.NewSet(0)
	}
	ga.followSets[ga.g.rules[0].LHS].Add(ga.g.EOF())
	ga.followSets[ga.g.start].Add(ga.g.EOF())
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			for n, A := range r.rhs {
				if A.IsTerminal() {
					continue
				}
				F := ga.followSets[A]
				before := F.Size()
				if ga.addFirstOfSequence(F, r.rhs[n+1:]) { // β nullable or empty
					F.Union(ga.followSets[r.LHS])
				}
				if F.Size() > before {
					changed = true
				}
			}
		}
	}
	for _, A := range ga.g.nonterminals {
		tracer().Debugf("FOLLOW(%s) = %s", A, itemSetString(ga.followSets[A]))
	}
}
