package lr

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/cnf/structhash"
	"github.com/xiul/Jacob/lr/iteratable"
)

// --- LR(0) items -----------------------------------------------------------

// Item is an LR(0) item, i.e. a rule with a dot marking the progress of
// recognizing the rule's RHS.
//
//    E ➞ E • + T
//
// Items are values and may be compared with ==.
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns the item for a rule with the dot at position 0, together
// with the symbol after the dot.
func StartItem(r *Rule) (Item, *Symbol) {
	i := Item{rule: r, dot: 0}
	return i, i.PeekSymbol()
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the position of the dot.
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol after the dot, or nil for complete items.
func (i Item) PeekSymbol() *Symbol {
	if i.rule == nil || i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Advance returns the item with the dot moved one symbol to the right.
// Advancing a complete item returns the item unchanged.
func (i Item) Advance() Item {
	if i.dot < len(i.rule.rhs) {
		return Item{rule: i.rule, dot: i.dot + 1}
	}
	return i
}

// Rest returns the symbols behind the symbol after the dot, i.e. β for an
// item A ➞ α • B β.
func (i Item) Rest() []*Symbol {
	if i.dot+1 >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot+1:]
}

// IsComplete is true if the dot is behind the RHS.
func (i Item) IsComplete() bool {
	return i.dot >= len(i.rule.rhs)
}

func (i Item) String() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("[%s] ::= [", i.rule.LHS))
	for n, A := range i.rule.rhs {
		if n == i.dot {
			b.WriteString("•")
		} else if n > 0 {
			b.WriteString(" ")
		}
		b.WriteString(A.Name)
	}
	if i.dot == len(i.rule.rhs) {
		b.WriteString("•")
	}
	b.WriteString("]")
	return b.String()
}

// --- LR(1) items -----------------------------------------------------------

// LR1Item is an LR(0) item plus a single lookahead terminal.
type LR1Item struct {
	Item
	LA *Symbol
}

// Advance returns the LR(1) item with the dot moved one position right,
// keeping the lookahead.
func (i LR1Item) Advance() LR1Item {
	return LR1Item{Item: i.Item.Advance(), LA: i.LA}
}

func (i LR1Item) String() string {
	return fmt.Sprintf("%s, %s", i.Item, i.LA)
}

// --- Item sets -------------------------------------------------------------

func newItemSet() *iteratable.Set {
	return iteratable.NewSet(0)
}

// asItem returns the LR(0) core of an item set element.
func asItem(x interface{}) Item {
	switch i := x.(type) {
	case Item:
		return i
	case LR1Item:
		return i.Item
	}
	panic(fmt.Sprintf("not an LR item: %v", x))
}

// lookahead returns the lookahead of an item set element, or nil for LR(0) items.
func lookahead(x interface{}) *Symbol {
	if i, ok := x.(LR1Item); ok {
		return i.LA
	}
	return nil
}

// Dump is a debugging helper, tracing the items of an item set.
func Dump(S *iteratable.Set) {
	for _, x := range S.Values() {
		tracer().Debugf("   %v", x)
	}
}

// itemKey is a canonical, comparable representation of an item.
type itemKey struct {
	Rule, Dot, LA int
}

func keyOf(x interface{}, withLA bool) itemKey {
	i := asItem(x)
	k := itemKey{Rule: i.rule.Serial, Dot: i.dot, LA: -1}
	if la := lookahead(x); la != nil && withLA {
		k.LA = la.Value
	}
	return k
}

// itemSetKey computes a hash key for an item set. Sets with equal keys
// contain equal items. If withLA is false, lookaheads are ignored, and the
// key identifies the LR(0) core of the set.
func itemSetKey(S *iteratable.Set, withLA bool) string {
	seen := make(map[itemKey]bool, S.Size())
	keys := make([]itemKey, 0, S.Size())
	S.Each(func(x interface{}) {
		if k := keyOf(x, withLA); !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	})
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		if a.Dot != b.Dot {
			return a.Dot < b.Dot
		}
		return a.LA < b.LA
	})
	h, err := structhash.Hash(struct{ Items []itemKey }{keys}, 1)
	if err != nil { // should not happen for plain structs
		tracer().Errorf("cannot hash item set: %v", err)
		return fmt.Sprintf("%v", keys)
	}
	return h
}

func itemSetString(S *iteratable.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	S.Each(func(x interface{}) {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%v", x))
	})
	b.WriteString(" }")
	return b.String()
}
