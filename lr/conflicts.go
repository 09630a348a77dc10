package lr

import (
	"errors"
	"fmt"
	"strings"
)

// ShiftReduceConflict is returned from table construction if a state demands
// both a shift and a reduce action for the same lookahead.
type ShiftReduceConflict struct {
	State      uint    // CFSM state
	Terminal   *Symbol // lookahead
	Reduce     *Rule   // rule to reduce
	ShiftRules []*Rule // rules of items shifting the terminal
	Mode       Mode
}

func (c *ShiftReduceConflict) Error() string {
	shifts := make([]string, len(c.ShiftRules))
	for i, r := range c.ShiftRules {
		shifts[i] = fmt.Sprintf("%d: %s", r.Serial, r)
	}
	return fmt.Sprintf("%s: Shift / Reduce conflict in state %d on %q: shift for {%s} vs. reduce by %d: %s",
		c.Mode, c.State, c.Terminal, strings.Join(shifts, "; "), c.Reduce.Serial, c.Reduce)
}

// ReduceReduceConflict is returned from table construction if a state demands
// reducing two different rules for the same lookahead.
type ReduceReduceConflict struct {
	State    uint    // CFSM state
	Terminal *Symbol // lookahead
	Rules    [2]*Rule
	Mode     Mode
}

func (c *ReduceReduceConflict) Error() string {
	return fmt.Sprintf("%s: Reduce/Reduce conflict in state %d on %q: reduce by %d: %s vs. reduce by %d: %s",
		c.Mode, c.State, c.Terminal, c.Rules[0].Serial, c.Rules[0], c.Rules[1].Serial, c.Rules[1])
}

// IsConflict returns true if err reports a grammar conflict. Clients may try
// a stronger table construction mode in this case.
func IsConflict(err error) bool {
	var sr *ShiftReduceConflict
	var rr *ReduceReduceConflict
	return errors.As(err, &sr) || errors.As(err, &rr)
}
