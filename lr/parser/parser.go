package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"github.com/xiul/Jacob"
	"github.com/xiul/Jacob/lr"
	"github.com/xiul/Jacob/lr/scanner"
)

// tracer traces with key 'jacob.lr'.
func tracer() tracing.Trace {
	return tracing.Select("jacob.lr")
}

// Parser is a shift-reduce parser type. Create and initialize one with
// parser.NewParser(...) or parser.Build(...).
type Parser struct {
	G      *lr.Grammar
	tables *lr.Tables
}

// We store triples of state-IDs, semantic values and input spans on the
// parse stack.
type stackitem struct {
	stateID uint        // ID of a CFSM state
	value   interface{} // semantic value of the symbol recognized
	span    jacob.Span  // input span over which this symbol reaches
}

// NewParser creates a parser executing the given tables.
func NewParser(tables *lr.Tables) *Parser {
	return &Parser{
		G:      tables.G,
		tables: tables,
	}
}

// Build analyses a grammar, constructs the parser tables with the given mode
// and returns a parser for them. If the grammar is not suitable for mode,
// Build returns a *lr.ShiftReduceConflict or a *lr.ReduceReduceConflict.
func Build(g *lr.Grammar, mode lr.Mode) (*Parser, error) {
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	if err := lrgen.CreateTables(mode); err != nil {
		return nil, fmt.Errorf("cannot build %s parser for grammar %s: %w", mode, g.Name, err)
	}
	return NewParser(lrgen.Tables()), nil
}

// Tables returns the tables the parser executes.
func (p *Parser) Tables() *lr.Tables {
	return p.tables
}

// Parse starts a new parse, given a scanner tokenizing the input.
//
// Parse returns the semantic value of the start symbol if the input has been
// accepted. For syntax errors Parse returns a *ParseError, for failing
// semantic actions an *ActionError. Errors of the tokenizer are returned
// unchanged.
func (p *Parser) Parse(scan scanner.Tokenizer) (interface{}, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.tables == nil || p.G == nil {
		tracer().Errorf("parser not initialized")
		return nil, fmt.Errorf("parser not initialized")
	}
	actionT, gotoT := p.tables.Action, p.tables.Goto
	stack := make([]stackitem, 1, 64)
	stack[0] = stackitem{stateID: p.tables.Start} // bottom, no value
	traceStack := gconf.GetBool("trace-parser-stack")
	// http://www.cse.unt.edu/~sweany/CSCE3650/HANDOUTS/LRParseAlg.pdf
	token, err := scan.NextToken()
	if err != nil {
		return nil, err
	}
	for {
		state := stack[len(stack)-1] // TOS
		terminal := p.G.Terminal(token.Name())
		if terminal == nil {
			return nil, p.syntaxError(state.stateID, token, "unknown terminal")
		}
		tokval := terminal.Value
		action := actionT.Value(state.stateID, tokval)
		tracer().Debugf("action(%d,%s)=%s", state.stateID, terminal, valstring(action, actionT))
		switch {
		case action == actionT.NullValue():
			return nil, p.syntaxError(state.stateID, token, "")
		case action == lr.AcceptAction:
			top := stack[len(stack)-1]
			tracer().Infof("input accepted, span = %v", top.span)
			return top.value, nil
		case action == lr.ShiftAction:
			nextstate := uint(gotoT.Value(state.stateID, tokval))
			tracer().Debugf("shifting %v, next state = %d", token.Name(), nextstate)
			stack = append(stack, // push a terminal state onto stack
				stackitem{nextstate, token.Value(), token.Span()})
			if token, err = scan.NextToken(); err != nil {
				return nil, err
			}
		case action > 0: // reduce action
			rule := p.G.Rule(int(action))
			if stack, err = p.reduce(stack, rule, token); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("illegal action %d in state %d", action, state.stateID)
		}
		if traceStack {
			tracer().Debugf("stack: %s", stackString(stack))
		}
	}
}

// reduce performs a reduce action for a rule
//
//    LHS ➞ X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as states
//
//    [TOS]  Sn(Xn, v_n, span_n) ... S1(X1, v1, span1)  ...
//
// The semantic action of the rule is called with v1 … vn, and its result is
// pushed together with the state goto(S0, LHS).
func (p *Parser) reduce(stack []stackitem, rule *lr.Rule, la jacob.Token) ([]stackitem, error) {
	tracer().Infof("reduce %v", rule)
	n := rule.Len()
	handle := stack[len(stack)-n:]
	values := make([]interface{}, n)
	var handlespan jacob.Span
	for i, item := range handle {
		values[i] = item.value
		if i == 0 {
			handlespan = item.span
		} else {
			handlespan = handlespan.Extend(item.span)
		}
	}
	if n == 0 { // resulted from an epsilon production
		pos := la.Span().From() // epsilon was just before lookahead
		handlespan = jacob.Span{pos, pos}
	}
	stack = stack[:len(stack)-n]
	action := rule.Action
	if action == nil {
		action = lr.DefaultAction
	}
	v, err := action(values)
	if err != nil {
		return stack, &ActionError{Rule: rule, Span: handlespan, Err: err}
	}
	state := stack[len(stack)-1] // TOS
	nextstate := p.tables.Goto.Value(state.stateID, rule.LHS.Value)
	if nextstate == p.tables.Goto.NullValue() {
		return stack, fmt.Errorf("no GOTO entry for state %d and %v", state.stateID, rule.LHS)
	}
	tracer().Debugf("reduced to next state = %d", nextstate)
	return append(stack, stackitem{uint(nextstate), v, handlespan}), nil
}

func (p *Parser) syntaxError(state uint, token jacob.Token, msg string) *ParseError {
	err := &ParseError{
		State:    state,
		Terminal: token.Name(),
		Token:    token,
		Span:     token.Span(),
		Msg:      msg,
	}
	p.tables.Action.Each(func(s uint, col int, val int32) {
		if s == state {
			err.Expected = append(err.Expected, p.G.SymbolByValue(col).Name)
		}
	})
	tracer().Errorf("%v", err)
	return err
}

// --- Errors -----------------------------------------------------------

// ParseError is returned for syntax errors, i.e. if the parser finds no
// action for the current state and lookahead.
type ParseError struct {
	State    uint        // parser state
	Terminal string      // name of the offending token
	Token    jacob.Token // the offending token
	Span     jacob.Span  // position of the token
	Expected []string    // terminals with an action in State
	Msg      string
}

func (e *ParseError) Error() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("syntax error at %v: unexpected %q in state %d", e.Span, e.Terminal, e.State))
	if e.Msg != "" {
		b.WriteString(" (" + e.Msg + ")")
	}
	if len(e.Expected) > 0 {
		b.WriteString(", expected one of " + strings.Join(e.Expected, " "))
	}
	return b.String()
}

// ActionError is returned if a semantic action fails.
type ActionError struct {
	Rule *lr.Rule
	Span jacob.Span // input span of the rule's RHS
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("semantic action of rule %d (%v) failed at %v: %v", e.Rule.Serial, e.Rule, e.Span, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// --- Helpers ----------------------------------------------------------

func stackString(stack []stackitem) string {
	var b bytes.Buffer
	for i, item := range stack {
		if i == 0 {
			b.WriteString(fmt.Sprintf("[%d]", item.stateID))
			continue
		}
		b.WriteString(fmt.Sprintf(" [%d %v]", item.stateID, item.value))
	}
	return b.String()
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *lr.Table) string {
	if v == m.NullValue() {
		return "<none>"
	} else if v == lr.AcceptAction {
		return "<accept>"
	} else if v == lr.ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}
