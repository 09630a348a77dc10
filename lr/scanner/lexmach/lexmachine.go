package lexmach

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cast"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
	"github.com/xiul/Jacob"
	"github.com/xiul/Jacob/lr/scanner"
)

// tracer traces with key 'jacob.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("jacob.scanner")
}

// EOFPattern is the pseudo-pattern of the rule which fires at end of input.
const EOFPattern = "<<EOF>>"

// Match is handed to rule actions. Text is the matched input. Value is the
// semantic value of the token to emit; it defaults to Text and may be
// replaced by the action.
type Match struct {
	Text   string
	Value  interface{}
	Offset int // byte offset of the match
	Line   int // starting at 1
	Column int // starting at 1
}

// Action is called for every match of a rule's pattern. It returns the name of
// the token to emit, or "" to skip the match.
type Action func(m *Match) (string, error)

// Rule is a token rule: a regular expression in lexmachine syntax and an
// action. A nil action emits a token named by the matched text.
type Rule struct {
	Pattern string
	Action  Action
}

// TokenSpec describes a tokenizer. Definitions are named sub-patterns, which
// rule patterns reference as {name}. Rules are tried in order: the longest
// match wins, and among matches of equal length the rule declared first.
// Patterns must not match the empty string; use `\s+` instead of `\s*`.
type TokenSpec struct {
	Definitions map[string]string
	Rules       []Rule
}

// Lexer is a compiled token specification. A lexer is immutable and may be
// used to create any number of scanners, concurrently.
type Lexer struct {
	lm  *lexmachine.Lexer
	eof Action
}

// Build compiles a token specification into a lexer, using a DFA.
// Build will return an error if the specification is malformed, if a pattern
// matches the empty string, or if compiling the DFA failed.
func Build(spec TokenSpec) (*Lexer, error) {
	lexer := &Lexer{lm: lexmachine.NewLexer()}
	var patterns []string // expanded, by rule index; "" for the EOF rule
	count := 0
	for i, rule := range spec.Rules {
		if rule.Pattern == EOFPattern {
			if lexer.eof != nil {
				return nil, fmt.Errorf("token rule %d: more than one %s rule", i+1, EOFPattern)
			}
			lexer.eof = rule.Action
			if lexer.eof == nil {
				lexer.eof = Emit(scanner.EOFName)
			}
			patterns = append(patterns, "")
			continue
		}
		pattern, err := expand(rule.Pattern, spec.Definitions, 0)
		if err != nil {
			return nil, fmt.Errorf("token rule %d: %w", i+1, err)
		}
		tracer().Debugf("token rule %d: %s", i+1, pattern)
		action := rule.Action
		if action == nil {
			action = EmitText
		}
		lexer.lm.Add([]byte(pattern), wrap(action))
		patterns = append(patterns, pattern)
		count++
	}
	if count == 0 {
		return nil, errors.New("token specification has no rules")
	}
	if lexer.eof == nil {
		lexer.eof = Emit(scanner.EOFName)
	}
	if err := compile(lexer.lm); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, fmt.Errorf("cannot compile token rules: %w", blame(spec, patterns, err))
	}
	return lexer, nil
}

// compile compiles the DFA of a lexmachine lexer. lexmachine panics on some
// malformed patterns (e.g. `[a-`), which compile turns into an error.
func compile(lm *lexmachine.Lexer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pattern: %v", r)
		}
	}()
	return lm.Compile()
}

// blame finds the first rule which fails to compile on its own, and reports
// it. If every rule compiles by itself, err is returned unchanged.
func blame(spec TokenSpec, patterns []string, err error) error {
	for i, pattern := range patterns {
		if pattern == "" {
			continue
		}
		single := lexmachine.NewLexer()
		single.Add([]byte(pattern), wrap(Skip))
		if e := compile(single); e != nil {
			return fmt.Errorf("token rule %d %q: %w", i+1, spec.Rules[i].Pattern, e)
		}
	}
	return err
}

var defref = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expand replaces references {name} by (definition).
func expand(pattern string, defs map[string]string, depth int) (string, error) {
	if depth > len(defs) {
		return "", fmt.Errorf("recursive definitions in pattern %q", pattern)
	}
	var err error
	expanded := defref.ReplaceAllStringFunc(pattern, func(ref string) string {
		name := ref[1 : len(ref)-1]
		def, ok := defs[name]
		if !ok {
			if err == nil {
				err = fmt.Errorf("undefined definition %q in pattern %q", name, pattern)
			}
			return ref
		}
		return "(" + def + ")"
	})
	if err != nil || expanded == pattern {
		return expanded, err
	}
	return expand(expanded, defs, depth+1)
}

// wrap adapts an action to lexmachine. Matches yield DefaultTokens, skips nil.
func wrap(action Action) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		match := &Match{
			Text:   string(m.Bytes),
			Offset: m.TC,
			Line:   m.StartLine,
			Column: m.StartColumn,
		}
		match.Value = match.Text
		name, err := action(match)
		if err != nil {
			return nil, &scanner.LexError{
				Offset: match.Offset,
				Line:   match.Line,
				Column: match.Column,
				Msg:    fmt.Sprintf("action for %q failed: %v", match.Text, err),
			}
		}
		if name == "" {
			tracer().Debugf("skipping %q", match.Text)
			return nil, nil
		}
		span := jacob.Span{uint64(m.TC), uint64(m.TC + len(m.Bytes))}
		return scanner.MakeDefaultToken(name, match.Text, match.Value, span), nil
	}
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (l *Lexer) Scanner(input string) (*Scanner, error) {
	s := &Scanner{lexer: l, input: []byte(input)}
	if err := s.Restart(); err != nil {
		return nil, err
	}
	return s, nil
}

// ScannerFor reads all of r and creates a scanner for it.
func (l *Lexer) ScannerFor(r io.Reader) (*Scanner, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read scanner input: %w", err)
	}
	return l.Scanner(string(input))
}

// Scanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface. A scanner is not safe for concurrent use.
type Scanner struct {
	Source string // name of the input, used for error messages
	lexer  *Lexer
	input  []byte
	lms    *lexmachine.Scanner
	eof    jacob.Token // non-nil after end of input
	err    error       // sticky error
}

var _ scanner.Tokenizer = (*Scanner)(nil)

// Restart rewinds the scanner to the start of the input.
func (s *Scanner) Restart() error {
	lms, err := s.lexer.lm.Scanner(s.input)
	if err != nil {
		return fmt.Errorf("cannot create scanner: %w", err)
	}
	s.lms, s.eof, s.err = lms, nil, nil
	return nil
}

// NextToken is part of the Tokenizer interface.
//
// If no rule matches at the current position, NextToken returns a
// *scanner.LexError. Errors are final: every further call returns the same
// error. After the end-of-input token has been returned, every further call
// returns it again.
func (s *Scanner) NextToken() (jacob.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.eof != nil {
		return s.eof, nil
	}
	tok, err, eos := s.lms.Next()
	if err != nil {
		s.err = s.lexError(err)
		return nil, s.err
	}
	if eos {
		return s.endOfInput()
	}
	token := tok.(scanner.DefaultToken)
	tracer().Debugf("token %v", token)
	return token, nil
}

func (s *Scanner) endOfInput() (jacob.Token, error) {
	line, col := position(s.input, len(s.input))
	m := &Match{Offset: len(s.input), Line: line, Column: col}
	name, err := s.lexer.eof(m)
	if err != nil {
		s.err = &scanner.LexError{Source: s.Source, Offset: m.Offset, Line: line, Column: col,
			Msg: fmt.Sprintf("end of input action failed: %v", err)}
		return nil, s.err
	}
	if name == "" {
		name = scanner.EOFName
	}
	end := uint64(len(s.input))
	s.eof = scanner.MakeDefaultToken(name, "", m.Value, jacob.Span{end, end})
	tracer().Debugf("end of input, token %v", s.eof)
	return s.eof, nil
}

func (s *Scanner) lexError(err error) error {
	var lexerr *scanner.LexError
	if errors.As(err, &lexerr) {
		lexerr.Source = s.Source
		return lexerr
	}
	var ui *machines.UnconsumedInput
	if errors.As(err, &ui) {
		line, col := position(s.input, ui.StartTC)
		msg := fmt.Sprintf("no token rule matches input at %q", snippet(s.input, ui.StartTC))
		return &scanner.LexError{Source: s.Source, Offset: ui.StartTC, Line: line, Column: col, Msg: msg}
	}
	tc := s.lms.TC
	line, col := position(s.input, tc)
	return &scanner.LexError{Source: s.Source, Offset: tc, Line: line, Column: col, Msg: err.Error()}
}

// position computes line and column (starting at 1) of a byte offset.
func position(input []byte, offset int) (int, int) {
	if offset > len(input) {
		offset = len(input)
	}
	before := input[:offset]
	line := 1 + strings.Count(string(before), "\n")
	col := offset + 1
	if nl := strings.LastIndexByte(string(before), '\n'); nl >= 0 {
		col = offset - nl
	}
	return line, col
}

func snippet(input []byte, offset int) string {
	if offset >= len(input) {
		return ""
	}
	end := offset + 10
	if end > len(input) {
		end = len(input)
	}
	return string(input[offset:end])
}

// --- Predefined actions -------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*Match) (string, error) {
	return "", nil
}

// EmitText is a pre-defined action which emits a token named by the matched text.
func EmitText(m *Match) (string, error) {
	return m.Text, nil
}

// Emit returns an action which emits a token with a fixed name.
func Emit(name string) Action {
	return func(*Match) (string, error) {
		return name, nil
	}
}

// EmitInt returns an action which emits a token with the matched text
// converted to an int as its value.
func EmitInt(name string) Action {
	return func(m *Match) (string, error) {
		v, err := cast.ToIntE(m.Text)
		if err != nil {
			return "", err
		}
		m.Value = v
		return name, nil
	}
}

// EmitFloat returns an action which emits a token with the matched text
// converted to a float64 as its value.
func EmitFloat(name string) Action {
	return func(m *Match) (string, error) {
		v, err := cast.ToFloat64E(m.Text)
		if err != nil {
			return "", err
		}
		m.Value = v
		return name, nil
	}
}

// --- Helpers for literals and keywords ----------------------------------------

// Literal escapes every special character of s, making it a pattern matching
// s verbatim.
func Literal(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Literals creates rules for a list of literals ('[', ';', …), each emitting
// a token named by the literal.
func Literals(lits ...string) []Rule {
	rules := make([]Rule, len(lits))
	for i, lit := range lits {
		rules[i] = Rule{Pattern: Literal(lit), Action: Emit(lit)}
	}
	return rules
}

// Keywords creates rules for a list of keywords ("if", "for", …), each
// emitting a token named by the keyword in upper case. Keyword rules have to
// precede the rule for identifiers.
func Keywords(keywords ...string) []Rule {
	rules := make([]Rule, len(keywords))
	for i, kw := range keywords {
		rules[i] = Rule{Pattern: strings.ToLower(kw), Action: Emit(strings.ToUpper(kw))}
	}
	return rules
}
