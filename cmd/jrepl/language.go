package main

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cast"
	"github.com/xiul/Jacob/lr"
	"github.com/xiul/Jacob/lr/scanner/lexmach"
	"gopkg.in/yaml.v3"
)

// Language is the content of a language file. A language file describes
// tokens and grammar rules of a small language, together with actions
// computing a value for every rule:
//
//    name: Calc
//    mode: LALR1
//    definitions:
//      digits: '[0-9]'
//    tokens:
//      - { pattern: '{digits}+', token: number, value: int }
//      - { pattern: '( |\t)+', skip: true }
//      - { pattern: '.' }
//    productions:
//      - { lhs: Sum, rhs: 'Sum + number', action: '= add $1 $3' }
//      - { lhs: Sum, rhs: 'number' }
//
// Instead of productions, the grammar may be given in EBNF, with actions
// keyed by the rule they apply to:
//
//    start: Sum
//    ebnf: |
//      Sum = Sum "+" number | number .
//    actions:
//      Sum = Sum + number: '= add $1 $3'
//
type Language struct {
	Name        string            `yaml:"name"`
	Mode        string            `yaml:"mode"`
	Start       string            `yaml:"start"`
	Definitions map[string]string `yaml:"definitions"`
	Tokens      []TokenDef        `yaml:"tokens"`
	Productions []ProductionDef   `yaml:"productions"`
	EBNF        string            `yaml:"ebnf"`
	Actions     map[string]string `yaml:"actions"`
}

// TokenDef is a token rule. An empty Token emits a token named by the
// matched text. Value is one of "int", "float" or "text" (default).
type TokenDef struct {
	Pattern string `yaml:"pattern"`
	Token   string `yaml:"token"`
	Skip    bool   `yaml:"skip"`
	Value   string `yaml:"value"`
}

// ProductionDef is a grammar rule. RHS is a space separated list of symbol
// names, empty for ε. Names which are not the LHS of any rule are terminals.
type ProductionDef struct {
	LHS    string `yaml:"lhs"`
	RHS    string `yaml:"rhs"`
	Action string `yaml:"action"`
}

// ReadLanguage decodes a language file.
func ReadLanguage(r io.Reader) (*Language, error) {
	lang := &Language{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(lang); err != nil {
		return nil, fmt.Errorf("cannot read language file: %w", err)
	}
	if lang.Name == "" {
		lang.Name = "L"
	}
	if lang.Mode == "" {
		lang.Mode = lr.LALR1.String()
	}
	return lang, nil
}

// TokenSpec converts the token rules of a language.
func (lang *Language) TokenSpec() (lexmach.TokenSpec, error) {
	spec := lexmach.TokenSpec{Definitions: lang.Definitions}
	for i, def := range lang.Tokens {
		var action lexmach.Action
		switch {
		case def.Skip:
			action = lexmach.Skip
		case def.Token == "":
			action = lexmach.EmitText
		case def.Value == "int":
			action = lexmach.EmitInt(def.Token)
		case def.Value == "float":
			action = lexmach.EmitFloat(def.Token)
		case def.Value == "" || def.Value == "text":
			action = lexmach.Emit(def.Token)
		default:
			return spec, fmt.Errorf("token %d: unknown value type %q", i+1, def.Value)
		}
		spec.Rules = append(spec.Rules, lexmach.Rule{Pattern: def.Pattern, Action: action})
	}
	return spec, nil
}

// Grammar converts the grammar rules of a language, with template actions.
func (lang *Language) Grammar() (*lr.Grammar, error) {
	if lang.EBNF != "" {
		if len(lang.Productions) > 0 {
			return nil, fmt.Errorf("language %s: either productions or EBNF, not both", lang.Name)
		}
		var err error
		factory := func(lhs string, rhs []string) lr.SemanticAction {
			key := strings.TrimSpace(lhs + " = " + strings.Join(rhs, " "))
			tmpl, ok := lang.Actions[key]
			if !ok {
				return nil
			}
			a, e := templateAction(tmpl, len(rhs))
			if e != nil && err == nil {
				err = fmt.Errorf("action for %s: %w", key, e)
			}
			return a
		}
		g, gerr := lr.GrammarFromEBNF(lang.Name, strings.NewReader(lang.EBNF), lang.Start, nil, factory)
		if err != nil {
			return nil, err
		}
		return g, gerr
	}
	b := lr.NewGrammarBuilder(lang.Name)
	if lang.Start != "" {
		b.Start(lang.Start)
	}
	lhs := make(map[string]bool)
	for _, p := range lang.Productions {
		lhs[p.LHS] = true
	}
	for i, p := range lang.Productions {
		rb := b.LHS(p.LHS)
		rhs := strings.Fields(p.RHS)
		for _, name := range rhs {
			if lhs[name] {
				rb.N(name)
			} else {
				rb.T(name)
			}
		}
		if p.Action == "" {
			rb.End()
			continue
		}
		action, err := templateAction(p.Action, len(rhs))
		if err != nil {
			return nil, fmt.Errorf("production %d (%s): %w", i+1, p.LHS, err)
		}
		rb.Do(action)
	}
	return b.Grammar()
}

// --- Template actions ------------------------------------------------------

var valref = regexp.MustCompile(`\$([0-9]+)`)

// templateAction creates a semantic action from a template. A template is
// either a text with references $1 … $n to the values of the RHS symbols, or
// an operation "= op $i $j" with op being one of add, sub, mul, div or neg.
// A template consisting of a single reference passes the value unchanged.
func templateAction(tmpl string, arity int) (lr.SemanticAction, error) {
	for _, m := range valref.FindAllStringSubmatch(tmpl, -1) {
		n := cast.ToInt(m[1])
		if n < 1 || n > arity {
			return nil, fmt.Errorf("template %q references $%d, RHS has %d symbols", tmpl, n, arity)
		}
	}
	tmpl = strings.TrimSpace(tmpl)
	if m := valref.FindStringSubmatch(tmpl); m != nil && m[0] == tmpl {
		n := cast.ToInt(m[1])
		return func(values []interface{}) (interface{}, error) {
			return values[n-1], nil
		}, nil
	}
	if strings.HasPrefix(tmpl, "=") {
		return operation(strings.Fields(tmpl[1:]))
	}
	return func(values []interface{}) (interface{}, error) {
		return valref.ReplaceAllStringFunc(tmpl, func(ref string) string {
			v := values[cast.ToInt(ref[1:])-1]
			if s, err := cast.ToStringE(v); err == nil {
				return s
			}
			return fmt.Sprint(v)
		}), nil
	}, nil
}

func operation(fields []string) (lr.SemanticAction, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("operation missing")
	}
	op, args := fields[0], fields[1:]
	want := 2
	if op == "neg" {
		want = 1
	}
	if len(args) != want {
		return nil, fmt.Errorf("operation %s expects %d arguments", op, want)
	}
	refs := make([]int, len(args))
	for i, arg := range args {
		if valref.FindString(arg) != arg {
			return nil, fmt.Errorf("argument %q of %s is not a reference", arg, op)
		}
		refs[i] = cast.ToInt(arg[1:]) - 1
	}
	var f func(x []float64) (float64, error)
	switch op {
	case "add":
		f = func(x []float64) (float64, error) { return x[0] + x[1], nil }
	case "sub":
		f = func(x []float64) (float64, error) { return x[0] - x[1], nil }
	case "mul":
		f = func(x []float64) (float64, error) { return x[0] * x[1], nil }
	case "div":
		f = func(x []float64) (float64, error) {
			if x[1] == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return x[0] / x[1], nil
		}
	case "neg":
		f = func(x []float64) (float64, error) { return -x[0], nil }
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
	return func(values []interface{}) (interface{}, error) {
		x := make([]float64, len(refs))
		for i, ref := range refs {
			v, err := cast.ToFloat64E(values[ref])
			if err != nil {
				return nil, err
			}
			x[i] = v
		}
		return f(x)
	}, nil
}

// defaultLanguage is loaded if no language file is given.
const defaultLanguage = `
name: Calc
mode: LALR1
definitions:
  digits: '[0-9]'
tokens:
  - { pattern: '{digits}*\.{digits}+', token: number, value: float }
  - { pattern: '{digits}+', token: number, value: int }
  - { pattern: '( |\t|\n|\r)+', skip: true }
  - { pattern: '.' }
productions:
  - { lhs: Expr, rhs: 'Expr + Term', action: '= add $1 $3' }
  - { lhs: Expr, rhs: 'Expr - Term', action: '= sub $1 $3' }
  - { lhs: Expr, rhs: 'Term' }
  - { lhs: Term, rhs: 'Term * Factor', action: '= mul $1 $3' }
  - { lhs: Term, rhs: 'Term / Factor', action: '= div $1 $3' }
  - { lhs: Term, rhs: 'Factor' }
  - { lhs: Factor, rhs: 'number' }
  - { lhs: Factor, rhs: '- Factor', action: '= neg $2' }
  - { lhs: Factor, rhs: '( Expr )', action: '$2' }
`
