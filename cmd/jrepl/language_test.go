package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/xiul/Jacob/lr"
)

func TestDefaultLanguage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	lang, err := ReadLanguage(strings.NewReader(defaultLanguage))
	if err != nil {
		t.Fatal(err)
	}
	intp := &Intp{}
	if err = intp.Load(lang); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		input  string
		result string
	}{
		{"1+2*3", "7"},
		{"(1+2)*3", "9"},
		{"10/4", "2.5"},
		{"-3 - -4", "1"},
		{"1.5 * 2", "3"},
	}
	for _, mode := range []lr.Mode{lr.SLR, lr.LALR1, lr.LR1} {
		if err = intp.SetMode(mode); err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		for _, test := range tests {
			v, err := intp.Parse(test.input)
			if err != nil {
				t.Errorf("%s: %q: %v", mode, test.input, err)
			} else if fmt.Sprint(v) != test.result {
				t.Errorf("%s: expected %q to yield %s, got %v", mode, test.input, test.result, v)
			}
		}
	}
	if _, err = intp.Parse("1/0"); err == nil {
		t.Errorf("expected division by zero to fail")
	}
}

func TestEBNFLanguage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	src := `
name: List
start: List
tokens:
  - { pattern: '[a-z]+', token: word }
  - { pattern: ' +', skip: true }
  - { pattern: '.' }
ebnf: |
  List = "[" word { "," word } "]" .
actions:
  List = [ word List#rep1 ]: '$2 and $3'
`
	lang, err := ReadLanguage(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	intp := &Intp{}
	if err = intp.Load(lang); err != nil {
		t.Fatal(err)
	}
	v, err := intp.Parse("[a, b, c]")
	if err != nil {
		t.Fatal(err)
	}
	if v != "a and [[, b] [, c]]" {
		t.Errorf("unexpected result %v", v)
	}
}

func TestTemplateActions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	values := []interface{}{2, "+", 3.5}
	tests := []struct {
		tmpl   string
		result interface{}
	}{
		{"$1", 2},
		{"$3", 3.5},
		{"($1 $2 $3)", "(2 + 3.5)"},
		{"= add $1 $3", 5.5},
		{"= mul $1 $3", 7.0},
		{"= neg $1", -2.0},
	}
	for _, test := range tests {
		action, err := templateAction(test.tmpl, 3)
		if err != nil {
			t.Errorf("%q: %v", test.tmpl, err)
			continue
		}
		v, err := action(values)
		if err != nil || v != test.result {
			t.Errorf("%q: expected %v, got %v (%v)", test.tmpl, test.result, v, err)
		}
	}
	for _, tmpl := range []string{"$4", "= pow $1 $3", "= add $1", "= add 1 $3", "="} {
		if _, err := templateAction(tmpl, 3); err == nil {
			t.Errorf("expected template %q to be rejected", tmpl)
		}
	}
}

func TestLanguageErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	srcs := []string{
		"name: [",
		"nmae: typo",
		"tokens:\n  - { pattern: 'a', token: A, value: complex }\nproductions:\n  - { lhs: S, rhs: A }",
		"tokens:\n  - { pattern: 'a' }\nproductions:\n  - { lhs: S, rhs: a }\nmode: LL1",
		"tokens:\n  - { pattern: 'a' }\nproductions:\n  - { lhs: S, rhs: a, action: '$2' }",
	}
	for i, src := range srcs {
		lang, err := ReadLanguage(strings.NewReader(src))
		if err == nil {
			err = (&Intp{}).Load(lang)
		}
		if err == nil {
			t.Errorf("language #%d: expected error, got none", i)
		}
	}
}

func TestCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.lr")
	defer teardown()
	//
	lang, _ := ReadLanguage(strings.NewReader(defaultLanguage))
	intp := &Intp{}
	if err := intp.Load(lang); err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{":mode", ":mode LR1", ":tables", ":grammar", "1+1"} {
		if quit, err := intp.Eval(line); quit || err != nil {
			t.Errorf("%q: unexpected result %v / %v", line, quit, err)
		}
	}
	if intp.Mode != lr.LR1 {
		t.Errorf("expected mode to be LR1, is %s", intp.Mode)
	}
	if _, err := intp.Eval(":frobnicate"); err == nil {
		t.Errorf("expected unknown command to fail")
	}
	if quit, _ := intp.Eval(":quit"); !quit {
		t.Errorf("expected :quit to quit")
	}
}
