package lexmach

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/xiul/Jacob/lr/scanner"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 2, 3, 3}

func lispSpec() TokenSpec {
	spec := TokenSpec{
		Definitions: map[string]string{
			"letter": `[a-zA-Z]`,
		},
	}
	spec.Rules = append(spec.Rules, Keywords("nil", "t")...)
	spec.Rules = append(spec.Rules,
		Rule{`//[^\n]*\n?`, Skip},
		Rule{`\"[^"]*\"`, Emit("STRING")},
		Rule{`#?{letter}({letter}|[0-9]|_|-)*[!\?]?`, Emit("ID")},
		Rule{`[1-9][0-9]*`, EmitInt("NUM")},
		Rule{`( |\,|\t|\n|\r)+`, Skip},
	)
	spec.Rules = append(spec.Rules, Literals("'", "(", ")", "[", "]", "=", "+", "-", "*", "/")...)
	return spec
}

func TestLM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.scanner")
	defer teardown()
	//
	LM, err := Build(lispSpec())
	if err != nil {
		t.Fatal(err)
	}
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		sc, err := LM.Scanner(input)
		if err != nil {
			t.Fatal(err)
		}
		tokens, err := scanner.All(sc, "$")
		if err != nil {
			t.Fatal(err)
		}
		for _, token := range tokens {
			t.Logf(" %6s | %15s | @%5d", token.Name(), token.Lexeme(), token.Span().From())
		}
		if count := len(tokens) - 1; count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

// Token specification of the calculator tests.
func calcSpec() TokenSpec {
	return TokenSpec{
		Definitions: map[string]string{
			"digits": `[0-9]`,
		},
		Rules: []Rule{
			{`{digits}*\.{digits}+`, EmitFloat("float")},
			{`{digits}+`, EmitInt("integer")},
			{`if`, Emit("IF")},
			{`[a-zA-Z_][a-zA-Z0-9_]*`, Emit("ident")},
			{`( |\t|\n|\r)+`, Skip},
			{`.`, EmitText},
			{EOFPattern, Emit("EOF")},
		},
	}
}

func TestMaximalMunch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.scanner")
	defer teardown()
	//
	lexer, err := Build(calcSpec())
	if err != nil {
		t.Fatal(err)
	}
	sc, err := lexer.Scanner("if iffy 3.14 .5 42+x")
	if err != nil {
		t.Fatal(err)
	}
	expected := []struct {
		name string
		val  interface{}
	}{
		{"IF", "if"},
		{"ident", "iffy"},
		{"float", 3.14},
		{"float", 0.5},
		{"integer", 42},
		{"+", "+"},
		{"ident", "x"},
		{"EOF", nil},
		{"EOF", nil},
	}
	for i, exp := range expected {
		token, err := sc.NextToken()
		if err != nil {
			t.Fatal(err)
		}
		if token.Name() != exp.name || token.Value() != exp.val {
			t.Errorf("token #%d: expected %s/%v, have %s/%v", i, exp.name, exp.val,
				token.Name(), token.Value())
		}
	}
}

func TestRestart(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.scanner")
	defer teardown()
	//
	lexer, err := Build(calcSpec())
	if err != nil {
		t.Fatal(err)
	}
	sc, err := lexer.ScannerFor(strings.NewReader("a b c"))
	if err != nil {
		t.Fatal(err)
	}
	first, err := scanner.All(sc, "EOF")
	if err != nil {
		t.Fatal(err)
	}
	if err = sc.Restart(); err != nil {
		t.Fatal(err)
	}
	second, err := scanner.All(sc, "EOF")
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 4 || len(second) != len(first) {
		t.Fatalf("expected 4 tokens twice, have %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Lexeme() != second[i].Lexeme() || first[i].Span() != second[i].Span() {
			t.Errorf("token #%d differs after restart: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestDefaultEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.scanner")
	defer teardown()
	//
	lexer, err := Build(TokenSpec{Rules: []Rule{{`[0-9]+`, EmitInt("integer")}}})
	if err != nil {
		t.Fatal(err)
	}
	sc, _ := lexer.Scanner("")
	token, err := sc.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if token.Name() != scanner.EOFName {
		t.Errorf("expected end marker %q, have %q", scanner.EOFName, token.Name())
	}
}

func TestLexError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.scanner")
	defer teardown()
	//
	lexer, err := Build(TokenSpec{Rules: []Rule{
		{`[0-9]+`, EmitInt("integer")},
		{`( |\n)+`, Skip},
	}})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		input        string
		offset, line int
		col          int
	}{
		{"12 @", 3, 1, 4},
		{"1\n  x 2", 4, 2, 3},
	}
	for _, test := range tests {
		sc, _ := lexer.Scanner(test.input)
		sc.Source = "test"
		_, err := scanner.All(sc, "$")
		var lexerr *scanner.LexError
		if !errors.As(err, &lexerr) {
			t.Errorf("%q: expected LexError, got %v", test.input, err)
			continue
		}
		if lexerr.Offset != test.offset || lexerr.Line != test.line || lexerr.Column != test.col {
			t.Errorf("%q: expected error at %d (%d:%d), is at %d (%d:%d)", test.input,
				test.offset, test.line, test.col, lexerr.Offset, lexerr.Line, lexerr.Column)
		}
		if _, again := sc.NextToken(); again != err {
			t.Errorf("%q: expected error to be repeated", test.input)
		}
	}
}

func TestSpecErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.scanner")
	defer teardown()
	//
	specs := []TokenSpec{
		{},
		{Rules: []Rule{{`{nodef}+`, Skip}}},
		{Definitions: map[string]string{"a": "{b}", "b": "{a}"}, Rules: []Rule{{`{a}`, Skip}}},
		{Rules: []Rule{{`a`, Skip}, {EOFPattern, nil}, {EOFPattern, nil}}},
		{Rules: []Rule{{`[a-`, Skip}}},
	}
	for i, spec := range specs {
		if _, err := Build(spec); err == nil {
			t.Errorf("spec #%d: expected error, got none", i)
		}
	}
}

func TestLiteral(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.scanner")
	defer teardown()
	//
	if p := Literal("<=x"); p != `\<\=x` {
		t.Errorf("expected literal pattern \\<\\=x, have %s", p)
	}
}

func TestEmptyMatchRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.scanner")
	defer teardown()
	//
	_, err := Build(TokenSpec{Rules: []Rule{
		{`\w+`, EmitText},
		{`\s*`, Skip},
		{EOFPattern, Emit("EOF")},
	}})
	if err == nil {
		t.Fatal("expected rule matching the empty string to be rejected")
	}
	if msg := err.Error(); !strings.Contains(msg, "token rule 2") || !strings.Contains(msg, "empty string") {
		t.Errorf("expected error to name rule 2 and the empty match, have %q", msg)
	}
	lexer, err := Build(TokenSpec{Rules: []Rule{
		{`\w+`, EmitText},
		{`\s+`, Skip},
		{`.`, EmitText},
		{EOFPattern, Emit("EOF")},
	}})
	if err != nil {
		t.Fatal(err)
	}
	sc, _ := lexer.Scanner("*23 = 18")
	tokens, err := scanner.All(sc, "EOF")
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(tokens))
	for i, token := range tokens {
		names[i] = token.Name()
	}
	if strings.Join(names, " ") != "* 23 = 18 EOF" {
		t.Errorf("unexpected tokens %v", names)
	}
}

func TestEOFActionOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "jacob.scanner")
	defer teardown()
	//
	count := 0
	lexer, err := Build(TokenSpec{Rules: []Rule{
		{`[0-9]+`, EmitInt("integer")},
		{EOFPattern, func(m *Match) (string, error) {
			count++
			return "EOF", nil
		}},
	}})
	if err != nil {
		t.Fatal(err)
	}
	sc, _ := lexer.Scanner("42")
	for i := 0; i < 5; i++ {
		if _, err := sc.NextToken(); err != nil {
			t.Fatal(err)
		}
	}
	if count != 1 {
		t.Errorf("expected end of input action to run once, ran %d times", count)
	}
}
