/*
Package parser provides a table driven shift-reduce parser. Clients have to use
the tools of package lr to prepare the necessary parse tables. The parser
utilizes these tables to create a right derivation for a given input,
provided through a scanner interface, calling semantic actions of grammar
rules on every reduction.

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse tables from a grammar and use the
parser directly, without a code-generation or compile step. If you want, you
can create a grammar from user input and use a parser for it in a couple of
lines of code.

Tables may be constructed in one of three modes, SLR, LALR(1) or LR(1). The
parser itself does not care: it executes whatever tables it is given.
Grammars which are ambiguous in the chosen mode are rejected during table
construction. The parser performs no error recovery; the first syntax error
ends a parse.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("Var").N("Sign").T("id").Do(concat)  // Var  ➞ Sign id
	b.LHS("Sign").T("+").End()                 // Sign ➞ +
	b.LHS("Sign").T("-").End()                 // Sign ➞ -
	b.LHS("Sign").Epsilon()                    // Sign ➞ ε
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation, which
parser.Build does in one step:

	p, err := parser.Build(g, lr.LALR1)
	if lr.IsConflict(err) { ... }  // try a stronger mode

Finally parse some input:

	scan := scanner.GoTokenizer("input", strings.NewReader("+a"))
	value, err := p.Parse(scan)

A parser holds no state between calls of Parse and may be used by
concurrent goroutines, each with its own tokenizer.

Configuration

If the configuration flag "trace-parser-stack" is set (see package
schuko/gconf), the parser traces the contents of its stack after every step.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package parser
