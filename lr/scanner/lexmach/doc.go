/*
Package lexmach builds tokenizers from token specifications, using the
lexmachine scanner generator.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

A token specification is an ordered list of rules, each consisting of a
regular expression and an action, plus optional named definitions, which may
be referenced in patterns as {name}.

	spec := lexmach.TokenSpec{
		Definitions: map[string]string{"digits": `[0-9]`},
		Rules: []lexmach.Rule{
			{`{digits}*\.{digits}+`, lexmach.EmitFloat("float")},
			{`{digits}+`, lexmach.EmitInt("integer")},
			{`if`, lexmach.Emit("IF")},
			{`[a-zA-Z_][a-zA-Z0-9_]*`, lexmach.Emit("ident")},
			{`( |\t|\n|\r)+`, lexmach.Skip},
			{`.`, lexmach.EmitText},
			{lexmach.EOFPattern, lexmach.Emit("$")},
		},
	}

The tokenizer always chooses the longest match. Among matches of equal
length the rule declared first wins. Actions receive the match and return the
name of the token to emit, or "" to skip the match. An action may set the
semantic value of the token; it defaults to the matched text.

Clients use Build to compile a specification. Build will return an error if
compiling the DFA failed.

	lexer, err := lexmach.Build(spec)
	if err != nil {
		// do error handling
	}

A scanner is instantiated for each concrete input sequence.
The scanner implements the scanner.Tokenizer interface.

	scan, err := lexer.Scanner("input string to tokenize")
	if err != nil {
		// do error handling
	}

On the parser side tokens are read until the end-of-input token.
If no rule matches, NextToken returns a *scanner.LexError.

Please refer to package jacob/lr/parser on
how to create parsers and plug in a scanner.Tokenizer.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package lexmach
