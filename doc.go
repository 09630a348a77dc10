/*
Package jacob is a toolkit for constructing table-driven lexers and
LR parsers from a grammar.

Clients describe a context-free grammar together with semantic actions and a
token specification made of regular expressions with actions. From these,
jacob builds deterministic recognizers: a maximal-munch tokenizer and a
shift-reduce parser, driven by SLR, LALR(1) or canonical LR(1) tables.
Parsing an input yields the semantic value computed by the actions.
Package structure is as follows:

■ lr: Package lr implements grammars, grammar analysis (FIRST and FOLLOW
sets), construction of the characteristic automaton and of parser tables.

■ lr/parser: Package parser implements the shift-reduce runtime executing the
tables and invoking semantic actions.

■ lr/scanner: Package scanner defines the tokenizer interface. Sub-package
lexmach builds tokenizers from token specifications.

■ lr/codegen: Package codegen emits constructed tables as Go source.

■ cmd/jrepl: An interactive command line tool to experiment with languages.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package jacob
