/*
Package jrepl/main provides an interactive command line tool (J.REPL)
to experiment with small languages. A language is read from a YAML file
containing token rules and grammar rules with action templates. J.REPL
builds a tokenizer and an LR parser for it, then parses and evaluates
every line entered. Commands let users switch the table construction mode
and inspect the automaton and the tables, which is useful for early stages
of grammar development.

	jrepl -lang calc.yaml -mode LR1 -trace Info

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'jacob.repl'
func tracer() tracing.Trace {
	return tracing.Select("jacob.repl")
}
