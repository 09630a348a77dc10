/*
Package lr implements grammars, grammar analysis and the construction of
LR parser tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals are
identified by name; a tokenizer produces tokens carrying these names.
Grammars may contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a").End()  // S  ➞  A a
    b.LHS("A").N("B").N("D").End()  // A  ➞  B D
    b.LHS("B").T("b").End()         // B  ➞  b
    b.LHS("B").Epsilon()            // B  ➞  ε
    b.LHS("D").T("d").End()         // D  ➞  d
    b.LHS("D").Epsilon()            // D  ➞  ε
    g, err := b.Grammar()

This results in the following grammar, augmented by rule 0:

   0: S' ➞ S
   1: S ➞ A a
   2: A ➞ B D
   3: B ➞ b
   4: B ➞ ε
   5: D ➞ d
   6: D ➞ ε

Rules may carry semantic actions, attached with Do(…). An action receives
the semantic values of the RHS symbols and returns the value of the LHS.
Grammars may be read from EBNF as well, see GrammarFromEBNF.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all epsilon-derivable
non-terminals.

    ga := lr.Analysis(g)
    ga.Grammar().EachNonTerminal(
        func(name string, N *lr.Symbol) interface{} {
            fmt.Printf("FIRST(%s) = %v", name, ga.First(N).Values())
            return nil
        })

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
First a characteristic finite state machine (CFSM) is built from the
grammar. The CFSM will then be transformed into a GOTO table and an ACTION
table. Three construction modes are available: SLR, LALR1 and LR1.
SLR uses the LR(0) automaton and FOLLOW sets as lookaheads. LR1 builds the
canonical LR(1) automaton. LALR1 builds the LR(1) automaton as well, then
merges all states with equal LR(0) cores.

    lrgen := lr.NewTableGenerator(ga)
    if err := lrgen.CreateTables(lr.LALR1); err != nil {
        // *lr.ShiftReduceConflict or *lr.ReduceReduceConflict
    }
    tables := lrgen.Tables()

Conflicts are never resolved silently. A grammar rejected in one mode may
be accepted in a stronger one. The CFSM will not be thrown away,
but is made available to the client. This is intended
for debugging purposes. It can be exported to Graphviz's Dot-format.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'jacob.lr'.
func tracer() tracing.Trace {
	return tracing.Select("jacob.lr")
}
