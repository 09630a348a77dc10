package jacob

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// Token represents an input token. Tokens are produced by a tokenizer and
// reflect terminals of a grammar. Terminals are identified by name, thus a
// token carries the name of the terminal it stands for.
//
// An example would be a token for a floating point number:
//
//    Name    = "float"     // terminal name, as declared for the grammar
//    Lexeme  = "3.1416"    // lexeme how it appeared in the input stream
//    Value   = 3.1416      // semantic value, a float64
//    Span    = 67…73       // occured from position 67 in the input stream
//
// Token.Value() is the semantic value a parser pushes onto its stack when
// shifting the token. Tokenizers will usually default it to the lexeme.
type Token interface {
	Name() string
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input run. A span denotes
// a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
