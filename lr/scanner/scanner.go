/*
Package scanner defines an interface for scanners to be used with parsers of package lr.

Two default scanner implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', and (2) a lexer builder on top of lexmachine, living in sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package scanner

import (
	"fmt"
	"io"
	"strconv"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cast"
	"github.com/xiul/Jacob"
)

// tracer traces with key 'jacob.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("jacob.scanner")
}

// Token names produced by the Go tokenizer. Single-character tokens are
// named by the character itself, e.g. "+".
const (
	IdentName   = "id"
	IntName     = "integer"
	FloatName   = "float"
	StringName  = "string"
	CharName    = "char"
	CommentName = "comment"
	EOFName     = "$"
)

// Tokenizer is a scanner interface. A tokenizer produces a finite sequence of
// tokens, the last one being the end-of-input token. Calling NextToken after
// end of input repeats the end-of-input token.
type Tokenizer interface {
	NextToken() (jacob.Token, error)
}

// LexError is returned by tokenizers if no token can be recognized at the
// current input position.
type LexError struct {
	Source string // name of the input
	Offset int    // byte offset into the input
	Line   int    // line number, starting at 1
	Column int    // column number, starting at 1
	Msg    string
}

func (e *LexError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Msg)
}

// All reads tokens from a tokenizer up to and including the first token
// named eof.
func All(t Tokenizer, eof string) ([]jacob.Token, error) {
	var tokens []jacob.Token
	for {
		tok, err := t.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Name() == eof {
			return tokens, nil
		}
	}
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the Go
// tokenizer as well as the lexmachine based lexers.
type DefaultToken struct {
	name   string
	lexeme string
	Val    interface{}
	span   jacob.Span
}

var _ jacob.Token = DefaultToken{}

// MakeDefaultToken creates a token. val is the semantic value of the token.
func MakeDefaultToken(name, lexeme string, val interface{}, span jacob.Span) DefaultToken {
	return DefaultToken{
		name:   name,
		lexeme: lexeme,
		Val:    val,
		span:   span,
	}
}

// Name is the terminal name of the token.
func (t DefaultToken) Name() string {
	return t.name
}

// Value is the semantic value of the token.
func (t DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme is the input text the token has been recognized from.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span is the position of the lexeme in the input, as byte offsets.
func (t DefaultToken) Span() jacob.Span {
	return t.span
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("<%s|%q>", t.name, t.lexeme)
}

// --- Go tokenizer ----------------------------------------------------------

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune   // last token this scanner has produced
	eof          string // name of the end-of-input token
	unifyStrings bool   // convert single chars to strings
	err          *LexError
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
// Tokens are named "id", "integer", "float", "string", "char" (or "comment", if
// comments are not skipped); operators and punctuation are named by their
// character. Numbers and strings carry converted values.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{eof: EOFName}
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = t.recordError
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *DefaultTokenizer) recordError(s *scanner.Scanner, msg string) {
	if t.err != nil {
		return
	}
	pos := s.Position
	if !pos.IsValid() {
		pos = s.Pos()
	}
	t.err = &LexError{
		Source: t.Filename,
		Offset: pos.Offset,
		Line:   pos.Line,
		Column: pos.Column,
		Msg:    msg,
	}
	tracer().Errorf("scanner error: %v", t.err)
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() (jacob.Token, error) {
	if t.lastToken == scanner.EOF {
		return t.eofToken(), nil
	}
	t.lastToken = t.Scan()
	if t.err != nil {
		return nil, t.err
	}
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
		return t.eofToken(), nil
	}
	text := t.TokenText()
	span := jacob.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)}
	name, val, err := t.classify(t.lastToken, text)
	if err != nil {
		return nil, &LexError{
			Source: t.Filename,
			Offset: t.Position.Offset,
			Line:   t.Position.Line,
			Column: t.Position.Column,
			Msg:    err.Error(),
		}
	}
	return MakeDefaultToken(name, text, val, span), nil
}

func (t *DefaultTokenizer) eofToken() jacob.Token {
	off := uint64(t.Pos().Offset)
	return MakeDefaultToken(t.eof, "", nil, jacob.Span{off, off})
}

func (t *DefaultTokenizer) classify(tok rune, text string) (string, interface{}, error) {
	switch tok {
	case scanner.Ident:
		return IdentName, text, nil
	case scanner.Int:
		v, err := cast.ToInt64E(text)
		return IntName, v, err
	case scanner.Float:
		v, err := cast.ToFloat64E(text)
		return FloatName, v, err
	case scanner.String, scanner.RawString:
		s, err := strconv.Unquote(text)
		return StringName, s, err
	case scanner.Char:
		if t.unifyStrings {
			s, err := strconv.Unquote(text)
			return StringName, s, err
		}
		r, _, _, err := strconv.UnquoteChar(text[1:len(text)-1], '\'')
		return CharName, r, err
	case scanner.Comment:
		return CommentName, text, nil
	}
	return string(tok), text, nil
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenizer.
type Option func(p *DefaultTokenizer)

// SkipComments sets or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// EndMarker sets the name of the end-of-input token (default "$").
func EndMarker(name string) Option {
	return func(t *DefaultTokenizer) {
		t.eof = name
	}
}
