package sql

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenKeyword
	TokenIdent
	TokenInt
	TokenText
	TokenStar
	TokenEquals
	TokenLParen
	TokenRParen
	TokenSemicolon
	TokenComma
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenKeyword:
		return "keyword"
	case TokenIdent:
		return "identifier"
	case TokenInt:
		return "integer literal"
	case TokenText:
		return "text literal"
	case TokenStar:
		return "'*'"
	case TokenEquals:
		return "'='"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenSemicolon:
		return "';'"
	case TokenComma:
		return "','"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Token is one lexical unit of a statement.
//
// Literal holds the keyword in lower case, the identifier as written, the
// digits of an integer (with an optional leading '-') or the content of a
// text literal with its quotes stripped. SpaceBefore records whether
// whitespace separated the token from the previous one.
type Token struct {
	Type        TokenType
	Literal     string
	Pos         int
	SpaceBefore bool
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return t.Type.String()
	}
	if t.Type == TokenText {
		return fmt.Sprintf("%v '%s'", t.Type, t.Literal)
	}
	return fmt.Sprintf("%v %q", t.Type, t.Literal)
}

var keywords = map[string]bool{
	"select": true,
	"from":   true,
	"insert": true,
	"into":   true,
}

// Tokenizer scans a statement string. It is restartable through Reset.
type Tokenizer struct {
	input string
	pos   int
}

// NewTokenizer returns a tokenizer positioned at the start of input.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// Reset rewinds the tokenizer to the start of its input.
func (t *Tokenizer) Reset() {
	t.pos = 0
}

// Next returns the next token. At the end of input it keeps returning
// TokenEOF.
func (t *Tokenizer) Next() (Token, error) {
	start := t.pos
	for t.pos < len(t.input) && isSpace(t.input[t.pos]) {
		t.pos++
	}
	tok := Token{Pos: t.pos, SpaceBefore: t.pos > start}

	if t.pos >= len(t.input) {
		tok.Type = TokenEOF
		return tok, nil
	}

	ch := t.input[t.pos]
	switch {
	case ch == '*':
		return t.single(tok, TokenStar), nil
	case ch == '=':
		return t.single(tok, TokenEquals), nil
	case ch == '(':
		return t.single(tok, TokenLParen), nil
	case ch == ')':
		return t.single(tok, TokenRParen), nil
	case ch == ';':
		return t.single(tok, TokenSemicolon), nil
	case ch == ',':
		return t.single(tok, TokenComma), nil
	case ch == '\'':
		return t.readText(tok)
	case isDigit(ch) || (ch == '-' && t.pos+1 < len(t.input) && isDigit(t.input[t.pos+1])):
		return t.readInt(tok), nil
	case isIdentStart(ch):
		return t.readWord(tok), nil
	default:
		return Token{}, Errorf(KindLex, "unexpected character %q at offset %d", ch, t.pos)
	}
}

// All tokenizes the whole input, including the trailing TokenEOF.
func (t *Tokenizer) All() ([]Token, error) {
	var out []Token
	for {
		tok, err := t.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out, nil
		}
	}
}

// Tokenize is a shorthand for NewTokenizer(input).All().
func Tokenize(input string) ([]Token, error) {
	return NewTokenizer(input).All()
}

func (t *Tokenizer) single(tok Token, typ TokenType) Token {
	tok.Type = typ
	tok.Literal = t.input[t.pos : t.pos+1]
	t.pos++
	return tok
}

func (t *Tokenizer) readText(tok Token) (Token, error) {
	open := t.pos
	end := strings.IndexByte(t.input[open+1:], '\'')
	if end == -1 {
		return Token{}, Errorf(KindLex, "unterminated text literal starting at offset %d", open)
	}
	content := t.input[open+1 : open+1+end]
	if !utf8.ValidString(content) {
		return Token{}, Errorf(KindLex, "text literal starting at offset %d is not valid UTF-8", open)
	}
	tok.Type = TokenText
	tok.Literal = content
	t.pos = open + end + 2
	return tok, nil
}

func (t *Tokenizer) readInt(tok Token) Token {
	start := t.pos
	if t.input[t.pos] == '-' {
		t.pos++
	}
	for t.pos < len(t.input) && isDigit(t.input[t.pos]) {
		t.pos++
	}
	tok.Type = TokenInt
	tok.Literal = t.input[start:t.pos]
	return tok
}

func (t *Tokenizer) readWord(tok Token) Token {
	start := t.pos
	for t.pos < len(t.input) && isIdentPart(t.input[t.pos]) {
		t.pos++
	}
	word := t.input[start:t.pos]
	if lower := strings.ToLower(word); keywords[lower] {
		tok.Type = TokenKeyword
		tok.Literal = lower
		return tok
	}
	tok.Type = TokenIdent
	tok.Literal = word
	return tok
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
