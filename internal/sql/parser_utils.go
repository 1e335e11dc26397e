package sql

// tokenStream is a cursor over a tokenized statement. The last token is
// always TokenEOF, so peek and next never run past the end.
type tokenStream struct {
	toks []Token
	pos  int
}

func (p *tokenStream) peek() Token {
	return p.toks[p.pos]
}

func (p *tokenStream) next() Token {
	tok := p.toks[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

// expect consumes the next token and fails unless it has type typ.
func (p *tokenStream) expect(typ TokenType, what string) (Token, error) {
	tok := p.next()
	if tok.Type != typ {
		return Token{}, Errorf(KindParse, "expected %s, got %v", what, tok)
	}
	return tok, nil
}

func (p *tokenStream) expectKeyword(kw string) error {
	tok := p.next()
	if tok.Type != TokenKeyword || tok.Literal != kw {
		return Errorf(KindParse, "expected %q, got %v", kw, tok)
	}
	return nil
}

// expectEnd consumes the mandatory ';' and checks nothing follows it.
func (p *tokenStream) expectEnd() error {
	tok := p.next()
	if tok.Type == TokenEOF {
		return Errorf(KindParse, "statement must end with ';'")
	}
	if tok.Type != TokenSemicolon {
		return Errorf(KindParse, "expected ';', got %v", tok)
	}
	if rest := p.next(); rest.Type != TokenEOF {
		return Errorf(KindParse, "unexpected %v after ';'", rest)
	}
	return nil
}
