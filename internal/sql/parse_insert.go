package sql

// parseInsert parses:
//
//	insert into tableName ( col1=val1 col2=val2 ... );
//
// Whitespace is mandatory right after '(' and after every value, which also
// means right before ')'.
func parseInsert(p *tokenStream) (Statement, error) {
	p.next() // insert

	if err := p.expectKeyword("into"); err != nil {
		return nil, err
	}

	table, err := p.expect(TokenIdent, "table name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}

	stmt := &InsertStmt{TableName: table.Literal}
	after := "'('"
	for {
		tok := p.peek()
		if tok.Type == TokenEOF {
			return nil, Errorf(KindParse, "missing closing ')'")
		}
		if !tok.SpaceBefore {
			return nil, Errorf(KindParse, "expected whitespace after %s, got %v", after, tok)
		}
		if tok.Type == TokenRParen {
			p.next()
			break
		}

		col, err := p.expect(TokenIdent, "column name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenEquals, "'=' after column "+col.Literal); err != nil {
			return nil, err
		}

		val := p.next()
		var lit Literal
		switch val.Type {
		case TokenInt:
			lit = Literal{Kind: LiteralInt, Raw: val.Literal}
		case TokenText:
			lit = Literal{Kind: LiteralText, Raw: val.Literal}
		default:
			return nil, Errorf(KindParse, "expected integer or quoted text for column %q, got %v", col.Literal, val)
		}

		stmt.Assignments = append(stmt.Assignments, Assignment{Column: col.Literal, Value: lit})
		after = "value of column " + col.Literal
	}

	if err := p.expectEnd(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(stmt.Assignments))
	for _, a := range stmt.Assignments {
		if seen[a.Column] {
			return nil, Errorf(KindDuplicateColumn, "column %q assigned more than once", a.Column)
		}
		seen[a.Column] = true
	}

	return stmt, nil
}
