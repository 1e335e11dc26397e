package sql

// parseSelect parses:
//
//	select * from tableName;
func parseSelect(p *tokenStream) (Statement, error) {
	p.next() // select

	star := p.next()
	if star.Type != TokenStar {
		if star.Type == TokenIdent {
			return nil, Errorf(KindParse, "column projection is not supported, use select * (got %v)", star)
		}
		return nil, Errorf(KindParse, "expected '*' after select, got %v", star)
	}

	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}

	table, err := p.expect(TokenIdent, "table name")
	if err != nil {
		return nil, err
	}

	if err := p.expectEnd(); err != nil {
		return nil, err
	}

	return &SelectStmt{TableName: table.Literal}, nil
}
