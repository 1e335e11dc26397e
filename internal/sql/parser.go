package sql

import (
	"tinyDB/internal/schema"
)

// Parse parses a single statement string into an AST Statement. It checks
// the grammar only; use a Parser to also resolve names against a schema.
//
// Supported forms:
//
//	select * from users;
//	insert into users ( id=1 name='Alice' );
func Parse(query string) (Statement, error) {
	toks, err := Tokenize(query)
	if err != nil {
		return nil, err
	}

	p := &tokenStream{toks: toks}
	first := p.peek()
	if first.Type == TokenEOF {
		return nil, Errorf(KindParse, "empty statement")
	}
	if first.Type != TokenKeyword {
		return nil, Errorf(KindParse, "expected select or insert, got %v", first)
	}

	switch first.Literal {
	case "select":
		return parseSelect(p)
	case "insert":
		return parseInsert(p)
	default:
		return nil, Errorf(KindParse, "statement cannot start with %q (supported: select, insert)", first.Literal)
	}
}

// Parser parses statements and resolves their table and column names
// against a schema.
type Parser struct {
	schema *schema.Schema
}

// NewParser returns a parser bound to s.
func NewParser(s *schema.Schema) *Parser {
	return &Parser{schema: s}
}

// Parse parses query and checks that every table and column it names
// exists.
func (p *Parser) Parse(query string) (Statement, error) {
	stmt, err := Parse(query)
	if err != nil {
		return nil, err
	}

	table, ok := p.schema.Table(stmt.Table())
	if !ok {
		return nil, Errorf(KindUnknownTable, "table %q does not exist", stmt.Table())
	}

	if ins, ok := stmt.(*InsertStmt); ok {
		for _, a := range ins.Assignments {
			if _, ok := table.ColumnIndex(a.Column); !ok {
				return nil, Errorf(KindUnknownColumn, "table %q has no column %q", table.Name, a.Column)
			}
		}
	}
	return stmt, nil
}
