package engine

import (
	"fmt"

	"tinyDB/internal/codec"
	"tinyDB/internal/sql"
)

// StatementKind names the statement a Result answers.
type StatementKind string

const (
	KindSelect StatementKind = "select"
	KindInsert StatementKind = "insert"
)

// Result is the outcome of one statement. It holds no reference into the
// storage engine.
type Result struct {
	Kind    StatementKind
	Columns []string  // select only
	Rows    []sql.Row // select only

	RowsAffected int // insert only
}

// Rendered returns the result rows in literal form: bare digits for i32,
// single-quoted text, matching what an insert would have used.
func (r *Result) Rendered() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = codec.FormatRow(row)
	}
	return out
}

// Execute parses, validates and runs one statement. A failed statement never
// modifies storage: the row is fully decoded before it is appended.
func (e *DBEngine) Execute(query string) (*Result, error) {
	stmt, err := e.parser.Parse(query)
	if err != nil {
		return nil, err
	}
	return e.ExecuteStmt(stmt)
}

// ExecuteStmt runs an already parsed statement.
func (e *DBEngine) ExecuteStmt(stmt sql.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *sql.SelectStmt:
		return e.executeSelect(s)
	case *sql.InsertStmt:
		return e.executeInsert(s)
	default:
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}
}
