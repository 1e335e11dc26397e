package engine

import (
	"fmt"

	"tinyDB/internal/codec"
	"tinyDB/internal/sql"
)

// executeInsert binds every assignment to its column, in declaration order,
// and appends the row. Nothing is stored unless the whole row is valid.
func (e *DBEngine) executeInsert(stmt *sql.InsertStmt) (*Result, error) {
	t, ok := e.schema.Table(stmt.TableName)
	if !ok {
		return nil, sql.Errorf(sql.KindUnknownTable, "table %q does not exist", stmt.TableName)
	}

	row, err := codec.BindInsert(t, stmt)
	if err != nil {
		return nil, err
	}

	if err := e.store.Append(stmt.TableName, row); err != nil {
		return nil, fmt.Errorf("append: %w", err)
	}
	return &Result{Kind: KindInsert, RowsAffected: 1}, nil
}

// InsertRow validates row against the table definition and appends it.
func (e *DBEngine) InsertRow(tableName string, row sql.Row) error {
	t, ok := e.schema.Table(tableName)
	if !ok {
		return sql.Errorf(sql.KindUnknownTable, "table %q does not exist", tableName)
	}
	if err := sql.CheckRow(t, row); err != nil {
		return err
	}
	if err := e.store.Append(tableName, row); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}
