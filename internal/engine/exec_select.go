package engine

import (
	"fmt"

	"tinyDB/internal/sql"
	"tinyDB/internal/storage"
)

func (e *DBEngine) executeSelect(stmt *sql.SelectStmt) (*Result, error) {
	cols, rows, err := e.SelectAll(stmt.TableName)
	if err != nil {
		return nil, err
	}
	return &Result{Kind: KindSelect, Columns: cols, Rows: rows}, nil
}

// SelectAll returns the column names and every row of the given table, in
// insertion order. Rows appended while the scan runs are not included.
func (e *DBEngine) SelectAll(tableName string) ([]string, []sql.Row, error) {
	t, ok := e.schema.Table(tableName)
	if !ok {
		return nil, nil, sql.Errorf(sql.KindUnknownTable, "table %q does not exist", tableName)
	}

	snap, err := e.store.Scan(tableName)
	if err != nil {
		return nil, nil, fmt.Errorf("scan: %w", err)
	}
	rows, err := storage.Collect(snap)
	if err != nil {
		return nil, nil, fmt.Errorf("scan: %w", err)
	}
	return t.ColumnNames(), rows, nil
}
