package storage

import (
	"iter"

	"tinyDB/internal/sql"
)

// Snapshot is a view of a table's rows as they were when Scan was called.
// Rows appended afterwards are not visited. Rows may be iterated any number
// of times.
type Snapshot interface {
	// Len is the number of rows the snapshot covers.
	Len() int

	// Rows yields the rows in insertion order. Iteration stops at the first
	// error, which is yielded with a nil row.
	Rows() iter.Seq2[sql.Row, error]
}

// Engine owns the tables of one schema. It is the only path for reading and
// writing rows.
//
// Different implementations are possible:
//   - in-memory (for learning & tests)
//   - on-disk with fixed-width pages
type Engine interface {
	// Append adds row to the end of the named table. An Append is atomic
	// with respect to every Scan of the same table.
	Append(tableName string, row sql.Row) error

	// Scan opens a snapshot of the named table.
	Scan(tableName string) (Snapshot, error)

	// Flush makes appended rows durable. It is a no-op for volatile engines.
	Flush() error

	// Close flushes and releases resources. The engine must not be used
	// afterwards.
	Close() error
}

// Collect drains a snapshot into a slice.
func Collect(s Snapshot) ([]sql.Row, error) {
	rows := make([]sql.Row, 0, s.Len())
	for row, err := range s.Rows() {
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
