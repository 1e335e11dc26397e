package memstore

import (
	"fmt"
	"iter"
	"sync"

	"tinyDB/internal/schema"
	"tinyDB/internal/sql"
	"tinyDB/internal/storage"
)

type table struct {
	mu   sync.RWMutex
	def  *schema.Table
	rows []sql.Row // append-only; stored rows are never modified
}

type memEngine struct {
	tables map[string]*table // fixed at construction
}

// New creates an in-memory storage engine with one empty table per schema
// table.
func New(s *schema.Schema) storage.Engine {
	e := &memEngine{tables: make(map[string]*table)}
	for _, name := range s.TableNames() {
		def, _ := s.Table(name)
		e.tables[name] = &table{def: def}
	}
	return e
}

func (e *memEngine) table(name string) (*table, error) {
	t, ok := e.tables[name]
	if !ok {
		return nil, sql.Errorf(sql.KindUnknownTable, "table %q does not exist", name)
	}
	return t, nil
}

// Append adds a row to a table.
func (e *memEngine) Append(tableName string, row sql.Row) error {
	t, err := e.table(tableName)
	if err != nil {
		return err
	}

	// Type check each value against the column definition.
	if err := sql.CheckRow(t.def, row); err != nil {
		return fmt.Errorf("memstore: %w", err)
	}

	// store a copy to avoid external modification
	stored := row.Clone()

	t.mu.Lock()
	t.rows = append(t.rows, stored)
	t.mu.Unlock()
	return nil
}

// Scan captures the current rows of a table. Because rows are only ever
// appended, the captured prefix never changes underneath the snapshot.
func (e *memEngine) Scan(tableName string) (storage.Snapshot, error) {
	t, err := e.table(tableName)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	rows := t.rows[:len(t.rows):len(t.rows)]
	t.mu.RUnlock()

	return snapshot(rows), nil
}

// Flush is a no-op: the in-memory engine is volatile.
func (e *memEngine) Flush() error {
	return nil
}

// Close is a no-op.
func (e *memEngine) Close() error {
	return nil
}

type snapshot []sql.Row

func (s snapshot) Len() int {
	return len(s)
}

func (s snapshot) Rows() iter.Seq2[sql.Row, error] {
	return func(yield func(sql.Row, error) bool) {
		for _, r := range s {
			// Return a copy to prevent callers from mutating stored data.
			if !yield(r.Clone(), nil) {
				return
			}
		}
	}
}
