package engine

import (
	"tinyDB/internal/schema"
	"tinyDB/internal/sql"
	"tinyDB/internal/storage"
)

// DBEngine ties the parser, the row codec and a storage engine together
// for one schema. It is safe for concurrent use; all synchronization lives
// in the storage engine.
type DBEngine struct {
	schema *schema.Schema
	parser *sql.Parser
	store  storage.Engine
}

// New creates a DBEngine over store, which must hold the tables of s.
func New(s *schema.Schema, store storage.Engine) *DBEngine {
	return &DBEngine{
		schema: s,
		parser: sql.NewParser(s),
		store:  store,
	}
}

// Schema returns the schema the engine was built with.
func (e *DBEngine) Schema() *schema.Schema {
	return e.schema
}

// Flush asks the storage engine to make appended rows durable.
func (e *DBEngine) Flush() error {
	return e.store.Flush()
}

// Close flushes and closes the storage engine.
func (e *DBEngine) Close() error {
	return e.store.Close()
}
