package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// columnDoc is one entry of a table's column list in the schema document:
//
//	{"users": [{"name": "id", "type": "i32"}, {"name": "name", "type": "text"}]}
type columnDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// LoadFile reads and parses a schema document from disk.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a schema document.
func Parse(r io.Reader) (*Schema, error) {
	var doc map[string][]columnDoc

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("no tables defined")
	}

	tables := make([]*Table, 0, len(doc))
	for name, cols := range doc {
		defs := make([]Column, 0, len(cols))
		for _, c := range cols {
			typ, err := ParseType(c.Type)
			if err != nil {
				return nil, fmt.Errorf("table %q column %q: %w", name, c.Name, err)
			}
			defs = append(defs, Column{Name: c.Name, Type: typ})
		}
		t, err := NewTable(name, defs)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	return New(tables...)
}
