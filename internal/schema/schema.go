package schema

import (
	"fmt"
	"sort"
	"strings"
)

// MaxTextBytes is the upper bound on the byte length of a text value.
const MaxTextBytes = 255

// Type represents the declared type of a column.
type Type uint8

const (
	TypeInt32 Type = iota + 1
	TypeText
)

func (t Type) String() string {
	switch t {
	case TypeInt32:
		return "i32"
	case TypeText:
		return "text"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// ParseType maps a schema document type name to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "i32", "int", "integer":
		return TypeInt32, nil
	case "text":
		return TypeText, nil
	default:
		return 0, fmt.Errorf("unknown column type %q", s)
	}
}

// Column describes metadata for a single column in a table.
type Column struct {
	Name string
	Type Type
}

// Table is a named, ordered list of columns.
type Table struct {
	Name    string
	Columns []Column

	index map[string]int
}

// NewTable builds a table definition. Table and column names must be
// identifiers that are not reserved words; column names must be unique.
func NewTable(name string, cols []Column) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("schema: empty table name")
	}
	if err := checkName(name); err != nil {
		return nil, fmt.Errorf("schema: table %q: %w", name, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("schema: table %q has no columns", name)
	}

	t := &Table{
		Name:    name,
		Columns: make([]Column, len(cols)),
		index:   make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("schema: table %q: column %d has no name", name, i)
		}
		if err := checkName(c.Name); err != nil {
			return nil, fmt.Errorf("schema: table %q: column %q: %w", name, c.Name, err)
		}
		if c.Type != TypeInt32 && c.Type != TypeText {
			return nil, fmt.Errorf("schema: table %q: column %q has invalid type %v", name, c.Name, c.Type)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("schema: table %q: duplicate column %q", name, c.Name)
		}
		t.index[c.Name] = i
		t.Columns[i] = c
	}
	return t, nil
}

// reserved words cannot name a table or column, in any letter case.
var reserved = map[string]bool{
	"select": true,
	"from":   true,
	"insert": true,
	"into":   true,
}

// checkName accepts names a statement can spell: a letter or '_' followed
// by letters, digits or '_', and not a reserved word.
func checkName(name string) error {
	for i := 0; i < len(name); i++ {
		ch := name[i]
		letter := 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
		digit := '0' <= ch && ch <= '9'
		if !letter && !(digit && i > 0) {
			return fmt.Errorf("name must be letters, digits and '_', not starting with a digit")
		}
	}
	if reserved[strings.ToLower(name)] {
		return fmt.Errorf("%q is a reserved word", name)
	}
	return nil
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Schema is the immutable set of tables known to the database.
type Schema struct {
	tables map[string]*Table
	names  []string
}

// New builds a schema from table definitions. Table names must be unique.
func New(tables ...*Table) (*Schema, error) {
	s := &Schema{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if _, dup := s.tables[t.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate table %q", t.Name)
		}
		s.tables[t.Name] = t
		s.names = append(s.names, t.Name)
	}
	sort.Strings(s.names)
	return s, nil
}

// Table looks up a table by name.
func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// TableNames returns all table names in lexical order.
func (s *Schema) TableNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
