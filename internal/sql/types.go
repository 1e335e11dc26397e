package sql

import "tinyDB/internal/schema"

// Value represents a single cell in a table (one column in one row).
// Only the field matching Type should be read.
type Value struct {
	Type schema.Type

	I32 int32  // for schema.TypeInt32
	S   string // for schema.TypeText
}

// Int32 builds an i32 value.
func Int32(v int32) Value {
	return Value{Type: schema.TypeInt32, I32: v}
}

// Text builds a text value.
func Text(s string) Value {
	return Value{Type: schema.TypeText, S: s}
}

// Row represents one record in a table: a slice of Values, one per column.
type Row []Value

// Clone returns a copy of r that shares no backing array with it.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// CheckRow verifies that row has exactly one value per column and that each
// value's type matches its column.
func CheckRow(t *schema.Table, row Row) error {
	if len(row) != len(t.Columns) {
		return Errorf(KindMissingColumn, "table %s: row has %d values, expected %d", t.Name, len(row), len(t.Columns))
	}
	for i, col := range t.Columns {
		if row[i].Type != col.Type {
			return Errorf(KindTypeMismatch, "column %q: expected %v, got %v", col.Name, col.Type, row[i].Type)
		}
		if col.Type == schema.TypeText && len(row[i].S) > schema.MaxTextBytes {
			return Errorf(KindTextTooLong, "column %q: %d bytes exceeds %d", col.Name, len(row[i].S), schema.MaxTextBytes)
		}
	}
	return nil
}
