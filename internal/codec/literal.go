// Package codec converts between statement literals, typed values and the
// fixed-width on-disk tuple layout.
package codec

import (
	"errors"
	"strconv"

	"tinyDB/internal/schema"
	"tinyDB/internal/sql"
)

// DecodeLiteral turns a parsed literal into a value of col's type. Quoting is
// the only type discriminator: an i32 column never accepts a quoted literal
// and a text column never accepts a bare one.
func DecodeLiteral(col schema.Column, lit sql.Literal) (sql.Value, error) {
	switch col.Type {
	case schema.TypeInt32:
		if lit.Kind != sql.LiteralInt {
			return sql.Value{}, sql.Errorf(sql.KindTypeMismatch, "column %q is i32, got %v literal", col.Name, lit.Kind)
		}
		n, err := strconv.ParseInt(lit.Raw, 10, 32)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return sql.Value{}, sql.Errorf(sql.KindIntegerOverflow, "column %q: %s does not fit in i32", col.Name, lit.Raw)
			}
			return sql.Value{}, sql.Errorf(sql.KindTypeMismatch, "column %q: invalid integer %q", col.Name, lit.Raw)
		}
		return sql.Int32(int32(n)), nil

	case schema.TypeText:
		if lit.Kind != sql.LiteralText {
			return sql.Value{}, sql.Errorf(sql.KindTypeMismatch, "column %q is text, value must be quoted", col.Name)
		}
		if len(lit.Raw) > schema.MaxTextBytes {
			return sql.Value{}, sql.Errorf(sql.KindTextTooLong, "column %q: %d bytes exceeds %d", col.Name, len(lit.Raw), schema.MaxTextBytes)
		}
		return sql.Text(lit.Raw), nil

	default:
		return sql.Value{}, sql.Errorf(sql.KindTypeMismatch, "column %q has unsupported type %v", col.Name, col.Type)
	}
}

// BindInsert builds a complete row, in column-declaration order, from an
// insert statement. Every column must be assigned.
func BindInsert(t *schema.Table, stmt *sql.InsertStmt) (sql.Row, error) {
	for _, a := range stmt.Assignments {
		if _, ok := t.ColumnIndex(a.Column); !ok {
			return nil, sql.Errorf(sql.KindUnknownColumn, "table %q has no column %q", t.Name, a.Column)
		}
	}

	row := make(sql.Row, len(t.Columns))
	for i, col := range t.Columns {
		lit, ok := stmt.Lookup(col.Name)
		if !ok {
			return nil, sql.Errorf(sql.KindMissingColumn, "no value for column %q", col.Name)
		}
		v, err := DecodeLiteral(col, lit)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// FormatValue renders v the way it would be written in an insert: bare
// digits for i32, single-quoted for text.
func FormatValue(v sql.Value) string {
	switch v.Type {
	case schema.TypeInt32:
		return strconv.FormatInt(int64(v.I32), 10)
	case schema.TypeText:
		return "'" + v.S + "'"
	default:
		return "NULL"
	}
}

// FormatRow renders every value of row with FormatValue.
func FormatRow(row sql.Row) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = FormatValue(v)
	}
	return out
}
