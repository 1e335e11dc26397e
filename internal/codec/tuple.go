package codec

import (
	"encoding/binary"
	"fmt"

	"tinyDB/internal/schema"
	"tinyDB/internal/sql"
)

// Tuple layout (on disk), fixed width per table:
//
// offset  size  field
// 0       1     deleted flag (always 0, no deletes exist)
// 1       7     reserved
// 8..     per column, in declaration order:
//
//	i32:  4 bytes, big endian
//	text: 1 length byte + 255 bytes, zero padded
const (
	TupleHeaderSize = 8

	int32Width = 4
	textWidth  = 1 + schema.MaxTextBytes
)

// ColumnWidth returns the number of bytes a column occupies in a tuple.
func ColumnWidth(t schema.Type) int {
	switch t {
	case schema.TypeInt32:
		return int32Width
	case schema.TypeText:
		return textWidth
	default:
		return 0
	}
}

// TupleSize returns the encoded size of one row of table t.
func TupleSize(t *schema.Table) int {
	size := TupleHeaderSize
	for _, c := range t.Columns {
		size += ColumnWidth(c.Type)
	}
	return size
}

// EncodeTuple writes row into buf, which must be at least TupleSize(t)
// bytes long.
func EncodeTuple(t *schema.Table, row sql.Row, buf []byte) error {
	size := TupleSize(t)
	if len(buf) < size {
		return fmt.Errorf("codec: tuple buffer is %d bytes, need %d", len(buf), size)
	}
	if err := sql.CheckRow(t, row); err != nil {
		return err
	}

	clear(buf[:size])
	off := TupleHeaderSize
	for i, col := range t.Columns {
		v := row[i]
		switch col.Type {
		case schema.TypeInt32:
			binary.BigEndian.PutUint32(buf[off:off+int32Width], uint32(v.I32))
		case schema.TypeText:
			buf[off] = byte(len(v.S))
			copy(buf[off+1:off+textWidth], v.S)
		}
		off += ColumnWidth(col.Type)
	}
	return nil
}

// DecodeTuple reads one row of table t from buf.
func DecodeTuple(t *schema.Table, buf []byte) (sql.Row, error) {
	size := TupleSize(t)
	if len(buf) < size {
		return nil, fmt.Errorf("codec: tuple buffer is %d bytes, need %d", len(buf), size)
	}

	row := make(sql.Row, len(t.Columns))
	off := TupleHeaderSize
	for i, col := range t.Columns {
		switch col.Type {
		case schema.TypeInt32:
			row[i] = sql.Int32(int32(binary.BigEndian.Uint32(buf[off : off+int32Width])))
		case schema.TypeText:
			n := int(buf[off])
			row[i] = sql.Text(string(buf[off+1 : off+1+n]))
		default:
			return nil, fmt.Errorf("codec: column %q has unsupported type %v", col.Name, col.Type)
		}
		off += ColumnWidth(col.Type)
	}
	return row, nil
}
