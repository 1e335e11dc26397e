package filestore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"tinyDB/internal/schema"
)

const (
	fileMagic = "TDBT1" // 5 bytes magic
)

// writeHeader encodes the table definition into a header page. Page 0 of
// every table file holds it:
//
//	magic:     5 bytes "TDBT1"
//	numCols:   uint16
//	per column:
//	  nameLen: uint16
//	  name:    nameLen bytes (UTF-8)
//	  type:    uint8 (matches schema.Type)
func writeHeader(t *schema.Table) (pageBuf, error) {
	if len(t.Columns) > 0xFFFF {
		return nil, fmt.Errorf("filestore: too many columns: %d", len(t.Columns))
	}

	buf := make([]byte, 0, PageSize)
	buf = append(buf, fileMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(t.Columns)))

	for _, c := range t.Columns {
		if len(c.Name) > 0xFFFF {
			return nil, fmt.Errorf("filestore: column name too long: %s", c.Name)
		}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(c.Name)))
		buf = append(buf, c.Name...)
		buf = append(buf, uint8(c.Type))
	}

	if len(buf) > PageSize {
		return nil, fmt.Errorf("filestore: table %q header is %d bytes, exceeds page size", t.Name, len(buf))
	}

	p := make(pageBuf, PageSize)
	copy(p, buf)
	return p, nil
}

// readHeader decodes the column list stored in a header page.
func readHeader(p pageBuf) ([]schema.Column, error) {
	r := bytes.NewReader(p)

	magicBuf := make([]byte, len(fileMagic))
	if _, err := io.ReadFull(r, magicBuf); err != nil {
		return nil, err
	}
	if string(magicBuf) != fileMagic {
		return nil, fmt.Errorf("filestore: invalid file magic, not a table file")
	}

	var numCols uint16
	if err := binary.Read(r, binary.LittleEndian, &numCols); err != nil {
		return nil, err
	}

	cols := make([]schema.Column, numCols)
	for i := 0; i < int(numCols); i++ {
		var nameLen uint16
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return nil, err
		}

		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return nil, err
		}

		var t uint8
		if err := binary.Read(r, binary.LittleEndian, &t); err != nil {
			return nil, err
		}

		cols[i] = schema.Column{
			Name: string(nameBytes),
			Type: schema.Type(t),
		}
	}

	return cols, nil
}

// checkHeader fails unless the stored columns match the table definition
// exactly.
func checkHeader(t *schema.Table, stored []schema.Column) error {
	if len(stored) != len(t.Columns) {
		return fmt.Errorf("filestore: table %q: file has %d columns, schema declares %d", t.Name, len(stored), len(t.Columns))
	}
	for i, c := range t.Columns {
		if stored[i] != c {
			return fmt.Errorf("filestore: table %q: column %d is %s %v on disk, %s %v in schema",
				t.Name, i, stored[i].Name, stored[i].Type, c.Name, c.Type)
		}
	}
	return nil
}
