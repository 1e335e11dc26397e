package filestore

import (
	"encoding/binary"
	"fmt"
)

const (
	PageSize = 4096

	pageMagic      = "TPG1" // data page v1
	pageHeaderSize = 16
)

// Data page layout (on disk):
//
// offset  size  field
// 0       4     magic "TPG1"
// 4       4     pageID (uint32), 0-based among data pages
// 8       2     tupleCount (uint16)
// 10      6     reserved
// 16..    tupleCount fixed-width tuples, back to back
//
// Data page i lives at file offset (i+1)*PageSize; page 0 of the file is the
// header page.

// pageBuf is a 4KB page in memory.
type pageBuf []byte

// newEmptyDataPage initializes a new data page with given pageID.
func newEmptyDataPage(pageID uint32) pageBuf {
	buf := make(pageBuf, PageSize)
	copy(buf[0:4], pageMagic)
	binary.LittleEndian.PutUint32(buf[4:8], pageID)
	return buf
}

func (p pageBuf) pageID() uint32 {
	return binary.LittleEndian.Uint32(p[4:8])
}

func (p pageBuf) tupleCount() int {
	return int(binary.LittleEndian.Uint16(p[8:10]))
}

func (p pageBuf) setTupleCount(n int) {
	binary.LittleEndian.PutUint16(p[8:10], uint16(n))
}

func (p pageBuf) clone() pageBuf {
	out := make(pageBuf, len(p))
	copy(out, p)
	return out
}

// validate checks the magic, page id and tuple count of a page read from
// disk.
func (p pageBuf) validate(id uint32, perPage int) error {
	if len(p) != PageSize {
		return fmt.Errorf("page %d: size %d, expected %d", id, len(p), PageSize)
	}
	if string(p[0:4]) != pageMagic {
		return fmt.Errorf("page %d: invalid magic", id)
	}
	if p.pageID() != id {
		return fmt.Errorf("page %d: header says page %d", id, p.pageID())
	}
	if p.tupleCount() > perPage {
		return fmt.Errorf("page %d: %d tuples, at most %d fit", id, p.tupleCount(), perPage)
	}
	return nil
}

// tuplesPerPage returns how many tuples of the given size fit in a page.
func tuplesPerPage(tupleSize int) int {
	return (PageSize - pageHeaderSize) / tupleSize
}

// tuple returns the bytes of tuple i.
func (p pageBuf) tuple(i, tupleSize int) []byte {
	start := pageHeaderSize + i*tupleSize
	return p[start : start+tupleSize]
}

// appendTuple copies an encoded tuple into the next free position.
func (p pageBuf) appendTuple(tuple []byte) error {
	n := p.tupleCount()
	if n >= tuplesPerPage(len(tuple)) {
		return fmt.Errorf("page: not enough free space")
	}
	copy(p.tuple(n, len(tuple)), tuple)
	p.setTupleCount(n + 1)
	return nil
}
