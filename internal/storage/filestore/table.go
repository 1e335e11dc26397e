package filestore

import (
	"fmt"
	"iter"
	"os"
	"sync"

	"tinyDB/internal/codec"
	"tinyDB/internal/schema"
	"tinyDB/internal/sql"
	"tinyDB/internal/storage"
)

// tableFile is the open state of one table. mu guards the file, numPages
// and rowCount: Append takes it exclusively, page reads share it.
type tableFile struct {
	mu sync.RWMutex

	def       *schema.Table
	f         *os.File
	tupleSize int
	perPage   int

	numPages uint32
	rowCount int
}

// Append encodes row and writes it into the last data page, starting a new
// page when the last one is full. Pages are copied before modification, so
// a page already handed to a reader never changes.
func (e *FileEngine) Append(tableName string, row sql.Row) error {
	t, err := e.table(tableName)
	if err != nil {
		return err
	}

	tuple := make([]byte, t.tupleSize)
	if err := codec.EncodeTuple(t.def, row, tuple); err != nil {
		return fmt.Errorf("filestore: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var p pageBuf
	if t.numPages > 0 && t.rowCount < int(t.numPages)*t.perPage {
		last, err := e.fetchPage(t, t.numPages-1)
		if err != nil {
			return err
		}
		p = last.clone()
	} else {
		p = newEmptyDataPage(t.numPages)
	}

	if err := p.appendTuple(tuple); err != nil {
		return fmt.Errorf("filestore: table %q page %d: %w", t.def.Name, p.pageID(), err)
	}
	if err := t.writePage(p); err != nil {
		return err
	}

	if p.pageID() == t.numPages {
		t.numPages++
	}
	t.rowCount++
	e.cache.Add(pageKey{table: t.def.Name, id: p.pageID()}, p)
	return nil
}

// Scan captures the row count of a table. Rows are decoded lazily, one
// page at a time, while iterating.
func (e *FileEngine) Scan(tableName string) (storage.Snapshot, error) {
	t, err := e.table(tableName)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	n := t.rowCount
	t.mu.RUnlock()

	return &fileSnapshot{eng: e, t: t, n: n}, nil
}

type fileSnapshot struct {
	eng *FileEngine
	t   *tableFile
	n   int
}

func (s *fileSnapshot) Len() int {
	return s.n
}

func (s *fileSnapshot) Rows() iter.Seq2[sql.Row, error] {
	return func(yield func(sql.Row, error) bool) {
		for seen, id := 0, uint32(0); seen < s.n; id++ {
			p, err := s.page(id)
			if err != nil {
				yield(nil, err)
				return
			}

			count := min(p.tupleCount(), s.n-seen)
			for i := 0; i < count; i++ {
				row, err := codec.DecodeTuple(s.t.def, p.tuple(i, s.t.tupleSize))
				if err != nil {
					yield(nil, fmt.Errorf("filestore: table %q page %d tuple %d: %w", s.t.def.Name, id, i, err))
					return
				}
				if !yield(row, nil) {
					return
				}
			}
			seen += count
			if count == 0 {
				yield(nil, fmt.Errorf("filestore: table %q page %d: no tuples where %d rows remain", s.t.def.Name, id, s.n-seen))
				return
			}
		}
	}
}

func (s *fileSnapshot) page(id uint32) (pageBuf, error) {
	if s.eng.closed.Load() {
		return nil, errClosed
	}
	s.t.mu.RLock()
	defer s.t.mu.RUnlock()
	return s.eng.fetchPage(s.t, id)
}
