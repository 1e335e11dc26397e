package filestore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"tinyDB/internal/codec"
	"tinyDB/internal/schema"
	"tinyDB/internal/sql"
	"tinyDB/internal/storage"
)

// DefaultCachePages is the page cache size used when Options leaves it unset.
const DefaultCachePages = 64

// Options tunes a FileEngine.
type Options struct {
	// CachePages is the number of data pages kept in the LRU page cache.
	CachePages int

	Logger *slog.Logger
}

// pageKey identifies a data page across all tables.
type pageKey struct {
	table string
	id    uint32
}

// FileEngine is a simple on-disk storage engine.
// It stores one file per table in the given directory.
//
// Layout:
//
//	[header page][data page 0][data page 1]...
//
// Every data page but the last is full, since rows are only appended.
// Appends write the touched page through to the file immediately; Flush
// fsyncs the files.
type FileEngine struct {
	dir    string
	log    *slog.Logger
	tables map[string]*tableFile
	cache  *lru.Cache[pageKey, pageBuf]
	closed atomic.Bool
}

var _ storage.Engine = (*FileEngine)(nil)

// New opens (or creates) one table file in dir for every table of s.
// Existing files must match the schema.
func New(dir string, s *schema.Schema, opts Options) (*FileEngine, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create dir: %w", err)
	}

	if opts.CachePages <= 0 {
		opts.CachePages = DefaultCachePages
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cache, err := lru.New[pageKey, pageBuf](opts.CachePages)
	if err != nil {
		return nil, fmt.Errorf("filestore: page cache: %w", err)
	}

	e := &FileEngine{
		dir:    dir,
		log:    opts.Logger.With("component", "filestore"),
		tables: make(map[string]*tableFile),
		cache:  cache,
	}

	for _, name := range s.TableNames() {
		def, _ := s.Table(name)
		t, err := e.openTable(def)
		if err != nil {
			e.closeFiles()
			return nil, err
		}
		e.tables[name] = t
		e.log.Debug("table opened", "table", name, "rows", t.rowCount, "pages", t.numPages)
	}

	return e, nil
}

func (e *FileEngine) tablePath(name string) string {
	return filepath.Join(e.dir, name+".tdb")
}

// openTable opens a table file, writing a fresh header page when the file
// is new and verifying the header otherwise.
func (e *FileEngine) openTable(def *schema.Table) (*tableFile, error) {
	if def.Name == "" || filepath.Base(def.Name) != def.Name || def.Name == "." || def.Name == ".." {
		return nil, fmt.Errorf("filestore: table name %q cannot be used as a file name", def.Name)
	}

	tupleSize := codec.TupleSize(def)
	perPage := tuplesPerPage(tupleSize)
	if perPage == 0 {
		return nil, fmt.Errorf("filestore: table %q: a %d-byte row does not fit in a %d-byte page", def.Name, tupleSize, PageSize)
	}

	path := e.tablePath(def.Name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("filestore: open table file: %w", err)
	}

	t := &tableFile{
		def:       def,
		f:         f,
		tupleSize: tupleSize,
		perPage:   perPage,
	}

	if err := t.load(); err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

// load reads the header page and derives the page and row counts.
func (t *tableFile) load() error {
	fi, err := t.f.Stat()
	if err != nil {
		return fmt.Errorf("filestore: stat table %q: %w", t.def.Name, err)
	}
	size := fi.Size()

	if size == 0 {
		header, err := writeHeader(t.def)
		if err != nil {
			return err
		}
		if _, err := t.f.WriteAt(header, 0); err != nil {
			return fmt.Errorf("filestore: write header of %q: %w", t.def.Name, err)
		}
		return nil
	}

	if size%PageSize != 0 {
		return fmt.Errorf("filestore: table %q: corrupt file (size %d not a multiple of page size)", t.def.Name, size)
	}

	header := make(pageBuf, PageSize)
	if _, err := t.f.ReadAt(header, 0); err != nil {
		return fmt.Errorf("filestore: read header of %q: %w", t.def.Name, err)
	}
	cols, err := readHeader(header)
	if err != nil {
		return fmt.Errorf("filestore: table %q: %w", t.def.Name, err)
	}
	if err := checkHeader(t.def, cols); err != nil {
		return err
	}

	t.numPages = uint32(size/PageSize) - 1
	if t.numPages == 0 {
		return nil
	}

	last, err := t.readPage(t.numPages - 1)
	if err != nil {
		return err
	}
	t.rowCount = int(t.numPages-1)*t.perPage + last.tupleCount()
	return nil
}

// Flush fsyncs every table file.
func (e *FileEngine) Flush() error {
	if e.closed.Load() {
		return errClosed
	}
	var errs []error
	for name, t := range e.tables {
		t.mu.Lock()
		err := t.f.Sync()
		t.mu.Unlock()
		if err != nil {
			errs = append(errs, fmt.Errorf("filestore: sync %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close flushes and closes every table file.
func (e *FileEngine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	err := e.closeFiles()
	e.cache.Purge()
	return err
}

func (e *FileEngine) closeFiles() error {
	var errs []error
	for name, t := range e.tables {
		t.mu.Lock()
		if err := t.f.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("filestore: sync %q: %w", name, err))
		}
		if err := t.f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("filestore: close %q: %w", name, err))
		}
		t.mu.Unlock()
	}
	return errors.Join(errs...)
}

var errClosed = errors.New("filestore: engine is closed")

func (e *FileEngine) table(name string) (*tableFile, error) {
	if e.closed.Load() {
		return nil, errClosed
	}
	t, ok := e.tables[name]
	if !ok {
		return nil, sql.Errorf(sql.KindUnknownTable, "table %q does not exist", name)
	}
	return t, nil
}

// fetchPage returns data page id of t, from the cache when possible.
// Callers hold t.mu.
func (e *FileEngine) fetchPage(t *tableFile, id uint32) (pageBuf, error) {
	key := pageKey{table: t.def.Name, id: id}
	if p, ok := e.cache.Get(key); ok {
		return p, nil
	}
	p, err := t.readPage(id)
	if err != nil {
		return nil, err
	}
	e.cache.Add(key, p)
	return p, nil
}

func (t *tableFile) readPage(id uint32) (pageBuf, error) {
	p := make(pageBuf, PageSize)
	if _, err := t.f.ReadAt(p, int64(id+1)*PageSize); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("filestore: table %q: page %d beyond end of file", t.def.Name, id)
		}
		return nil, fmt.Errorf("filestore: read page %d of %q: %w", id, t.def.Name, err)
	}
	if err := p.validate(id, t.perPage); err != nil {
		return nil, fmt.Errorf("filestore: table %q: %w", t.def.Name, err)
	}
	return p, nil
}

func (t *tableFile) writePage(p pageBuf) error {
	id := p.pageID()
	if _, err := t.f.WriteAt(p, int64(id+1)*PageSize); err != nil {
		return fmt.Errorf("filestore: write page %d of %q: %w", id, t.def.Name, err)
	}
	return nil
}
