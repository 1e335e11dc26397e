package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"tinyDB/internal/schema"
	"tinyDB/internal/sql"
	"tinyDB/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersSchema(t *testing.T, nameType schema.Type) *schema.Schema {
	t.Helper()
	users, err := schema.NewTable("users", []schema.Column{
		{Name: "id", Type: schema.TypeInt32},
		{Name: "name", Type: nameType},
	})
	require.NoError(t, err)
	s, err := schema.New(users)
	require.NoError(t, err)
	return s
}

func userRow(i int) sql.Row {
	return sql.Row{sql.Int32(int32(i)), sql.Text(fmt.Sprintf("user-%d", i))}
}

func TestFilestore_AppendScan(t *testing.T) {
	fs, err := New(t.TempDir(), usersSchema(t, schema.TypeText), Options{})
	require.NoError(t, err)
	defer fs.Close()

	require.NoError(t, fs.Append("users", sql.Row{sql.Int32(1), sql.Text("Alice")}))
	require.NoError(t, fs.Append("users", sql.Row{sql.Int32(2), sql.Text("Bob")}))

	snap, err := fs.Scan("users")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())

	rows, err := storage.Collect(snap)
	require.NoError(t, err)
	assert.Equal(t, []sql.Row{
		{sql.Int32(1), sql.Text("Alice")},
		{sql.Int32(2), sql.Text("Bob")},
	}, rows)
}

func TestFilestore_SpansPagesInOrder(t *testing.T) {
	fs, err := New(t.TempDir(), usersSchema(t, schema.TypeText), Options{CachePages: 2})
	require.NoError(t, err)
	defer fs.Close()

	// 15 rows per page, so this spans 4 pages with a tiny cache.
	const n = 50
	for i := 0; i < n; i++ {
		require.NoError(t, fs.Append("users", userRow(i)))
	}

	snap, err := fs.Scan("users")
	require.NoError(t, err)
	rows, err := storage.Collect(snap)
	require.NoError(t, err)
	require.Len(t, rows, n)
	for i, r := range rows {
		assert.Equal(t, userRow(i), r)
	}
}

func TestFilestore_ReopenKeepsRows(t *testing.T) {
	dir := t.TempDir()
	s := usersSchema(t, schema.TypeText)

	fs, err := New(dir, s, Options{})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		require.NoError(t, fs.Append("users", userRow(i)))
	}
	require.NoError(t, fs.Flush())
	require.NoError(t, fs.Close())

	info, err := os.Stat(filepath.Join(dir, "users.tdb"))
	require.NoError(t, err)
	assert.Equal(t, int64(3*PageSize), info.Size(), "header page + 2 data pages")

	fs2, err := New(dir, s, Options{})
	require.NoError(t, err)
	defer fs2.Close()

	require.NoError(t, fs2.Append("users", userRow(20)))

	snap, err := fs2.Scan("users")
	require.NoError(t, err)
	rows, err := storage.Collect(snap)
	require.NoError(t, err)
	require.Len(t, rows, 21)
	for i, r := range rows {
		assert.Equal(t, userRow(i), r)
	}
}

func TestFilestore_SchemaMismatchOnReopen(t *testing.T) {
	dir := t.TempDir()

	fs, err := New(dir, usersSchema(t, schema.TypeText), Options{})
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	_, err = New(dir, usersSchema(t, schema.TypeInt32), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users")
}

func TestFilestore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.tdb"), []byte("garbage"), 0o644))

	_, err := New(dir, usersSchema(t, schema.TypeText), Options{})
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.tdb"), make([]byte, PageSize), 0o644))
	_, err = New(dir, usersSchema(t, schema.TypeText), Options{})
	assert.Error(t, err, "zeroed header page has no magic")
}

func TestFilestore_RowTooWide(t *testing.T) {
	cols := make([]schema.Column, 16)
	for i := range cols {
		cols[i] = schema.Column{Name: fmt.Sprintf("c%d", i), Type: schema.TypeText}
	}
	wide, err := schema.NewTable("wide", cols)
	require.NoError(t, err)
	s, err := schema.New(wide)
	require.NoError(t, err)

	_, err = New(t.TempDir(), s, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not fit")
}

func TestFilestore_Rejects(t *testing.T) {
	fs, err := New(t.TempDir(), usersSchema(t, schema.TypeText), Options{})
	require.NoError(t, err)
	defer fs.Close()

	err = fs.Append("nosuchtable", userRow(1))
	assert.True(t, errors.Is(err, sql.ErrUnknownTable), "got %v", err)

	_, err = fs.Scan("nosuchtable")
	assert.True(t, errors.Is(err, sql.ErrUnknownTable), "got %v", err)

	err = fs.Append("users", sql.Row{sql.Int32(1), sql.Int32(2)})
	assert.True(t, errors.Is(err, sql.ErrTypeMismatch), "got %v", err)

	err = fs.Append("users", sql.Row{sql.Int32(1), sql.Text(strings.Repeat("x", 256))})
	assert.True(t, errors.Is(err, sql.ErrTextTooLong), "got %v", err)

	snap, err := fs.Scan("users")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
}

func TestFilestore_SnapshotIgnoresLaterAppends(t *testing.T) {
	fs, err := New(t.TempDir(), usersSchema(t, schema.TypeText), Options{})
	require.NoError(t, err)
	defer fs.Close()

	require.NoError(t, fs.Append("users", userRow(0)))
	snap, err := fs.Scan("users")
	require.NoError(t, err)
	require.NoError(t, fs.Append("users", userRow(1)))

	rows, err := storage.Collect(snap)
	require.NoError(t, err)
	assert.Equal(t, []sql.Row{userRow(0)}, rows)
}

func TestFilestore_ClosedEngine(t *testing.T) {
	fs, err := New(t.TempDir(), usersSchema(t, schema.TypeText), Options{})
	require.NoError(t, err)
	require.NoError(t, fs.Close())
	require.NoError(t, fs.Close(), "second Close is a no-op")

	assert.Error(t, fs.Append("users", userRow(1)))
	_, err = fs.Scan("users")
	assert.Error(t, err)
	assert.Error(t, fs.Flush())
}

func TestFilestore_ConcurrentAppendAndScan(t *testing.T) {
	fs, err := New(t.TempDir(), usersSchema(t, schema.TypeText), Options{CachePages: 4})
	require.NoError(t, err)
	defer fs.Close()

	const writers, perWriter = 4, 40
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				assert.NoError(t, fs.Append("users", userRow(w*perWriter+i)))
			}
		}(w)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			snap, err := fs.Scan("users")
			if !assert.NoError(t, err) {
				return
			}
			rows, err := storage.Collect(snap)
			assert.NoError(t, err)
			assert.Len(t, rows, snap.Len())
		}
	}()
	wg.Wait()

	snap, err := fs.Scan("users")
	require.NoError(t, err)
	assert.Equal(t, writers*perWriter, snap.Len())
}
