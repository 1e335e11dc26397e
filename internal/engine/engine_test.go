package engine

import (
	"errors"
	"strings"
	"testing"

	"tinyDB/internal/schema"
	"tinyDB/internal/sql"
	"tinyDB/internal/storage/filestore"
	"tinyDB/internal/storage/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaDoc = `{
	"users": [
		{"name": "id", "type": "i32"},
		{"name": "name", "type": "text"}
	],
	"events": [
		{"name": "seq", "type": "i32"}
	]
}`

// backends runs fn once per storage engine.
func backends(t *testing.T, fn func(t *testing.T, eng *DBEngine)) {
	s, err := schema.Parse(strings.NewReader(testSchemaDoc))
	require.NoError(t, err)

	t.Run("memstore", func(t *testing.T) {
		fn(t, New(s, memstore.New(s)))
	})
	t.Run("filestore", func(t *testing.T) {
		fs, err := filestore.New(t.TempDir(), s, filestore.Options{})
		require.NoError(t, err)
		eng := New(s, fs)
		t.Cleanup(func() { _ = eng.Close() })
		fn(t, eng)
	})
}

func mustExec(t *testing.T, eng *DBEngine, q string) *Result {
	t.Helper()
	res, err := eng.Execute(q)
	require.NoError(t, err, q)
	return res
}

func rowCount(t *testing.T, eng *DBEngine, table string) int {
	t.Helper()
	_, rows, err := eng.SelectAll(table)
	require.NoError(t, err)
	return len(rows)
}

// TestEngineExecute_RoundTrip checks that a select returns exactly what was
// inserted.
func TestEngineExecute_RoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, eng *DBEngine) {
		ins := mustExec(t, eng, "insert into users ( name='Mike' id=1 );")
		assert.Equal(t, KindInsert, ins.Kind)
		assert.Equal(t, 1, ins.RowsAffected)

		res := mustExec(t, eng, "select * from users;")
		assert.Equal(t, KindSelect, res.Kind)
		assert.Equal(t, []string{"id", "name"}, res.Columns)
		assert.Equal(t, []sql.Row{{sql.Int32(1), sql.Text("Mike")}}, res.Rows)
		assert.Equal(t, [][]string{{"1", "'Mike'"}}, res.Rendered())
	})
}

func TestEngineExecute_InsertionOrder(t *testing.T) {
	backends(t, func(t *testing.T, eng *DBEngine) {
		mustExec(t, eng, "insert into users ( id=3 name='R1' );")
		mustExec(t, eng, "insert into users ( id=1 name='R2' );")
		mustExec(t, eng, "insert into users ( id=2 name='R3' );")
		// duplicates are accepted: no uniqueness constraint exists
		mustExec(t, eng, "insert into users ( id=2 name='R3' );")

		res := mustExec(t, eng, "select * from users;")
		assert.Equal(t, [][]string{
			{"3", "'R1'"},
			{"1", "'R2'"},
			{"2", "'R3'"},
			{"2", "'R3'"},
		}, res.Rendered())
	})
}

func TestEngineExecute_Errors(t *testing.T) {
	long := strings.Repeat("x", 256)
	cases := []struct {
		query string
		want  error
	}{
		{"select id from users;", sql.ErrParse},
		{"insert into users (name='Mike' id=1);", sql.ErrParse},
		{"select * from users", sql.ErrParse},
		{"insert into users ( id=1 name='Mike' )", sql.ErrParse},
		{"insert into users ( id=1 name='Mike );", sql.ErrLex},
		{"select * from nosuchtable;", sql.ErrUnknownTable},
		{"insert into users ( id=1 name='Mike' email='x' );", sql.ErrUnknownColumn},
		{"insert into users ( id=1 id=2 name='Mike' );", sql.ErrDuplicateColumn},
		{"insert into users ( id=1 );", sql.ErrMissingColumn},
		{"insert into users ( id='1' name='Mike' );", sql.ErrTypeMismatch},
		{"insert into users ( id=1 name=1 );", sql.ErrTypeMismatch},
		{"insert into users ( id=4294967296 name='Mike' );", sql.ErrIntegerOverflow},
		{"insert into users ( id=1 name='" + long + "' );", sql.ErrTextTooLong},
	}

	backends(t, func(t *testing.T, eng *DBEngine) {
		for _, tc := range cases {
			_, err := eng.Execute(tc.query)
			require.Error(t, err, tc.query)
			assert.True(t, errors.Is(err, tc.want), "%q: got %v", tc.query, err)
		}
		assert.Equal(t, 0, rowCount(t, eng, "users"), "failed statements must not store rows")
	})
}

func TestEngineExecute_TextBoundary(t *testing.T) {
	backends(t, func(t *testing.T, eng *DBEngine) {
		exact := strings.Repeat("y", 255)
		mustExec(t, eng, "insert into users ( id=1 name='"+exact+"' );")

		res := mustExec(t, eng, "select * from users;")
		require.Len(t, res.Rows, 1)
		assert.Equal(t, exact, res.Rows[0][1].S)
	})
}

func TestEngine_InsertRowAndSelectAll(t *testing.T) {
	backends(t, func(t *testing.T, eng *DBEngine) {
		require.NoError(t, eng.InsertRow("events", sql.Row{sql.Int32(7)}))

		err := eng.InsertRow("events", sql.Row{sql.Text("7")})
		assert.True(t, errors.Is(err, sql.ErrTypeMismatch), "got %v", err)

		err = eng.InsertRow("nosuchtable", sql.Row{sql.Int32(7)})
		assert.True(t, errors.Is(err, sql.ErrUnknownTable), "got %v", err)

		cols, rows, err := eng.SelectAll("events")
		require.NoError(t, err)
		assert.Equal(t, []string{"seq"}, cols)
		assert.Equal(t, []sql.Row{{sql.Int32(7)}}, rows)

		_, _, err = eng.SelectAll("nosuchtable")
		assert.True(t, errors.Is(err, sql.ErrUnknownTable), "got %v", err)

		require.NoError(t, eng.Flush())
	})
}

func TestEngine_ExecuteStmtChecksNames(t *testing.T) {
	backends(t, func(t *testing.T, eng *DBEngine) {
		// sql.Parse checks grammar only; the engine still resolves names.
		stmt, err := sql.Parse("insert into ghosts ( id=1 );")
		require.NoError(t, err)
		_, err = eng.ExecuteStmt(stmt)
		assert.True(t, errors.Is(err, sql.ErrUnknownTable), "got %v", err)

		stmt, err = sql.Parse("insert into events ( seq=1 other=2 );")
		require.NoError(t, err)
		_, err = eng.ExecuteStmt(stmt)
		assert.True(t, errors.Is(err, sql.ErrUnknownColumn), "got %v", err)
	})
}

func TestEngine_TablesAreIndependent(t *testing.T) {
	backends(t, func(t *testing.T, eng *DBEngine) {
		mustExec(t, eng, "insert into events ( seq=1 );")
		assert.Equal(t, 1, rowCount(t, eng, "events"))
		assert.Equal(t, 0, rowCount(t, eng, "users"))
	})
}
