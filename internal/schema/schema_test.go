package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlekSi/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersDoc = `{
	"users": [
		{"name": "id", "type": "i32"},
		{"name": "name", "type": "text"}
	],
	"accounts": [
		{"name": "owner", "type": "text"},
		{"name": "balance", "type": "int"}
	]
}`

func TestParse_Basic(t *testing.T) {
	s, err := Parse(strings.NewReader(usersDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"accounts", "users"}, s.TableNames())

	users, ok := s.Table("users")
	require.True(t, ok)
	assert.Equal(t, []Column{
		{Name: "id", Type: TypeInt32},
		{Name: "name", Type: TypeText},
	}, users.Columns)
	assert.Equal(t, []string{"id", "name"}, users.ColumnNames())

	idx, ok := users.ColumnIndex("name")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = users.ColumnIndex("email")
	assert.False(t, ok)

	accounts, ok := s.Table("accounts")
	require.True(t, ok)
	assert.Equal(t, TypeInt32, accounts.Columns[1].Type)

	_, ok = s.Table("nosuchtable")
	assert.False(t, ok)
}

func TestParse_Rejects(t *testing.T) {
	cases := []struct {
		name       string
		doc        string
		errMessage *string
	}{
		{name: "empty document", doc: `{}`, errMessage: pointer.To("no tables defined")},
		{name: "unknown type", doc: `{"t": [{"name": "a", "type": "float"}]}`, errMessage: pointer.To(`unknown column type "float"`)},
		{name: "duplicate column", doc: `{"t": [{"name": "a", "type": "i32"}, {"name": "a", "type": "text"}]}`, errMessage: pointer.To(`duplicate column "a"`)},
		{name: "no columns", doc: `{"t": []}`, errMessage: pointer.To(`table "t" has no columns`)},
		{name: "unnamed column", doc: `{"t": [{"name": "", "type": "i32"}]}`},
		{name: "unknown field", doc: `{"t": [{"name": "a", "type": "i32", "size": 4}]}`},
		{name: "not json", doc: `users: [id]`},
		{name: "column with space", doc: `{"t": [{"name": "first name", "type": "text"}]}`, errMessage: pointer.To("letters, digits and '_'")},
		{name: "column with dash", doc: `{"t": [{"name": "user-id", "type": "i32"}]}`, errMessage: pointer.To("letters, digits and '_'")},
		{name: "column starting with digit", doc: `{"t": [{"name": "1col", "type": "i32"}]}`, errMessage: pointer.To("not starting with a digit")},
		{name: "keyword column", doc: `{"t": [{"name": "into", "type": "i32"}]}`, errMessage: pointer.To(`"into" is a reserved word`)},
		{name: "keyword table", doc: `{"Select": [{"name": "a", "type": "i32"}]}`, errMessage: pointer.To(`"Select" is a reserved word`)},
		{name: "table with dot", doc: `{"my.table": [{"name": "a", "type": "i32"}]}`, errMessage: pointer.To(`table "my.table"`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.doc))
			require.Error(t, err)
			if tc.errMessage != nil {
				assert.Contains(t, err.Error(), *tc.errMessage)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(usersDoc), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, s.TableNames(), 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNewTable_AcceptsIdentifiers(t *testing.T) {
	tbl, err := NewTable("_users2", []Column{
		{Name: "id", Type: TypeInt32},
		{Name: "first_name", Type: TypeText},
		{Name: "Selected", Type: TypeText},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "first_name", "Selected"}, tbl.ColumnNames())
}

func TestNew_DuplicateTable(t *testing.T) {
	a, err := NewTable("t", []Column{{Name: "id", Type: TypeInt32}})
	require.NoError(t, err)
	b, err := NewTable("t", []Column{{Name: "id", Type: TypeText}})
	require.NoError(t, err)

	_, err = New(a, b)
	assert.Error(t, err)
}
