package sql

// Statement is the common interface for all statements.
type Statement interface {
	stmtNode()
	Table() string
}

// SelectStmt represents "select * from <table>;". It always means every
// column of every row.
type SelectStmt struct {
	TableName string
}

func (*SelectStmt) stmtNode() {}
func (s *SelectStmt) Table() string { return s.TableName }

// LiteralKind tells an integer literal from a quoted text literal.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota + 1
	LiteralText
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralInt:
		return "integer"
	case LiteralText:
		return "text"
	default:
		return "unknown"
	}
}

// Literal is a value as written in a statement. Raw holds the digits of an
// integer literal or the unquoted content of a text literal.
type Literal struct {
	Kind LiteralKind
	Raw  string
}

// Assignment is one "column=literal" pair of an insert.
type Assignment struct {
	Column string
	Value  Literal
}

// InsertStmt represents "insert into <table> ( col=val ... );". Column names
// are unique; their order carries no meaning.
type InsertStmt struct {
	TableName   string
	Assignments []Assignment
}

func (*InsertStmt) stmtNode() {}
func (s *InsertStmt) Table() string { return s.TableName }

// Lookup returns the literal assigned to column.
func (s *InsertStmt) Lookup(column string) (Literal, bool) {
	for _, a := range s.Assignments {
		if a.Column == column {
			return a.Value, true
		}
	}
	return Literal{}, false
}
