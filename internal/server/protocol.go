package server

import (
	"strings"

	"tinyDB/internal/engine"
	"tinyDB/internal/sql"
)

// Wire protocol: the client sends one statement per line; the server answers
// every non-blank line with exactly one JSON object terminated by a newline.
//
//	-> select * from users;
//	<- {"ok":true,"kind":"select","columns":["id","name"],"rows":[["1","'Mike'"]],"total":1}
//	-> insert into users ( id=2 name='Ann' );
//	<- {"ok":true,"kind":"insert","message":"success","total":1}
//	-> select id from users;
//	<- {"ok":false,"error":{"kind":"ParseError","message":"..."},"total":0}

// MaxLineBytes bounds the length of one statement line.
const MaxLineBytes = 64 * 1024

// Response is one server reply.
type Response struct {
	OK      bool       `json:"ok"`
	Kind    string     `json:"kind,omitempty"`
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Total   int        `json:"total"`
}

// ErrorBody names a failure. Kind is one of the sql error kinds, such as
// "ParseError" or "UnknownTable".
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *ErrorBody) Error() string {
	return e.Kind + ": " + e.Message
}

func resultResponse(res *engine.Result) Response {
	switch res.Kind {
	case engine.KindSelect:
		return Response{
			OK:      true,
			Kind:    string(res.Kind),
			Columns: res.Columns,
			Rows:    res.Rendered(),
			Total:   len(res.Rows),
		}
	default:
		return Response{
			OK:      true,
			Kind:    string(res.Kind),
			Message: "success",
			Total:   res.RowsAffected,
		}
	}
}

func errorResponse(err error) Response {
	kind := sql.KindOf(err).String()
	return Response{
		OK: false,
		Error: &ErrorBody{
			Kind:    kind,
			Message: strings.TrimPrefix(err.Error(), kind+": "),
		},
	}
}
