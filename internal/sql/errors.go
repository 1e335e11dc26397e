package sql

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a statement failure. Every kind is reported to the
// client by name.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindLex
	KindParse
	KindUnknownTable
	KindUnknownColumn
	KindDuplicateColumn
	KindMissingColumn
	KindTypeMismatch
	KindIntegerOverflow
	KindTextTooLong
)

var kindNames = [...]string{
	KindInternal:        "InternalError",
	KindLex:             "LexError",
	KindParse:           "ParseError",
	KindUnknownTable:    "UnknownTable",
	KindUnknownColumn:   "UnknownColumn",
	KindDuplicateColumn: "DuplicateColumn",
	KindMissingColumn:   "MissingColumn",
	KindTypeMismatch:    "TypeMismatch",
	KindIntegerOverflow: "IntegerOverflow",
	KindTextTooLong:     "TextTooLong",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return kindNames[k]
}

// Error is a statement-level failure.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Msg == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrLex             = &Error{Kind: KindLex}
	ErrParse           = &Error{Kind: KindParse}
	ErrUnknownTable    = &Error{Kind: KindUnknownTable}
	ErrUnknownColumn   = &Error{Kind: KindUnknownColumn}
	ErrDuplicateColumn = &Error{Kind: KindDuplicateColumn}
	ErrMissingColumn   = &Error{Kind: KindMissingColumn}
	ErrTypeMismatch    = &Error{Kind: KindTypeMismatch}
	ErrIntegerOverflow = &Error{Kind: KindIntegerOverflow}
	ErrTextTooLong     = &Error{Kind: KindTextTooLong}
)

// Errorf builds an *Error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
