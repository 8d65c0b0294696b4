package hbaseutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/challenai/hbaseutils/client"
)

// Error kinds. Every error returned by DB and Table matches exactly one of them with errors.Is.
var (
	ErrConnection    = errors.New("hbase connection failed")
	ErrTableNotFound = errors.New("table not found")
	ErrRead          = errors.New("read failed")
	ErrWrite         = errors.New("write failed")
	ErrDelete        = errors.New("delete failed")
)

// ErrCellNotFound is returned by GetValue when the row has no such column.
var ErrCellNotFound = errors.New("cell not found")

var (
	errEmptyTableName = errors.New("table name is empty")
	errEmptyData      = errors.New("no columns to write")
)

// Error carries the kind of failure, where it happened and the driver error.
type Error struct {
	Kind  error
	Table string
	Row   string
	Err   error
}

// newError classifies err; a missing table reported by the driver wins over the operation kind.
func newError(kind error, table, row string, err error) *Error {
	if errors.Is(err, client.ErrTableNotFound) {
		kind = ErrTableNotFound
	}
	return &Error{Kind: kind, Table: table, Row: row, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Table != "" {
		fmt.Fprintf(&b, ": table %s", e.Table)
	}
	if e.Row != "" {
		fmt.Fprintf(&b, " row %s", e.Row)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
