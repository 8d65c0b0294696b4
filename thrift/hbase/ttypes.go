package hbase

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// TColumn addresses a family, optionally narrowed to one qualifier and timestamp.
type TColumn struct {
	Family    []byte
	Qualifier []byte
	Timestamp *int64
}

func (c *TColumn) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "TColumn", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			c.Family, err = p.ReadBinary(ctx)
		case id == 2 && typ == thrift.STRING:
			c.Qualifier, err = p.ReadBinary(ctx)
		case id == 3 && typ == thrift.I64:
			c.Timestamp, err = readI64Ptr(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (c *TColumn) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "TColumn", func() error {
		if err := writeBinary(ctx, p, "family", 1, c.Family); err != nil {
			return err
		}
		if err := writeOptBinary(ctx, p, "qualifier", 2, c.Qualifier); err != nil {
			return err
		}
		return writeOptI64(ctx, p, "timestamp", 3, c.Timestamp)
	})
}

// TColumnValue is one cell.
type TColumnValue struct {
	Family    []byte
	Qualifier []byte
	Value     []byte
	Timestamp *int64
}

func (c *TColumnValue) GetTimestamp() int64 {
	if c.Timestamp == nil {
		return 0
	}
	return *c.Timestamp
}

func (c *TColumnValue) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "TColumnValue", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			c.Family, err = p.ReadBinary(ctx)
		case id == 2 && typ == thrift.STRING:
			c.Qualifier, err = p.ReadBinary(ctx)
		case id == 3 && typ == thrift.STRING:
			c.Value, err = p.ReadBinary(ctx)
		case id == 4 && typ == thrift.I64:
			c.Timestamp, err = readI64Ptr(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (c *TColumnValue) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "TColumnValue", func() error {
		if err := writeBinary(ctx, p, "family", 1, c.Family); err != nil {
			return err
		}
		if err := writeBinary(ctx, p, "qualifier", 2, c.Qualifier); err != nil {
			return err
		}
		if err := writeBinary(ctx, p, "value", 3, c.Value); err != nil {
			return err
		}
		return writeOptI64(ctx, p, "timestamp", 4, c.Timestamp)
	})
}

// TResult is the content of one row. An absent row comes back with no Row and no cells.
type TResult struct {
	Row          []byte
	ColumnValues []*TColumnValue
}

func (r *TResult) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "TResult", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			r.Row, err = p.ReadBinary(ctx)
		case id == 2 && typ == thrift.LIST:
			r.ColumnValues, err = readStructList[TColumnValue](ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (r *TResult) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "TResult", func() error {
		if err := writeOptBinary(ctx, p, "row", 1, r.Row); err != nil {
			return err
		}
		return writeStructList(ctx, p, "columnValues", 2, r.ColumnValues)
	})
}

// TGet is a single row read.
type TGet struct {
	Row          []byte
	Columns      []*TColumn
	MaxVersions  *int32
	FilterString []byte
}

func (g *TGet) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "TGet", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			g.Row, err = p.ReadBinary(ctx)
		case id == 2 && typ == thrift.LIST:
			g.Columns, err = readStructList[TColumn](ctx, p)
		case id == 5 && typ == thrift.I32:
			g.MaxVersions, err = readI32Ptr(ctx, p)
		case id == 6 && typ == thrift.STRING:
			g.FilterString, err = p.ReadBinary(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (g *TGet) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "TGet", func() error {
		if err := writeBinary(ctx, p, "row", 1, g.Row); err != nil {
			return err
		}
		if g.Columns != nil {
			if err := writeStructList(ctx, p, "columns", 2, g.Columns); err != nil {
				return err
			}
		}
		if err := writeOptI32(ctx, p, "maxVersions", 5, g.MaxVersions); err != nil {
			return err
		}
		return writeOptBinary(ctx, p, "filterString", 6, g.FilterString)
	})
}

// TPut writes cells of one row.
type TPut struct {
	Row          []byte
	ColumnValues []*TColumnValue
	Timestamp    *int64
}

func (t *TPut) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "TPut", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			t.Row, err = p.ReadBinary(ctx)
		case id == 2 && typ == thrift.LIST:
			t.ColumnValues, err = readStructList[TColumnValue](ctx, p)
		case id == 3 && typ == thrift.I64:
			t.Timestamp, err = readI64Ptr(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (t *TPut) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "TPut", func() error {
		if err := writeBinary(ctx, p, "row", 1, t.Row); err != nil {
			return err
		}
		if err := writeStructList(ctx, p, "columnValues", 2, t.ColumnValues); err != nil {
			return err
		}
		return writeOptI64(ctx, p, "timestamp", 3, t.Timestamp)
	})
}

// TDelete removes a row, or only the listed columns of it.
type TDelete struct {
	Row     []byte
	Columns []*TColumn
}

func (d *TDelete) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "TDelete", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			d.Row, err = p.ReadBinary(ctx)
		case id == 2 && typ == thrift.LIST:
			d.Columns, err = readStructList[TColumn](ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (d *TDelete) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "TDelete", func() error {
		if err := writeBinary(ctx, p, "row", 1, d.Row); err != nil {
			return err
		}
		if d.Columns == nil {
			return nil
		}
		return writeStructList(ctx, p, "columns", 2, d.Columns)
	})
}

// TScan is a range read, stop row exclusive.
type TScan struct {
	StartRow     []byte
	StopRow      []byte
	Columns      []*TColumn
	Caching      *int32
	MaxVersions  *int32
	FilterString []byte
}

func (s *TScan) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "TScan", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			s.StartRow, err = p.ReadBinary(ctx)
		case id == 2 && typ == thrift.STRING:
			s.StopRow, err = p.ReadBinary(ctx)
		case id == 3 && typ == thrift.LIST:
			s.Columns, err = readStructList[TColumn](ctx, p)
		case id == 4 && typ == thrift.I32:
			s.Caching, err = readI32Ptr(ctx, p)
		case id == 5 && typ == thrift.I32:
			s.MaxVersions, err = readI32Ptr(ctx, p)
		case id == 7 && typ == thrift.STRING:
			s.FilterString, err = p.ReadBinary(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (s *TScan) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "TScan", func() error {
		if err := writeOptBinary(ctx, p, "startRow", 1, s.StartRow); err != nil {
			return err
		}
		if err := writeOptBinary(ctx, p, "stopRow", 2, s.StopRow); err != nil {
			return err
		}
		if s.Columns != nil {
			if err := writeStructList(ctx, p, "columns", 3, s.Columns); err != nil {
				return err
			}
		}
		if err := writeOptI32(ctx, p, "caching", 4, s.Caching); err != nil {
			return err
		}
		if err := writeOptI32(ctx, p, "maxVersions", 5, s.MaxVersions); err != nil {
			return err
		}
		return writeOptBinary(ctx, p, "filterString", 7, s.FilterString)
	})
}

// TTableName is a namespace qualified table name. A nil Ns means the default namespace.
type TTableName struct {
	Ns        []byte
	Qualifier []byte
}

func (t *TTableName) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "TTableName", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			t.Ns, err = p.ReadBinary(ctx)
		case id == 2 && typ == thrift.STRING:
			t.Qualifier, err = p.ReadBinary(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (t *TTableName) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "TTableName", func() error {
		if err := writeOptBinary(ctx, p, "ns", 1, t.Ns); err != nil {
			return err
		}
		return writeBinary(ctx, p, "qualifier", 2, t.Qualifier)
	})
}

// TIOError is raised by the gateway for any failure talking to the cluster.
type TIOError struct {
	Message  *string
	CanRetry *bool
}

func (e *TIOError) GetMessage() string {
	if e.Message == nil {
		return ""
	}
	return *e.Message
}

func (e *TIOError) Error() string {
	return fmt.Sprintf("TIOError(%s)", e.GetMessage())
}

func (e *TIOError) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "TIOError", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			v, err := p.ReadString(ctx)
			e.Message = &v
			return true, err
		case id == 2 && typ == thrift.BOOL:
			v, err := p.ReadBool(ctx)
			e.CanRetry = &v
			return true, err
		}
		return false, nil
	})
}

func (e *TIOError) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "TIOError", func() error {
		if err := writeOptString(ctx, p, "message", 1, e.Message); err != nil {
			return err
		}
		return writeOptBool(ctx, p, "canRetry", 2, e.CanRetry)
	})
}

// TIllegalArgument is raised for malformed requests, e.g. a bad filter string.
type TIllegalArgument struct {
	Message *string
}

func (e *TIllegalArgument) Error() string {
	msg := ""
	if e.Message != nil {
		msg = *e.Message
	}
	return fmt.Sprintf("TIllegalArgument(%s)", msg)
}

func (e *TIllegalArgument) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "TIllegalArgument", func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error) {
		if id == 1 && typ == thrift.STRING {
			v, err := p.ReadString(ctx)
			e.Message = &v
			return true, err
		}
		return false, nil
	})
}

func (e *TIllegalArgument) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "TIllegalArgument", func() error {
		return writeOptString(ctx, p, "message", 1, e.Message)
	})
}
