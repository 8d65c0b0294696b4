// Package hbase holds the HBase Thrift2 gateway structs and a THBaseService client.
// Field ids and types follow hbase-thrift's hbase.thrift IDL; only the calls this module issues
// are covered.
package hbase

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// fieldReader handles one field of a struct being read. It returns false for fields it does not
// know so they get skipped.
type fieldReader func(ctx context.Context, p thrift.TProtocol, id int16, typ thrift.TType) (bool, error)

func readStruct(ctx context.Context, p thrift.TProtocol, name string, read fieldReader) error {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s read error: ", name), err)
	}
	for {
		_, typ, id, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%s field %d read error: ", name, id), err)
		}
		if typ == thrift.STOP {
			break
		}
		ok, err := read(ctx, p, id, typ)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%s field %d read error: ", name, id), err)
		}
		if !ok {
			if err := p.Skip(ctx, typ); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := p.ReadStructEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s read struct end error: ", name), err)
	}
	return nil
}

// writeStruct writes the struct envelope; fields is called between begin and the stop marker.
func writeStruct(ctx context.Context, p thrift.TProtocol, name string, fields func() error) error {
	if err := p.WriteStructBegin(ctx, name); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s write struct begin error: ", name), err)
	}
	if err := fields(); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return thrift.PrependError("write field stop error: ", err)
	}
	if err := p.WriteStructEnd(ctx); err != nil {
		return thrift.PrependError("write struct stop error: ", err)
	}
	return nil
}

func writeField(ctx context.Context, p thrift.TProtocol, name string, typ thrift.TType, id int16, value func() error) error {
	if err := p.WriteFieldBegin(ctx, name, typ, id); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field begin error %d:%s: ", id, name), err)
	}
	if err := value(); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T.%s (%d) field write error: ", p, name, id), err)
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field end error %d:%s: ", id, name), err)
	}
	return nil
}

func writeBinary(ctx context.Context, p thrift.TProtocol, name string, id int16, b []byte) error {
	return writeField(ctx, p, name, thrift.STRING, id, func() error { return p.WriteBinary(ctx, b) })
}

func writeOptBinary(ctx context.Context, p thrift.TProtocol, name string, id int16, b []byte) error {
	if b == nil {
		return nil
	}
	return writeBinary(ctx, p, name, id, b)
}

func writeOptI64(ctx context.Context, p thrift.TProtocol, name string, id int16, v *int64) error {
	if v == nil {
		return nil
	}
	return writeField(ctx, p, name, thrift.I64, id, func() error { return p.WriteI64(ctx, *v) })
}

func writeOptI32(ctx context.Context, p thrift.TProtocol, name string, id int16, v *int32) error {
	if v == nil {
		return nil
	}
	return writeField(ctx, p, name, thrift.I32, id, func() error { return p.WriteI32(ctx, *v) })
}

func writeOptString(ctx context.Context, p thrift.TProtocol, name string, id int16, v *string) error {
	if v == nil {
		return nil
	}
	return writeField(ctx, p, name, thrift.STRING, id, func() error { return p.WriteString(ctx, *v) })
}

func writeOptBool(ctx context.Context, p thrift.TProtocol, name string, id int16, v *bool) error {
	if v == nil {
		return nil
	}
	return writeField(ctx, p, name, thrift.BOOL, id, func() error { return p.WriteBool(ctx, *v) })
}

func writeOptStruct(ctx context.Context, p thrift.TProtocol, name string, id int16, s thrift.TStruct, set bool) error {
	if !set {
		return nil
	}
	return writeField(ctx, p, name, thrift.STRUCT, id, func() error { return s.Write(ctx, p) })
}

func writeStructList[T thrift.TStruct](ctx context.Context, p thrift.TProtocol, name string, id int16, items []T) error {
	return writeField(ctx, p, name, thrift.LIST, id, func() error {
		if err := p.WriteListBegin(ctx, thrift.STRUCT, len(items)); err != nil {
			return thrift.PrependError("error writing list begin: ", err)
		}
		for _, item := range items {
			if err := item.Write(ctx, p); err != nil {
				return err
			}
		}
		if err := p.WriteListEnd(ctx); err != nil {
			return thrift.PrependError("error writing list end: ", err)
		}
		return nil
	})
}

func readStructList[T any, PT interface {
	*T
	thrift.TStruct
}](ctx context.Context, p thrift.TProtocol) ([]*T, error) {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, thrift.PrependError("error reading list begin: ", err)
	}
	items := make([]*T, 0, size)
	for i := 0; i < size; i++ {
		item := PT(new(T))
		if err := item.Read(ctx, p); err != nil {
			return nil, err
		}
		items = append(items, (*T)(item))
	}
	if err := p.ReadListEnd(ctx); err != nil {
		return nil, thrift.PrependError("error reading list end: ", err)
	}
	return items, nil
}

func readI64Ptr(ctx context.Context, p thrift.TProtocol) (*int64, error) {
	v, err := p.ReadI64(ctx)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readI32Ptr(ctx context.Context, p thrift.TProtocol) (*int32, error) {
	v, err := p.ReadI32(ctx)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
