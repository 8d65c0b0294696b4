package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
)

// Codec turns typed column values into HBase cell bytes and back.
type Codec interface {
	EncodeInt(int64) []byte
	DecodeInt([]byte) (int64, error)
	EncodeFloat(float64) []byte
	DecodeFloat([]byte) (float64, error)
	EncodeBool(bool) []byte
	DecodeBool([]byte) (bool, error)
	EncodeString(string) []byte
	DecodeString([]byte) (string, error)
	EncodeUint(uint64) []byte
	DecodeUint([]byte) (uint64, error)
}

// ErrUnsupportedType is returned by Encode and Decode for values of a kind no codec method covers.
var ErrUnsupportedType = errors.New("unsupported column value type")

// DefaultCodec stores numbers as fixed width big endian, the layout of HBase's Bytes.toBytes.
type DefaultCodec struct{}

func (*DefaultCodec) EncodeInt(n int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(n))
	return b
}

func (*DefaultCodec) DecodeInt(b []byte) (int64, error) {
	var x int64
	err := binary.Read(bytes.NewReader(b), binary.BigEndian, &x)
	return x, err
}

func (*DefaultCodec) EncodeFloat(n float64) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 8))
	_ = binary.Write(buf, binary.BigEndian, n)
	return buf.Bytes()
}

func (*DefaultCodec) DecodeFloat(b []byte) (float64, error) {
	var x float64
	err := binary.Read(bytes.NewReader(b), binary.BigEndian, &x)
	return x, err
}

func (*DefaultCodec) EncodeBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func (*DefaultCodec) DecodeBool(b []byte) (bool, error) {
	if len(b) != 1 {
		return false, errors.New("failed to parse bytes to bool, invalid bool encoding")
	}
	return b[0] != 0, nil
}

func (*DefaultCodec) EncodeString(s string) []byte {
	return []byte(s)
}

func (*DefaultCodec) DecodeString(b []byte) (string, error) {
	return string(b), nil
}

func (*DefaultCodec) EncodeUint(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func (*DefaultCodec) DecodeUint(b []byte) (uint64, error) {
	var n uint64
	err := binary.Read(bytes.NewReader(b), binary.BigEndian, &n)
	return n, err
}

// Encode picks the codec method matching the kind of v. []byte values are stored as is.
func Encode(c Codec, v interface{}) ([]byte, error) {
	if b, ok := v.([]byte); ok {
		return b, nil
	}
	if v == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return c.EncodeInt(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return c.EncodeUint(val.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return c.EncodeFloat(val.Float()), nil
	case reflect.String:
		return c.EncodeString(val.String()), nil
	case reflect.Bool:
		return c.EncodeBool(val.Bool()), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// Decode stores b into the value out points to.
func Decode(c Codec, b []byte, out interface{}) error {
	if p, ok := out.(*[]byte); ok {
		*p = append((*p)[:0], b...)
		return nil
	}
	ptr := reflect.ValueOf(out)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", out)
	}
	field := ptr.Elem()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := c.DecodeInt(b)
		if err != nil {
			return fmt.Errorf("failed to parse int column: %w", err)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := c.DecodeUint(b)
		if err != nil {
			return fmt.Errorf("failed to parse uint column: %w", err)
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := c.DecodeFloat(b)
		if err != nil {
			return fmt.Errorf("failed to parse float column: %w", err)
		}
		field.SetFloat(n)
	case reflect.String:
		s, err := c.DecodeString(b)
		if err != nil {
			return fmt.Errorf("failed to parse string column: %w", err)
		}
		field.SetString(s)
	case reflect.Bool:
		v, err := c.DecodeBool(b)
		if err != nil {
			return fmt.Errorf("failed to parse bool column: %w", err)
		}
		field.SetBool(v)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, out)
	}
	return nil
}
