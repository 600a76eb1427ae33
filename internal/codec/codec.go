package codec

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// ErrTypeMismatch is matched by every TypeMismatchError.
var ErrTypeMismatch = errors.New("codec: type mismatch")

// TypeMismatchError reports a buffer that cannot be read as Type.
type TypeMismatchError struct {
	Type   reflect.Type
	Reason string
	Err    error
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("cannot decode buffer as %s", e.Type)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrTypeMismatch) true.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

func (e *TypeMismatchError) Unwrap() error { return e.Err }

var nilBuffer = []byte{msgpcode.Nil}

// Nil returns a fresh copy of the reserved nil buffer.
func Nil() []byte {
	return []byte{msgpcode.Nil}
}

// IsNil reports whether data is the reserved nil buffer.
func IsNil(data []byte) bool {
	return bytes.Equal(data, nilBuffer)
}

// Encode serializes v. Map keys are sorted so equal values always produce
// equal buffers. A nil v encodes to the nil buffer.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("codec: encoding %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

// Decode reads data as a T.
func Decode[T any](data []byte) (T, error) {
	var zero T
	rv, err := DecodeValue(data, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	return as[T](rv), nil
}

// DecodeIfPresent is Decode for slots that may be absent. The nil buffer
// yields found == false and no error.
func DecodeIfPresent[T any](data []byte) (bool, T, error) {
	var zero T
	found, rv, err := DecodeValueIfPresent(data, reflect.TypeFor[T]())
	if err != nil || !found {
		return found, zero, err
	}
	return true, as[T](rv), nil
}

// as copies rv into a T. Unlike a type assertion it also works for a nil
// interface value.
func as[T any](rv reflect.Value) T {
	var out T
	reflect.ValueOf(&out).Elem().Set(rv)
	return out
}

// DecodeValueIfPresent is the reflective form of DecodeIfPresent.
func DecodeValueIfPresent(data []byte, t reflect.Type) (bool, reflect.Value, error) {
	if IsNil(data) {
		return false, reflect.Zero(t), nil
	}
	rv, err := DecodeValue(data, t)
	if err != nil {
		return true, reflect.Value{}, err
	}
	return true, rv, nil
}

// DecodeValue reads data as a value of type t. The nil buffer decodes to the
// zero value only when t can hold nil.
func DecodeValue(data []byte, t reflect.Type) (reflect.Value, error) {
	if len(data) == 0 {
		return reflect.Value{}, &TypeMismatchError{Type: t, Reason: "empty buffer"}
	}
	if IsNil(data) {
		if !Nillable(t) {
			return reflect.Value{}, &TypeMismatchError{Type: t, Reason: "nil value for non-nillable type"}
		}
		return reflect.Zero(t), nil
	}

	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	dec.DisallowUnknownFields(true)

	var (
		out reflect.Value
		err error
	)
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		out, err = decodeNumber(dec, t)
	default:
		ptr := reflect.New(t)
		if derr := dec.Decode(ptr.Interface()); derr != nil {
			err = &TypeMismatchError{Type: t, Err: derr}
			break
		}
		if composite(t) {
			err = checkNested(data, t)
		}
		out = ptr.Elem()
	}
	if err != nil {
		return reflect.Value{}, err
	}
	if r.Len() != 0 {
		return reflect.Value{}, &TypeMismatchError{Type: t, Reason: fmt.Sprintf("%d trailing bytes", r.Len())}
	}
	return out, nil
}

// decodeNumber reads a scalar number and refuses anything that would not fit
// t exactly.
func decodeNumber(dec *msgpack.Decoder, t reflect.Type) (reflect.Value, error) {
	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return reflect.Value{}, &TypeMismatchError{Type: t, Err: err}
	}
	out, err := numberValue(raw, t)
	if err != nil {
		return reflect.Value{}, &TypeMismatchError{Type: t, Reason: err.Error()}
	}
	return out, nil
}

// numberValue converts a loosely decoded number into a value of kind t.
func numberValue(raw any, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch v := raw.(type) {
		case int64:
			n = v
		case uint64:
			if v > math.MaxInt64 {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", v, t)
			}
			n = int64(v)
		default:
			return reflect.Value{}, fmt.Errorf("got %T, want %s", raw, t)
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, t)
		}
		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var n uint64
		switch v := raw.(type) {
		case uint64:
			n = v
		case int64:
			if v < 0 {
				return reflect.Value{}, fmt.Errorf("negative value %d for %s", v, t)
			}
			n = uint64(v)
		default:
			return reflect.Value{}, fmt.Errorf("got %T, want %s", raw, t)
		}
		if out.OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, t)
		}
		out.SetUint(n)

	case reflect.Float32, reflect.Float64:
		var f float64
		switch v := raw.(type) {
		case float64:
			f = v
		case int64:
			f = float64(v)
		case uint64:
			f = float64(v)
		default:
			return reflect.Value{}, fmt.Errorf("got %T, want %s", raw, t)
		}
		if !math.IsInf(f, 0) && out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%g overflows %s", f, t)
		}
		out.SetFloat(f)
	}
	return out, nil
}

// Nillable reports whether the zero value of t is nil.
func Nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
