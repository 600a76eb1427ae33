// Package invoke turns a Go function of any supported signature into an
// Invoker that takes positional wire slots and returns a wire result.
//
// The Invoker owns the signature captured at construction. Every call is
// checked against it before the function runs: arity first, then each slot
// is decoded into the parameter type at its position. The function is only
// called once every argument has been rebuilt.
package invoke

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/vk/fndispatch/internal/codec"
	"github.com/vk/fndispatch/internal/wire"
)

var (
	// ErrUnsupportedSignature is returned by New for values that cannot be
	// wrapped.
	ErrUnsupportedSignature = errors.New("invoke: unsupported function signature")
	// ErrArityMismatch is returned when the slot count differs from the
	// function's parameter count.
	ErrArityMismatch = errors.New("invoke: argument count mismatch")
	// ErrArgumentDecode is matched by every ArgumentDecodeError.
	ErrArgumentDecode = errors.New("invoke: argument decode failed")
	// ErrCallFailed is matched by every CallError.
	ErrCallFailed = errors.New("invoke: function failed")
	// ErrReferenceSlot is the cause reported for reference slots, which must
	// be resolved by the object store before they reach an Invoker.
	ErrReferenceSlot = errors.New("unresolved reference slot")
)

var errorType = reflect.TypeFor[error]()

// ArgumentDecodeError identifies the slot that could not be rebuilt.
type ArgumentDecodeError struct {
	Position int
	Type     reflect.Type
	Err      error
}

func (e *ArgumentDecodeError) Error() string {
	return fmt.Sprintf("argument %d (%s): %v", e.Position, e.Type, e.Err)
}

func (e *ArgumentDecodeError) Is(target error) bool { return target == ErrArgumentDecode }

func (e *ArgumentDecodeError) Unwrap() error { return e.Err }

// CallError wraps an error returned by, or a panic raised in, the wrapped
// function.
type CallError struct {
	Err      error
	Panicked bool
}

func (e *CallError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("function panicked: %v", e.Err)
	}
	return fmt.Sprintf("function returned error: %v", e.Err)
}

func (e *CallError) Is(target error) bool { return target == ErrCallFailed }

func (e *CallError) Unwrap() error { return e.Err }

// Signature describes the parameter and result types of a wrapped function.
type Signature struct {
	Params []reflect.Type
	// Variadic marks the last parameter as a ...T, carried as one []T slot.
	Variadic bool
	// Result is nil for functions that return no value.
	Result reflect.Type
	// ReturnsError is set when the last result is an error.
	ReturnsError bool
}

// Void reports whether the function returns no value.
func (s Signature) Void() bool { return s.Result == nil }

func (s Signature) String() string {
	str := "func("
	for i, p := range s.Params {
		if i > 0 {
			str += ", "
		}
		if s.Variadic && i == len(s.Params)-1 {
			str += "..." + p.Elem().String()
			continue
		}
		str += p.String()
	}
	str += ")"
	switch {
	case s.Result != nil && s.ReturnsError:
		str += fmt.Sprintf(" (%s, error)", s.Result)
	case s.Result != nil:
		str += " " + s.Result.String()
	case s.ReturnsError:
		str += " error"
	}
	return str
}

// SignatureOf inspects fn without wrapping it.
func SignatureOf(fn any) (Signature, error) {
	if fn == nil {
		return Signature{}, fmt.Errorf("%w: nil function", ErrUnsupportedSignature)
	}
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("%w: %T is not a function", ErrUnsupportedSignature, fn)
	}
	if fv.IsNil() {
		return Signature{}, fmt.Errorf("%w: nil %T", ErrUnsupportedSignature, fn)
	}

	ft := fv.Type()
	sig := Signature{Variadic: ft.IsVariadic()}
	for i := 0; i < ft.NumIn(); i++ {
		sig.Params = append(sig.Params, ft.In(i))
	}

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			sig.ReturnsError = true
		} else {
			sig.Result = ft.Out(0)
		}
	case 2:
		if ft.Out(1) != errorType {
			return Signature{}, fmt.Errorf("%w: second result of %s must be error", ErrUnsupportedSignature, ft)
		}
		sig.Result = ft.Out(0)
		sig.ReturnsError = true
	default:
		return Signature{}, fmt.Errorf("%w: %s has %d results", ErrUnsupportedSignature, ft, ft.NumOut())
	}
	return sig, nil
}

// Invoker is the type-erased form of one function.
type Invoker struct {
	fn  reflect.Value
	sig Signature
}

// New wraps fn.
func New(fn any) (*Invoker, error) {
	sig, err := SignatureOf(fn)
	if err != nil {
		return nil, err
	}
	return &Invoker{fn: reflect.ValueOf(fn), sig: sig}, nil
}

// Signature returns the signature captured by New.
func (inv *Invoker) Signature() Signature { return inv.sig }

// Invoke rebuilds the arguments from slots, calls the function and encodes
// its result. Void functions yield the nil buffer.
func (inv *Invoker) Invoke(slots []wire.Slot) (wire.Result, error) {
	args, err := inv.decodeArgs(slots)
	if err != nil {
		return nil, err
	}

	out, err := inv.call(args)
	if err != nil {
		return nil, err
	}

	if inv.sig.Void() {
		return codec.Nil(), nil
	}
	data, err := codec.Encode(out[0].Interface())
	if err != nil {
		return nil, fmt.Errorf("invoke: encoding result: %w", err)
	}
	return data, nil
}

func (inv *Invoker) decodeArgs(slots []wire.Slot) ([]reflect.Value, error) {
	if len(slots) != len(inv.sig.Params) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArityMismatch, inv.sig, len(inv.sig.Params), len(slots))
	}

	args := make([]reflect.Value, len(slots))
	for i, slot := range slots {
		t := inv.sig.Params[i]
		fail := func(err error) ([]reflect.Value, error) {
			return nil, &ArgumentDecodeError{Position: i, Type: t, Err: err}
		}

		if err := slot.Validate(); err != nil {
			return fail(err)
		}
		data, ok := slot.Bytes()
		if !ok {
			return fail(ErrReferenceSlot)
		}

		found, v, err := codec.DecodeValueIfPresent(data, t)
		if err != nil {
			return fail(err)
		}
		if !found && !codec.Nillable(t) {
			return fail(errors.New("argument absent"))
		}
		args[i] = v
	}
	return args, nil
}

func (inv *Invoker) call(args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				rerr = fmt.Errorf("%v", r)
			}
			out, err = nil, &CallError{Err: rerr, Panicked: true}
		}
	}()

	if inv.sig.Variadic {
		out = inv.fn.CallSlice(args)
	} else {
		out = inv.fn.Call(args)
	}

	if inv.sig.ReturnsError {
		if errV := out[len(out)-1]; !errV.IsNil() {
			return nil, &CallError{Err: errV.Interface().(error)}
		}
	}
	return out, nil
}
