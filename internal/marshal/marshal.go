// Package marshal converts a caller's arguments into ordered wire slots.
package marshal

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/vk/fndispatch/internal/codec"
	"github.com/vk/fndispatch/internal/invoke"
	"github.com/vk/fndispatch/internal/wire"
)

var (
	// ErrArity is returned by WrapFor when the argument count does not match.
	ErrArity = errors.New("marshal: wrong number of arguments")
	// ErrArgumentType is returned by WrapFor when an argument cannot be
	// assigned to its parameter.
	ErrArgumentType = errors.New("marshal: argument type mismatch")
)

var slotType = reflect.TypeFor[wire.Slot]()

// Wrap encodes each argument into a value slot, keeping order. A wire.Slot
// argument is passed through as is; that is how reference tokens from an
// object store reach the wire.
func Wrap(args ...any) ([]wire.Slot, error) {
	slots := make([]wire.Slot, len(args))
	for i, arg := range args {
		if slot, ok := arg.(wire.Slot); ok {
			if err := slot.Validate(); err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			slots[i] = slot
			continue
		}
		data, err := codec.Encode(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		slots[i] = wire.Value(data)
	}
	return slots, nil
}

// WrapFor is Wrap after checking args against sig, so a mismatch is caught
// on the calling side with the offending position. For a variadic sig the
// trailing arguments are gathered into the final slice slot, unless the
// caller already passed that slice (or nil, or a slot) in last position.
func WrapFor(sig invoke.Signature, args ...any) ([]wire.Slot, error) {
	if sig.Variadic {
		gathered, err := gather(sig, args)
		if err != nil {
			return nil, err
		}
		args = gathered
	}
	if len(args) != len(sig.Params) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArity, sig, len(sig.Params), len(args))
	}
	for i, arg := range args {
		if err := check(i, arg, sig.Params[i]); err != nil {
			return nil, err
		}
	}
	return Wrap(args...)
}

func check(i int, arg any, want reflect.Type) error {
	if arg == nil {
		if !codec.Nillable(want) {
			return fmt.Errorf("%w: argument %d is nil, want %s", ErrArgumentType, i, want)
		}
		return nil
	}
	got := reflect.TypeOf(arg)
	if got == slotType || got.AssignableTo(want) {
		return nil
	}
	return fmt.Errorf("%w: argument %d is %s, want %s", ErrArgumentType, i, got, want)
}

func gather(sig invoke.Signature, args []any) ([]any, error) {
	fixed := len(sig.Params) - 1
	if len(args) < fixed {
		return nil, fmt.Errorf("%w: %s takes at least %d arguments, got %d", ErrArity, sig, fixed, len(args))
	}
	sliceType := sig.Params[fixed]
	if len(args) == len(sig.Params) {
		last := args[fixed]
		if last == nil {
			return args, nil
		}
		if t := reflect.TypeOf(last); t == slotType || t.AssignableTo(sliceType) {
			return args, nil
		}
	}

	elem := sliceType.Elem()
	tail := reflect.MakeSlice(sliceType, 0, len(args)-fixed)
	for i := fixed; i < len(args); i++ {
		arg := args[i]
		if arg == nil {
			if !codec.Nillable(elem) {
				return nil, fmt.Errorf("%w: argument %d is nil, want %s", ErrArgumentType, i, elem)
			}
			tail = reflect.Append(tail, reflect.Zero(elem))
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(elem) {
			return nil, fmt.Errorf("%w: argument %d is %s, want %s", ErrArgumentType, i, v.Type(), elem)
		}
		tail = reflect.Append(tail, v)
	}

	out := make([]any, 0, len(sig.Params))
	out = append(out, args[:fixed]...)
	return append(out, tail.Interface()), nil
}
