// Package caller is the client side of the registry: a TaskCaller is bound
// to one registered function and turns a typed call into wire slots, runs
// the registered Invoker and decodes the result back into the function's
// return type.
package caller

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/vk/fndispatch/internal/codec"
	"github.com/vk/fndispatch/internal/invoke"
	"github.com/vk/fndispatch/internal/marshal"
	"github.com/vk/fndispatch/internal/registry"
	"github.com/vk/fndispatch/internal/wire"
)

var (
	// ErrResultDecode is returned when the result buffer is not a valid R.
	ErrResultDecode = errors.New("result decode failed")
	// ErrSignatureMismatch is returned when R does not match the registered
	// function's return type.
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Void is the result type for functions that return no value.
type Void struct{}

var voidType = reflect.TypeFor[Void]()

// TaskCaller runs one call of a registered function. It is not safe for
// concurrent use; build one per in-flight call.
type TaskCaller[R any] struct {
	reg  *registry.Registry
	name string
	sig  invoke.Signature
}

// New binds a caller to fn, which must have been registered in reg.
func New[R any](reg *registry.Registry, fn any) (*TaskCaller[R], error) {
	name, err := reg.NameOf(fn)
	if err != nil {
		return nil, err
	}
	return ByName[R](reg, name)
}

// ByName binds a caller to the function registered under name.
func ByName[R any](reg *registry.Registry, name string) (*TaskCaller[R], error) {
	inv, err := reg.Invoker(name)
	if err != nil {
		return nil, err
	}
	sig := inv.Signature()
	if err := checkResult[R](sig); err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}
	return &TaskCaller[R]{reg: reg, name: name, sig: sig}, nil
}

// Invoke is New followed by Call.
func Invoke[R any](reg *registry.Registry, fn any, args ...any) (R, error) {
	c, err := New[R](reg, fn)
	if err != nil {
		var zero R
		return zero, err
	}
	return c.Call(args...)
}

// Name returns the registered name the caller is bound to.
func (c *TaskCaller[R]) Name() string { return c.name }

// Signature returns the registered function's signature.
func (c *TaskCaller[R]) Signature() invoke.Signature { return c.sig }

// Call marshals args, runs the registered Invoker and decodes its result.
func (c *TaskCaller[R]) Call(args ...any) (R, error) {
	var zero R

	slots, err := marshal.WrapFor(c.sig, args...)
	if err != nil {
		return zero, fmt.Errorf("calling %q: %w", c.name, err)
	}

	inv, err := c.reg.Invoker(c.name)
	if err != nil {
		return zero, err
	}
	res, err := inv.Invoke(slots)
	if err != nil {
		return zero, fmt.Errorf("calling %q: %w", c.name, err)
	}
	return decodeResult[R](c.sig, res)
}

func checkResult[R any](sig invoke.Signature) error {
	want := reflect.TypeFor[R]()
	if sig.Void() {
		if want != voidType {
			return fmt.Errorf("%w: function returns no value, caller expects %s", ErrSignatureMismatch, want)
		}
		return nil
	}
	if want != sig.Result {
		return fmt.Errorf("%w: function returns %s, caller expects %s", ErrSignatureMismatch, sig.Result, want)
	}
	return nil
}

func decodeResult[R any](sig invoke.Signature, res wire.Result) (R, error) {
	var zero R
	if sig.Void() {
		if !codec.IsNil(res) {
			return zero, fmt.Errorf("%w: void function returned %d bytes", ErrResultDecode, len(res))
		}
		return zero, nil
	}
	v, err := codec.Decode[R](res)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrResultDecode, err)
	}
	return v, nil
}
