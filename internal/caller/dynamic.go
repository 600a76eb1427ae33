package caller

import (
	"fmt"

	"github.com/vk/fndispatch/internal/codec"
	"github.com/vk/fndispatch/internal/marshal"
	"github.com/vk/fndispatch/internal/registry"
)

// CallByName runs the function registered under name when the result type
// is only known at run time, as with calls read from a manifest. The result
// is decoded into the registered return type; it is nil for void functions.
func CallByName(reg *registry.Registry, name string, args ...any) (any, error) {
	inv, err := reg.Invoker(name)
	if err != nil {
		return nil, err
	}
	sig := inv.Signature()

	slots, err := marshal.WrapFor(sig, args...)
	if err != nil {
		return nil, fmt.Errorf("calling %q: %w", name, err)
	}
	res, err := inv.Invoke(slots)
	if err != nil {
		return nil, fmt.Errorf("calling %q: %w", name, err)
	}

	if sig.Void() {
		if !codec.IsNil(res) {
			return nil, fmt.Errorf("%w: void function returned %d bytes", ErrResultDecode, len(res))
		}
		return nil, nil
	}
	v, err := codec.DecodeValue(res, sig.Result)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResultDecode, err)
	}
	return v.Interface(), nil
}
