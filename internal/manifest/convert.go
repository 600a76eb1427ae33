package manifest

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/vk/fndispatch/internal/codec"
	"github.com/vk/fndispatch/internal/ctxlog"
	"github.com/vk/fndispatch/internal/invoke"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ErrArgumentCount is returned when a call's args do not fit the signature.
var ErrArgumentCount = errors.New("manifest: wrong number of arguments")

// ConvertArgs turns manifest values into Go values of the parameter types in
// sig. For a variadic function the trailing values are gathered into the
// final slice parameter, so `args = [1, 2, 3]` calls Sum(xs ...int).
func ConvertArgs(ctx context.Context, sig invoke.Signature, vals []cty.Value) ([]any, error) {
	params := sig.Params
	if !sig.Variadic {
		if len(vals) != len(params) {
			return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArgumentCount, sig, len(params), len(vals))
		}
		out := make([]any, len(vals))
		for i, v := range vals {
			gv, err := convertValue(ctx, v, params[i])
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			out[i] = gv
		}
		return out, nil
	}

	fixed := len(params) - 1
	if len(vals) < fixed {
		return nil, fmt.Errorf("%w: %s takes at least %d, got %d", ErrArgumentCount, sig, fixed, len(vals))
	}
	out := make([]any, len(params))
	for i := 0; i < fixed; i++ {
		gv, err := convertValue(ctx, vals[i], params[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = gv
	}
	sliceType := params[fixed]
	rest := reflect.MakeSlice(sliceType, 0, len(vals)-fixed)
	for i := fixed; i < len(vals); i++ {
		gv, err := convertValue(ctx, vals[i], sliceType.Elem())
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		rest = reflect.Append(rest, valueOf(gv, sliceType.Elem()))
	}
	out[fixed] = rest.Interface()
	return out, nil
}

// convertValue decodes val into a fresh value of type t, converting the cty
// type first when the two differ (e.g. a tuple into a list).
func convertValue(ctx context.Context, val cty.Value, t reflect.Type) (any, error) {
	logger := ctxlog.FromContext(ctx)

	if val.IsNull() {
		if !codec.Nillable(t) {
			return nil, fmt.Errorf("null is not a valid %s", t)
		}
		return reflect.Zero(t).Interface(), nil
	}
	if t.Kind() == reflect.Interface {
		return nil, fmt.Errorf("cannot decode into interface type %s", t)
	}

	ptr := reflect.New(t)
	impliedType, err := gocty.ImpliedType(ptr.Elem().Interface())
	if err != nil {
		logger.Debug("Could not imply cty.Type from Go type, attempting direct decoding.", "go_type", t.String(), "error", err)
		if err := gocty.FromCtyValue(val, ptr.Interface()); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}

	converted, err := convert.Convert(val, impliedType)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	if !val.Type().Equals(converted.Type()) {
		logger.Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", converted.Type().FriendlyName(),
		)
	}
	if err := gocty.FromCtyValue(converted, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

func valueOf(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

// Render formats a call result as JSON. A nil v renders as "null".
func Render(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return "", fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	val, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return "", err
	}
	out, err := ctyjson.Marshal(val, ty)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
