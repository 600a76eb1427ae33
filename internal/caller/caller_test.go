package caller

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fndispatch/internal/codec"
	"github.com/vk/fndispatch/internal/invoke"
	"github.com/vk/fndispatch/internal/marshal"
	"github.com/vk/fndispatch/internal/registry"
	"github.com/vk/fndispatch/internal/wire"
)

var addCalls int

func add() { addCalls++ }

func sub(a, b int) int { return a - b }

func div(a, b int) (int, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	return a / b, nil
}

func upper(s string) string { return strings.ToUpper(s) }

func join(sep string, parts ...string) string { return strings.Join(parts, sep) }

func neverRegistered(int) int { return 0 }

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Declare("add, sub, div, upper, join", add, sub, div, upper, join))
	reg.Seal()
	return reg
}

func TestCall_Sub(t *testing.T) {
	reg := newRegistry(t)

	c, err := New[int](reg, sub)
	require.NoError(t, err)
	assert.Equal(t, "sub", c.Name())

	got, err := c.Call(3, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestCall_VoidReturnsNoValue(t *testing.T) {
	reg := newRegistry(t)
	before := addCalls

	c, err := New[Void](reg, add)
	require.NoError(t, err)

	got, err := c.Call()
	require.NoError(t, err)
	assert.Equal(t, Void{}, got)
	assert.Equal(t, before+1, addCalls)
}

func TestCall_MatchesDirectCall(t *testing.T) {
	reg := newRegistry(t)
	c, err := New[string](reg, upper)
	require.NoError(t, err)

	for _, in := range []string{"", "abc", "MiXeD 123"} {
		got, err := c.Call(in)
		require.NoError(t, err)
		assert.Equal(t, upper(in), got)
	}
}

func TestNew_UnregisteredFunction(t *testing.T) {
	reg := newRegistry(t)
	_, err := New[int](reg, neverRegistered)
	require.ErrorIs(t, err, registry.ErrUnregisteredIdentity)
}

func makeScaler(n int) func(int) int {
	return func(x int) int { return x * n }
}

func TestNew_ClosureHasNoIdentity(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("double", makeScaler(2)))
	reg.Seal()

	_, err := New[int](reg, makeScaler(100))
	require.ErrorIs(t, err, registry.ErrInvalidFunction)
	require.ErrorIs(t, err, registry.ErrNoIdentity)

	c, err := ByName[int](reg, "double")
	require.NoError(t, err)
	got, err := c.Call(5)
	require.NoError(t, err)
	assert.Equal(t, 10, got)
}

func TestByName(t *testing.T) {
	reg := newRegistry(t)

	c, err := ByName[int](reg, "sub")
	require.NoError(t, err)
	got, err := c.Call(10, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, got)

	_, err = ByName[int](reg, "missing")
	require.ErrorIs(t, err, registry.ErrUnknownFunctionName)
}

func TestNew_ResultTypeMismatch(t *testing.T) {
	reg := newRegistry(t)

	_, err := New[string](reg, sub)
	require.ErrorIs(t, err, ErrSignatureMismatch)

	_, err = New[int](reg, add)
	require.ErrorIs(t, err, ErrSignatureMismatch)

	_, err = New[Void](reg, sub)
	require.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestCall_ArgumentChecks(t *testing.T) {
	reg := newRegistry(t)
	c, err := New[int](reg, sub)
	require.NoError(t, err)

	_, err = c.Call(1)
	require.ErrorIs(t, err, marshal.ErrArity)

	_, err = c.Call(1, "2")
	require.ErrorIs(t, err, marshal.ErrArgumentType)
}

func TestCall_VariadicSpread(t *testing.T) {
	reg := newRegistry(t)
	c, err := New[string](reg, join)
	require.NoError(t, err)

	got, err := c.Call("-", "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, "a-b-c", got)

	got, err = c.Call("-", []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, "x-y", got)

	got, err = c.Call("-")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = c.Call()
	require.ErrorIs(t, err, marshal.ErrArity)

	_, err = c.Call("-", "a", 2)
	require.ErrorIs(t, err, marshal.ErrArgumentType)
}

func TestCall_ReferenceArgumentIsNotResolvedHere(t *testing.T) {
	reg := newRegistry(t)
	c, err := New[int](reg, sub)
	require.NoError(t, err)

	_, err = c.Call(1, wire.Reference("obj-3"))
	require.ErrorIs(t, err, invoke.ErrArgumentDecode)

	var argErr *invoke.ArgumentDecodeError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, 1, argErr.Position)
}

func TestCall_FunctionError(t *testing.T) {
	reg := newRegistry(t)
	c, err := New[int](reg, div)
	require.NoError(t, err)

	got, err := c.Call(9, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	_, err = c.Call(1, 0)
	require.ErrorIs(t, err, invoke.ErrCallFailed)
	assert.Contains(t, err.Error(), "division by zero")
}

func TestInvoke_OneShot(t *testing.T) {
	reg := newRegistry(t)
	got, err := Invoke[int](reg, sub, 5, 8)
	require.NoError(t, err)
	assert.Equal(t, -3, got)

	_, err = Invoke[int](reg, neverRegistered, 1)
	require.ErrorIs(t, err, registry.ErrUnregisteredIdentity)
}

func TestDecodeResult(t *testing.T) {
	intSig, err := invoke.SignatureOf(sub)
	require.NoError(t, err)
	voidSig, err := invoke.SignatureOf(add)
	require.NoError(t, err)

	str, err := codec.Encode("not an int")
	require.NoError(t, err)
	_, err = decodeResult[int](intSig, str)
	require.ErrorIs(t, err, ErrResultDecode)
	require.ErrorIs(t, err, codec.ErrTypeMismatch)

	_, err = decodeResult[int](intSig, codec.Nil())
	require.ErrorIs(t, err, ErrResultDecode)

	_, err = decodeResult[Void](voidSig, str)
	require.ErrorIs(t, err, ErrResultDecode)

	v, err := decodeResult[Void](voidSig, codec.Nil())
	require.NoError(t, err)
	assert.Equal(t, Void{}, v)
}
