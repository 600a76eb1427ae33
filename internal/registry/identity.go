package registry

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// ErrNoIdentity is returned, along with ErrInvalidFunction, for function
// values whose symbol name is shared with other values: closures and generic
// instantiations. Such functions can still be registered; callers reach them
// through caller.ByName.
var ErrNoIdentity = errors.New("function has no unique identity")

// closureSuffix matches the compiler's names for function literals and the
// wrappers it generates for go and defer statements.
var closureSuffix = regexp.MustCompile(`\.(func|gowrap|deferwrap)\d+(\.\d+)*$`)

// Identity is the key used to find a registered function from its value. It
// is the fully qualified symbol name of the function's entry point, e.g.
// "github.com/vk/fndispatch/modules/arith.Sub". It is only meaningful inside
// the running process.
//
// Only named top-level functions have an identity. Every closure made from
// one function literal shares a symbol, as do all instantiations of a generic
// function, and an inlined constructor yields a different symbol than a
// compiled one. IdentityOf rejects those values rather than let two
// functions resolve to one name.
type Identity string

// IdentityOf computes the identity of fn.
func IdentityOf(fn any) (Identity, error) {
	if fn == nil {
		return "", fmt.Errorf("%w: nil function", ErrInvalidFunction)
	}
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return "", fmt.Errorf("%w: %T is not a function", ErrInvalidFunction, fn)
	}
	if fv.IsNil() {
		return "", fmt.Errorf("%w: nil %T", ErrInvalidFunction, fn)
	}

	rtFunc := runtime.FuncForPC(fv.Pointer())
	if rtFunc == nil {
		return "", fmt.Errorf("%w: unable to find function symbol", ErrInvalidFunction)
	}
	fullName := rtFunc.Name()

	// Method values share one wrapper per method across all receivers.
	if strings.HasSuffix(fullName, "-fm") {
		return "", fmt.Errorf("%w: cannot use receiver method value %s", ErrInvalidFunction, fullName)
	}
	if closureSuffix.MatchString(fullName) {
		return "", fmt.Errorf("%w: %w: closure %s, register it by name and call it with ByName", ErrInvalidFunction, ErrNoIdentity, fullName)
	}
	if strings.Contains(fullName, "[") {
		return "", fmt.Errorf("%w: %w: generic instantiation %s, register it by name and call it with ByName", ErrInvalidFunction, ErrNoIdentity, fullName)
	}

	return Identity(fullName), nil
}
