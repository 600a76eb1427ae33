package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/fndispatch/internal/declparse"
	"github.com/vk/fndispatch/internal/invoke"
)

var (
	// ErrUnknownFunctionName is returned when no Invoker is stored under a name.
	ErrUnknownFunctionName = errors.New("unknown function name")
	// ErrUnregisteredIdentity is returned when a function value was never registered.
	ErrUnregisteredIdentity = errors.New("function was never registered")
	// ErrRegistrationConflict is returned when a name or identity is already taken.
	ErrRegistrationConflict = errors.New("registration conflict")
	// ErrInvalidFunction is returned for values that cannot be registered.
	ErrInvalidFunction = errors.New("invalid function")
	// ErrSealed is returned by Register once the registration phase is over.
	ErrSealed = errors.New("registry is sealed")
)

// Module is the interface that every package of callable functions
// implements to be registered at startup.
type Module interface {
	Register(r *Registry) error
}

// Registry holds the name -> Invoker and identity -> name tables for a
// single application instance.
type Registry struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	invokers map[string]*invoke.Invoker
	names    map[Identity]string
	sealed   bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// New creates an empty, unsealed Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:   slog.Default(),
		invokers: make(map[string]*invoke.Invoker),
		names:    make(map[Identity]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register wraps fn and stores it under name. Registering the same function
// under the same name again is a no-op. A closure or generic instantiation
// has no identity: it is stored by name only, NameOf never resolves it, and
// any second registration under its name is a conflict.
func (r *Registry) Register(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidFunction)
	}
	id, err := IdentityOf(fn)
	anonymous := errors.Is(err, ErrNoIdentity)
	if err != nil && !anonymous {
		return fmt.Errorf("registering %q: %w", name, err)
	}
	inv, err := invoke.New(fn)
	if err != nil {
		return fmt.Errorf("registering %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("registering %q: %w", name, ErrSealed)
	}

	_, nameTaken := r.invokers[name]
	if anonymous {
		if nameTaken {
			return fmt.Errorf("%w: name %q is already used by another function", ErrRegistrationConflict, name)
		}
		r.invokers[name] = inv
		r.logger.Debug("Registering function by name only.", "name", name, "signature", inv.Signature().String())
		return nil
	}

	existingName, idTaken := r.names[id]
	switch {
	case idTaken && existingName == name:
		r.logger.Debug("Function already registered, skipping.", "name", name, "identity", id)
		return nil
	case idTaken:
		return fmt.Errorf("%w: %s is already registered as %q, cannot register it as %q", ErrRegistrationConflict, id, existingName, name)
	case nameTaken:
		return fmt.Errorf("%w: name %q is already used by another function", ErrRegistrationConflict, name)
	}

	r.names[id] = name
	r.invokers[name] = inv
	r.logger.Debug("Registering function.", "name", name, "identity", id, "signature", inv.Signature().String())
	return nil
}

// Declare registers fns under the names listed in decl, matched by
// position: Declare("Add, Sub", Add, Sub).
func (r *Registry) Declare(decl string, fns ...any) error {
	names, err := declparse.Parse(decl)
	if err != nil {
		return err
	}
	if len(names) != len(fns) {
		return fmt.Errorf("declaration %q lists %d names for %d functions", decl, len(names), len(fns))
	}
	for i, name := range names {
		if err := r.Register(name, fns[i]); err != nil {
			return err
		}
	}
	return nil
}

// Seal ends the registration phase.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
	r.logger.Debug("Registry sealed.", "functions", len(r.invokers))
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// LookupInvoker returns the Invoker stored under name.
func (r *Registry) LookupInvoker(name string) (*invoke.Invoker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invokers[name]
	return inv, ok
}

// Invoker is LookupInvoker reporting absence as ErrUnknownFunctionName.
func (r *Registry) Invoker(name string) (*invoke.Invoker, error) {
	inv, ok := r.LookupInvoker(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunctionName, name)
	}
	return inv, nil
}

// LookupName returns the name id was registered under.
func (r *Registry) LookupName(id Identity) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[id]
	return name, ok
}

// NameOf resolves a function value to its registered name, reporting
// absence as ErrUnregisteredIdentity.
func (r *Registry) NameOf(fn any) (string, error) {
	id, err := IdentityOf(fn)
	if err != nil {
		return "", err
	}
	name, ok := r.LookupName(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnregisteredIdentity, id)
	}
	return name, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.invokers))
	for name := range r.invokers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
