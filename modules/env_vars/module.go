// Package env_vars exposes the process environment as callable functions.
package env_vars

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vk/fndispatch/internal/registry"
)

// ErrNotSet is returned by Getenv for a variable that is not set.
var ErrNotSet = errors.New("environment variable not set")

// Module implements the registry.Module interface for this package.
type Module struct{}

// EnvVars returns every environment variable of the process.
func EnvVars() map[string]string {
	envMap := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}
	return envMap
}

// Getenv returns the value of name. An unset variable is an error; a
// variable set to the empty string is not.
func Getenv(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotSet, name)
	}
	return v, nil
}

// Register registers the functions with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Declare("EnvVars, Getenv", EnvVars, Getenv)
}
