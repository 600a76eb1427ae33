// Package print writes values to standard output.
package print

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/vk/fndispatch/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

var out io.Writer = os.Stdout

// Print writes each key and value of values on its own line, sorted by key.
func Print(values map[string]string) {
	fmt.Fprint(out, format(values))
}

func format(values map[string]string) string {
	if values == nil {
		return "      (null)\n"
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "      %s = %q\n", k, values[k])
	}
	return sb.String()
}

// Register registers the function with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Declare("Print", Print)
}
