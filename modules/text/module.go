// Package text provides string functions callable by name.
package text

import (
	"strings"

	"github.com/vk/fndispatch/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Concat joins a and b.
func Concat(a, b string) string { return a + b }

// Upper returns s in upper case.
func Upper(s string) string { return strings.ToUpper(s) }

// Split splits s around every instance of sep.
func Split(s, sep string) []string { return strings.Split(s, sep) }

// Join concatenates parts with sep between them.
func Join(sep string, parts ...string) string { return strings.Join(parts, sep) }

// WordCount counts how often each whitespace separated word appears in s.
func WordCount(s string) map[string]int {
	counts := make(map[string]int)
	for _, w := range strings.Fields(s) {
		counts[w]++
	}
	return counts
}

// Register registers the functions with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Declare("Concat, Upper, Split, Join, WordCount", Concat, Upper, Split, Join, WordCount)
}
