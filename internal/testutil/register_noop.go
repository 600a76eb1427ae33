package testutil

import "github.com/vk/fndispatch/internal/registry"

// NoOp takes nothing and returns nothing.
func NoOp() {}

// NoOpModule registers NoOp under the name "NoOp". It is useful for tests
// that need a valid registry but do not care what runs.
type NoOpModule struct{}

// Register registers the NoOp function.
func (m *NoOpModule) Register(r *registry.Registry) error {
	return r.Register("NoOp", NoOp)
}
