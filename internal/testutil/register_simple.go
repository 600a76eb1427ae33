package testutil

import "github.com/vk/fndispatch/internal/registry"

// SimpleModule is a test helper for easily creating a mock module that
// registers a single function.
type SimpleModule struct {
	Name string
	Fn   any
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) error {
	return r.Register(m.Name, m.Fn)
}
