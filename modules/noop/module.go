// Package noop provides functions that return no value. They exist to check
// the void path end to end.
package noop

import (
	"log/slog"
	"sync/atomic"

	"github.com/vk/fndispatch/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

var pings atomic.Int64

// Ping does nothing but count that it was called.
func Ping() { pings.Add(1) }

// Pings reports how many times Ping ran in this process.
func Pings() int64 { return pings.Load() }

// Log writes msg through the default logger.
func Log(msg string) {
	slog.Info("noop.Log called.", "msg", msg)
}

// Register registers the functions with the registry.
func (m *Module) Register(r *registry.Registry) error {
	return r.Declare("Ping, Pings, Log", Ping, Pings, Log)
}
