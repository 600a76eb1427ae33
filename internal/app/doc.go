// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the execution lifecycle: build the
// registry from the compiled-in modules, seal it, then run the requested
// calls through it. It is decoupled from any specific entrypoint like a CLI.
package app
