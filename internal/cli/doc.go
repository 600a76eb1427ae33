// Package cli turns command-line arguments into an app.Config: manifest
// paths, a single -call with its -args, or -list. It validates user input and
// reports bad usage as an ExitError carrying the process exit code.
package cli
