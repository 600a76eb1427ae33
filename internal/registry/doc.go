// Package registry is the process's table of callable functions.
//
// A Registry maps the string names used on the wire (e.g., "Sub") to the
// Invokers that run the compiled Go functions, and maps each function's
// identity back to its name so a caller holding the function value can find
// out what to ask for.
//
// Lifecycle: the application builds one Registry at startup, every module
// registers its functions, and the registry is sealed. After Seal the tables
// never change and any number of goroutines may look names up concurrently.
// The registry lives as long as the App that owns it.
package registry
