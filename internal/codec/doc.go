// Package codec turns Go values into wire buffers and back.
//
// Every buffer holds exactly one msgpack value. A single msgpack nil byte is
// reserved for "no value": it is what a void function returns and what an
// absent argument slot carries. Decoding is strict. A buffer whose shape does
// not fit the requested type fails with a TypeMismatchError instead of being
// coerced into something that merely looks plausible.
package codec
