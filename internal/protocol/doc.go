// Package protocol owns the transmission packet format.
//
// Ownership boundary:
// - packet tree model
// - recursive decode over a bit cursor
// - encode back to the wire format
//
// Bit-level primitives live in protocol/bits and expression evaluation in
// protocol/eval.
package protocol
