// Package kernel provides the shared domain primitives of the order lifecycle:
//   - UUID: the order identifier value object
//   - Clock: the time source used for creation and last-modified timestamps
//
// Both are immutable and safe for concurrent use.
package kernel
