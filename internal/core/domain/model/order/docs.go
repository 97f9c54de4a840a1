// Package order provides the order aggregate and its state machine.
//
// The package includes:
//   - Status: the closed set Pending, Processing, Shipped, Delivered, Cancelled
//     with a fixed transition table and the default "advance" step
//   - LineItem: an immutable, validated order line
//   - Order: the aggregate root guarding its own status under a per-order lock
//   - Snapshot: an immutable copy handed to observers and queries
//
// Key business rules:
//   - Orders are created in Pending with at least one item
//   - Pending -> Processing | Cancelled, Processing -> Shipped, Shipped -> Delivered
//   - Delivered and Cancelled are terminal; advancing them is a no-op
//   - The total is the sum of quantity × unit price, computed once
package order
