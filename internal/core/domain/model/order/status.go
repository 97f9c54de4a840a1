package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. The variant set is closed
// and every transition is decided by a fixed table, never by runtime data.
//
// State transitions:
//
//	Pending ──┬──> Processing ──> Shipped ──> Delivered
//	          │
//	          └──> Cancelled
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status; the order waits for the deferred advance.
	Pending

	// Processing means the order left Pending and is being prepared.
	Processing

	// Shipped means the order is on its way.
	Shipped

	// Delivered is terminal: the order reached the customer.
	Delivered

	// Cancelled is terminal: the order was cancelled while still Pending.
	Cancelled
)

// transitions is the authoritative transition table.
var transitions = map[Status][]Status{
	Pending:    {Processing, Cancelled},
	Processing: {Shipped},
	Shipped:    {Delivered},
	Delivered:  {},
	Cancelled:  {},
}

var statusNames = map[Status]string{
	Unknown:    "Unknown",
	Pending:    "Pending",
	Processing: "Processing",
	Shipped:    "Shipped",
	Delivered:  "Delivered",
	Cancelled:  "Cancelled",
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Processing, Shipped, Delivered, Cancelled}
}

// ParseStatus converts a case-insensitive status name into a Status.
//
// Example:
//
//	status, err := order.ParseStatus("pending") // order.Pending
func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses() {
		if strings.EqualFold(strings.TrimSpace(s), status.String()) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks that s is one of the five lifecycle statuses.
func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name, "Unknown" for invalid values.
func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether target appears in the transition table row for s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Next returns the default forward step from s.
//
// Returns:
//   - (Processing, true) from Pending
//   - (Shipped, true) from Processing
//   - (Delivered, true) from Shipped
//   - (s, false) from Delivered, Cancelled and invalid values: already terminal, not an error
func (s Status) Next() (Status, bool) {
	switch s {
	case Pending:
		return Processing, true
	case Processing:
		return Shipped, true
	case Shipped:
		return Delivered, true
	case Delivered, Cancelled, Unknown:
		return s, false
	default:
		return s, false
	}
}
