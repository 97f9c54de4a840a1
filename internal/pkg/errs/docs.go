// Package errs provides standardized error types for the order lifecycle service.
// Every error type follows the same shape so that callers can classify failures
// with errors.Is against a sentinel while still getting the parameter details:
//   - ValueIsRequiredError: a mandatory value is missing (empty product id, no lines)
//   - ValueIsInvalidError: a value is present but breaks a rule (quantity, price, status)
//   - ObjectNotFoundError: a lookup matched nothing
//   - ObjectAlreadyExistsError: an insert would overwrite an existing object
//
// Each type carries a sentinel (e.g. ErrValueIsRequired) returned by Unwrap,
// constructors with and without a cause, and a single-line Error message.
package errs
