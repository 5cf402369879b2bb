// Package errs defines the error taxonomy shared by all POS components.
//
// Every failed operation maps to exactly one of four kinds:
//   - ValidationError: malformed user input (empty name, non-positive amount)
//   - IndexError: reference to a nonexistent catalog/bill/ledger entry
//   - StateError: operation invalid in the current data state
//   - AuthorizationError: blocked by the license gate
//
// All four are recoverable: the presentation boundary translates them to a
// user-facing message and the operation is aborted with no partial mutation.
package errs

import "fmt"

// ValidationError reports malformed user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for the given field.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IndexError reports a reference to an entry that does not exist.
type IndexError struct {
	Collection string
	Index      int
	Length     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range (have %d)", e.Collection, e.Index, e.Length)
}

// Index builds an IndexError for the given collection.
func Index(collection string, index, length int) *IndexError {
	return &IndexError{Collection: collection, Index: index, Length: length}
}

// StateError reports an operation that is invalid in the current data state,
// such as committing an empty bill.
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// State builds a StateError for the given operation.
func State(op, reason string) *StateError {
	return &StateError{Op: op, Reason: reason}
}

// AuthorizationError reports an action blocked by the license gate. It
// carries the gate state so the caller can render an appropriate message.
type AuthorizationError struct {
	Action string
	State  string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s not permitted: license state is %s", e.Action, e.State)
}

// Authorization builds an AuthorizationError for the given action and state.
func Authorization(action, state string) *AuthorizationError {
	return &AuthorizationError{Action: action, State: state}
}
