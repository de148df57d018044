// Package errors provides domain-specific error types for the library.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	"fmt"
)

// InvalidNamespaceError reports an ability namespace that fails the grammar.
// Namespaces may only contain alphanumeric characters or '-', '_', '.', '+'
// and '*', and must be non-empty.
type InvalidNamespaceError struct {
	Value string
}

func (e *InvalidNamespaceError) Error() string {
	return fmt.Sprintf("invalid ability namespace %q: must be non-empty and contain only alphanumeric characters or -_.+*", e.Value)
}

// InvalidAbilityError reports an ability string that fails the grammar.
type InvalidAbilityError struct {
	Value  string
	Reason string
}

func (e *InvalidAbilityError) Error() string {
	return fmt.Sprintf("invalid ability %q: %s", e.Value, e.Reason)
}

// InvalidResourceError reports a resource identifier that fails validation.
// Resources are opaque to the library; the only constraint is non-emptiness.
type InvalidResourceError struct {
	Value string
}

func (e *InvalidResourceError) Error() string {
	return fmt.Sprintf("invalid resource identifier %q: must be non-empty", e.Value)
}

// DuplicateRecapURNError reports that a host message already carries a
// recap token in its resource list, so another one cannot be attached.
type DuplicateRecapURNError struct {
	Resource string
}

func (e *DuplicateRecapURNError) Error() string {
	return fmt.Sprintf("message already contains a recap resource: %s", e.Resource)
}

// MissingRecapURNError reports that the last entry of a message's resource
// list is not a recap token. This covers both a message with no recap token
// at all and one where the token is present but not in final position.
type MissingRecapURNError struct {
	LastResource string
}

func (e *MissingRecapURNError) Error() string {
	if e.LastResource == "" {
		return "message contains no recap resource"
	}
	return fmt.Sprintf("recap resource must be the last message resource, found %q", e.LastResource)
}

// MalformedPayloadError reports a recap token whose payload could not be
// decoded: bad base64, invalid JSON, a payload shape that violates the wire
// schema, or an ability key that fails the grammar.
type MalformedPayloadError struct {
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed recap payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// StatementMismatchError reports that the statement carried by a message
// does not match the statement regenerated from its encoded capabilities.
// This is the binding security check: the prose a signer saw must be a
// faithful rendering of the structure a relying party will enforce.
type StatementMismatchError struct {
	Expected string
}

func (e *StatementMismatchError) Error() string {
	return fmt.Sprintf("message statement does not end with the expected capability statement: %q", e.Expected)
}
