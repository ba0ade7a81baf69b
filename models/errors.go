package models

import "fmt"

// ValidationError reports missing or malformed input. Surfaced inline to the
// user, never fatal.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ReferenceError reports input pointing at a category, department or profile
// that does not exist.
type ReferenceError struct {
	Message string
}

func (e *ReferenceError) Error() string {
	return e.Message
}

// ForbiddenError reports an action the acting principal is not allowed to
// perform, such as a user deleting an asset they do not own.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// ReferentialError reports a delete blocked by live references. The caller
// must remove the referencing assets first.
type ReferentialError struct {
	Resource string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("cannot delete %s: still in use by existing assets", e.Resource)
}

// NotFoundError reports a missing row.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// GatewayError reports a failed call to the external warranty service. It is
// retryable and must never be mistaken for success.
type GatewayError struct {
	StatusCode int
	Detail     string
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("warranty service returned status %d: %s", e.StatusCode, e.Detail)
	}
	return "warranty service unreachable: " + e.Detail
}
