package errors

import (
	stderr "errors"
	"fmt"
)

// BackendNotFoundError is a service domain error for a backend kind with no
// stored session.
type BackendNotFoundError struct {
	Kind string
}

// Error is an implementation of the error interface.
func (n *BackendNotFoundError) Error() string {
	return fmt.Sprintf("backend %q not found", n.Kind)
}

// NotFoundBackend returns the backend kind and true if BackendNotFoundError
// is part of the error chain.
func NotFoundBackend(e error) (_ string, ok bool) {
	var nf *BackendNotFoundError
	if !stderr.As(e, &nf) {
		return "", false
	}
	return nf.Kind, true
}

// BinaryNotFoundError indicates that no usable executable could be resolved
// for a backend.
type BinaryNotFoundError struct {
	Backend string
}

// Error is an implementation of the error interface.
func (n *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("no usable %s binary: not configured and no development path set", n.Backend)
}

// NoSessionFoundError indicates that a session cannot be found within the context.
type NoSessionFoundError struct{}

// Error is an implementation of the error interface.
func (n *NoSessionFoundError) Error() string {
	return "no session found in context"
}
