// Package guard implements the constructor-guard pattern used by commands and
// value objects to ensure instances are only created through their designated
// constructor functions, never as raw zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when a nil validation error
// is passed for a zero-value guard.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having been created through its constructor.
// Embed it in a struct and set it with NewConstructorGuard inside the constructor;
// a zero-value struct will then fail Validate.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the object was built through its constructor,
// otherwise the provided validation error (or ErrDefaultConstructorGuard when nil).
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
