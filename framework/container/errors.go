package container

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrUnbound is matched by resolutions of a type with no binding.
	ErrUnbound = errors.New("container: binding not found")
	// ErrFactoryFailed is matched when a registered factory (or extender) returns an error.
	ErrFactoryFailed = errors.New("container: factory failed")
	// ErrTypeMismatch is matched when a binding produced a value that is not of the requested type.
	ErrTypeMismatch = errors.New("container: resolved value has unexpected type")
)

// UnboundError reports a resolution for a type that has no binding.
type UnboundError struct {
	Key TypeKey
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("container: no binding registered for [%s]", e.Key)
}

// Is reports whether target is ErrUnbound.
func (e *UnboundError) Is(target error) bool { return target == ErrUnbound }

// FactoryError wraps the error returned by the factory bound to Key.
type FactoryError struct {
	Key TypeKey
	Err error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("container: factory for [%s] failed: %v", e.Key, e.Err)
}

// Unwrap returns the factory's own error.
func (e *FactoryError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFactoryFailed.
func (e *FactoryError) Is(target error) bool { return target == ErrFactoryFailed }

// TypeMismatchError reports a stored value whose dynamic type is not the requested one.
type TypeMismatchError struct {
	Key TypeKey
	Got reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("container: [%s] resolved to %v", e.Key, e.Got)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }
