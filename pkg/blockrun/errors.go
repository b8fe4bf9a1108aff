package blockrun

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for execution.
var (
	// ErrNotFound indicates Execute was called for an unregistered block.
	ErrNotFound = errors.New("block not found")

	// ErrCycle indicates a dependency chain revisited a block mid-execution.
	ErrCycle = errors.New("dependency cycle")

	// ErrMissingCredential indicates a question block had no usable API key.
	ErrMissingCredential = errors.New("missing credential")
)

// NotFoundError reports an unregistered block name.
type NotFoundError struct {
	// Name is the requested block name.
	Name string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("block %q not found", e.Name)
}

// Unwrap returns ErrNotFound for errors.Is support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// CycleError reports a dependency cycle. Detection is fail-fast: no runner
// is invoked for the revisited block.
type CycleError struct {
	// Name is the block that was already mid-execution.
	Name string
	// Stack is the processing stack at detection, outermost first.
	Stack []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if len(e.Stack) == 0 {
		return fmt.Sprintf("dependency cycle at block %q", e.Name)
	}
	return fmt.Sprintf("dependency cycle at block %q (stack: %s)",
		e.Name, strings.Join(e.Stack, " -> "))
}

// Unwrap returns ErrCycle for errors.Is support.
func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// ExecutionError wraps a runner failure with block context. IO and
// transport failures are normalized into this type at the engine boundary.
type ExecutionError struct {
	// Name is the block that failed.
	Name string
	// Err is the underlying runner error.
	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute block %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// MissingCredentialError reports a question block that could not
// authenticate against its provider.
type MissingCredentialError struct {
	// Name is the block that failed.
	Name string
	// Provider is the configured provider, if any.
	Provider string
}

// Error implements the error interface.
func (e *MissingCredentialError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("block %q: missing credential for provider %q", e.Name, e.Provider)
	}
	return fmt.Sprintf("block %q: missing credential", e.Name)
}

// Unwrap returns ErrMissingCredential for errors.Is support.
func (e *MissingCredentialError) Unwrap() error {
	return ErrMissingCredential
}
