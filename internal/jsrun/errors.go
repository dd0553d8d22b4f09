// SPDX-License-Identifier: MPL-2.0

package jsrun

import (
	"errors"
	"fmt"
)

// lookupErrorCode is the code property the bundle runtime sets on errors for
// specifiers missing from a module's mapping.
const lookupErrorCode = "MODULE_NOT_MAPPED"

var (
	// ErrModuleNotMapped is the sentinel wrapped by RuntimeLookupError.
	ErrModuleNotMapped = errors.New("module not mapped")
	// ErrExecution is the sentinel wrapped by ExecutionError.
	ErrExecution = errors.New("bundle execution failed")
)

type (
	// RuntimeLookupError reports a require call whose specifier is absent
	// from the calling module's mapping.
	RuntimeLookupError struct {
		Specifier string
		// Parent is the id of the module that made the call.
		Parent int64
		Err    error
	}

	// ExecutionError reports any other exception thrown by the bundle.
	ExecutionError struct {
		Err error
	}
)

func (e *RuntimeLookupError) Error() string {
	return fmt.Sprintf("module %d requires %q, which is not in its mapping", e.Parent, e.Specifier)
}

func (e *RuntimeLookupError) Unwrap() error { return e.Err }

// Is reports ErrModuleNotMapped for every RuntimeLookupError.
func (e *RuntimeLookupError) Is(target error) bool { return target == ErrModuleNotMapped }

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("bundle execution failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Is reports ErrExecution for every ExecutionError.
func (e *ExecutionError) Is(target error) bool { return target == ErrExecution }
