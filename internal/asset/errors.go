// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLoad is the sentinel wrapped by LoadError.
	ErrLoad = errors.New("load error")
	// ErrParse is the sentinel wrapped by ParseError.
	ErrParse = errors.New("parse error")
	// ErrTransform is the sentinel wrapped by TransformError.
	ErrTransform = errors.New("transform error")
)

type (
	// LoadError is returned when a module's source cannot be read.
	LoadError struct {
		Filename string
		Err      error
	}

	// ParseError is returned when a module's source is not valid module syntax.
	ParseError struct {
		Filename string
		Err      error
	}

	// TransformError is returned when the transformer rejects a module.
	TransformError struct {
		Filename string
		Messages []string
		Err      error
	}
)

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Filename, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is reports ErrLoad for every LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ErrParse for every ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *TransformError) Error() string {
	switch {
	case len(e.Messages) > 0:
		return fmt.Sprintf("transform %s: %s", e.Filename, strings.Join(e.Messages, "; "))
	case e.Err != nil:
		return fmt.Sprintf("transform %s: %v", e.Filename, e.Err)
	default:
		return fmt.Sprintf("transform %s: failed", e.Filename)
	}
}

func (e *TransformError) Unwrap() error { return e.Err }

// Is reports ErrTransform for every TransformError.
func (e *TransformError) Is(target error) bool { return target == ErrTransform }
