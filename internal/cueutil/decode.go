// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Unify compiles schema and data, and unifies data with the named
// definition of schema. The result has been validated.
func Unify(schema string, data []byte, definition string, opts ...Option) (cue.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(schema)
	if err := schemaValue.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: compile schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(definition))
	if err := root.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s: %w", definition, err)
	}

	user := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := user.Err(); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}

	unified := root.Unify(user)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}

// Decode validates data against definition and decodes it into a T.
func Decode[T any](schema string, data []byte, definition string, opts ...Option) (*T, error) {
	unified, err := Unify(schema, data, definition, opts...)
	if err != nil {
		return nil, err
	}
	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, filenameOf(opts))
	}
	return &out, nil
}

// DecodeMap validates data against definition and decodes it into a map,
// the shape viper merges.
func DecodeMap(schema string, data []byte, definition string, opts ...Option) (map[string]any, error) {
	unified, err := Unify(schema, data, definition, opts...)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, filenameOf(opts))
	}
	return out, nil
}

func filenameOf(opts []Option) string {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o.filename
}
