// SPDX-License-Identifier: MPL-2.0

package jsrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
)

type (
	// Runner executes bundles. Each Run uses a fresh interpreter.
	Runner struct {
		stdout io.Writer
		stderr io.Writer
		logger *log.Logger
	}

	// Option configures a Runner.
	Option func(*Runner)
)

// WithStdout sets where console.log and console.info write.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		r.stdout = w
	}
}

// WithStderr sets where console.warn and console.error write.
func WithStderr(w io.Writer) Option {
	return func(r *Runner) {
		r.stderr = w
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner. Console output is discarded unless writers are set.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.stdout == nil {
		r.stdout = io.Discard
	}
	if r.stderr == nil {
		r.stderr = io.Discard
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Run executes bundle. Cancelling ctx interrupts the interpreter.
func (r *Runner) Run(ctx context.Context, bundle string) error {
	vm := goja.New()
	if err := vm.Set("console", r.console(vm)); err != nil {
		return fmt.Errorf("install console: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	r.logger.Debug("executing bundle", "bytes", len(bundle))
	_, err := vm.RunString(bundle)
	if err == nil {
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return cause
		}
		return &ExecutionError{Err: err}
	}

	var exc *goja.Exception
	if errors.As(err, &exc) {
		if lookup := lookupError(vm, exc); lookup != nil {
			return lookup
		}
	}
	return &ExecutionError{Err: err}
}

// lookupError converts a MODULE_NOT_MAPPED exception into a RuntimeLookupError.
func lookupError(vm *goja.Runtime, exc *goja.Exception) *RuntimeLookupError {
	val := exc.Value()
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	obj := val.ToObject(vm)
	code := obj.Get("code")
	if code == nil || code.String() != lookupErrorCode {
		return nil
	}
	e := &RuntimeLookupError{Err: exc}
	if spec := obj.Get("specifier"); spec != nil {
		e.Specifier = spec.String()
	}
	if parent := obj.Get("parent"); parent != nil {
		e.Parent = parent.ToInteger()
	}
	return e
}

func (r *Runner) console(vm *goja.Runtime) *goja.Object {
	c := vm.NewObject()
	printer := func(w io.Writer) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			fmt.Fprintln(w, strings.Join(parts, " "))
			return goja.Undefined()
		}
	}
	// Set only fails for frozen objects.
	_ = c.Set("log", printer(r.stdout))
	_ = c.Set("info", printer(r.stdout))
	_ = c.Set("warn", printer(r.stderr))
	_ = c.Set("error", printer(r.stderr))
	return c
}
