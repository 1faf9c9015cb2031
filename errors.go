package glquad

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceNotFound is returned when a shader file does not exist.
	ErrSourceNotFound = errors.New("shader source not found")
	// ErrSourceIO is returned when a shader file exists but cannot be read.
	ErrSourceIO = errors.New("shader source unreadable")
	// ErrSourceEmpty is returned for a zero-length shader file.
	ErrSourceEmpty = errors.New("shader source empty")

	ErrCompile         = errors.New("shader compilation failed")
	ErrLink            = errors.New("shader program link failed")
	ErrLinkAborted     = errors.New("shader program link aborted")
	ErrUniformNotFound = errors.New("uniform not found")
	ErrGraphicsAPI     = errors.New("graphics API error")

	ErrNotInitialized     = errors.New("harness not initialized")
	ErrAlreadyInitialized = errors.New("harness already initialized")
	// ErrNotDrawable is returned when a draw would run against a program that
	// is not validated or a vertex array whose layout does not match its
	// vertex buffer.
	ErrNotDrawable = errors.New("state not drawable")
)

// APIError reports a non-zero code read from the driver's error queue right
// after a call.
type APIError struct {
	Call string
	File string
	Line int
	Code uint32
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[OpenGL Error] (%d %s) : %s, %s : %d",
		e.Code, errorName(e.Code), e.Call, e.File, e.Line)
}

func (e *APIError) Is(target error) bool {
	return target == ErrGraphicsAPI
}

// CompileError carries the driver's info log for a failed stage.
type CompileError struct {
	Kind StageKind
	Log  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Kind, e.Log)
}

func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}

// LinkError carries the driver's info log for a failed link or validation.
type LinkError struct {
	Op  string // "link" or "validate"
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("shader program %s failed: %s", e.Op, e.Log)
}

func (e *LinkError) Is(target error) bool {
	return target == ErrLink
}

// LinkAbortedError is returned by the linker when one or more stages failed
// to compile. The link is never attempted in that case.
type LinkAbortedError struct {
	Failures []*CompileError
}

func (e *LinkAbortedError) Error() string {
	kinds := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		kinds[i] = f.Kind.String()
	}
	return fmt.Sprintf("%v: failed stages: %s", ErrLinkAborted, strings.Join(kinds, ", "))
}

func (e *LinkAbortedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrLinkAborted)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}
