package glquad

import (
	"log/slog"
	"path/filepath"
	"runtime"
)

// maxDrainedErrors bounds ClearErrors. A lost context may report the same
// error forever.
const maxDrainedErrors = 64

// Probe brackets GL calls with error queue checks.
//
// Every mutating call goes through Do: the queue is drained first so an
// older error is never attributed to the new call, then the first pending
// error after the call is reported.
type Probe struct {
	gl     GL
	logger *slog.Logger
}

// NewProbe creates a probe for the given context. A nil logger uses
// slog.Default().
func NewProbe(gl GL, logger *slog.Logger) *Probe {
	if logger == nil {
		logger = slog.Default()
	}
	return &Probe{gl: gl, logger: logger}
}

// ClearErrors drains the driver's error queue, discarding whatever is in it.
func (p *Probe) ClearErrors() {
	for range maxDrainedErrors {
		if p.gl.GetError() == NO_ERROR {
			return
		}
	}
}

// Check reads the first pending error. It returns nil if there is none,
// otherwise it logs a one-line diagnostic and returns an *APIError tagged
// with call and the caller's source location.
func (p *Probe) Check(call string) error {
	return p.check(call, 2)
}

// Do runs fn between ClearErrors and Check.
func (p *Probe) Do(call string, fn func()) error {
	p.ClearErrors()
	fn()
	return p.check(call, 2)
}

func (p *Probe) check(call string, skip int) error {
	code := p.gl.GetError()
	if code == NO_ERROR {
		return nil
	}

	file, line := "???", 0
	if _, f, l, ok := runtime.Caller(skip); ok {
		file, line = filepath.Base(f), l
	}

	err := &APIError{Call: call, File: file, Line: line, Code: code}
	p.logger.Error("[OpenGL Error]",
		slog.Any("code", code),
		slog.String("name", errorName(code)),
		slog.String("call", call),
		slog.String("file", file),
		slog.Int("line", line),
	)
	return err
}
