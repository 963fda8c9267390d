// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kernelgen

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/kernelgen/internal/shader"
	"github.com/gogpu/kernelgen/internal/tpl"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for kernelgen and its internal packages.
// By default, kernelgen produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent
// default.
//
// Log levels used by kernelgen:
//   - [slog.LevelDebug]: internals (expanded includes, reflected parameters)
//   - [slog.LevelInfo]: progress (files loaded, artifacts written)
//   - [slog.LevelWarn]: non-fatal issues (compiler warnings, missing template
//     sections, non-compute entry points)
//
// Example:
//
//	kernelgen.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	shader.SetLogger(l)
	tpl.SetLogger(l)
}

// Logger returns the current logger used by kernelgen.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
