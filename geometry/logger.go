// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package geometry

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() { loggerPtr.Store(slog.New(nopHandler{})) }

// SetLogger sets the logger used by the package.
// By default nothing is logged. Passing nil restores the
// default.
//
// Debug records describe buffer layouts and GPU resource
// lifetimes.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

func logger() *slog.Logger { return loggerPtr.Load() }
