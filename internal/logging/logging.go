// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package logging configures slog for the glslinfo command.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
)

// Setup builds a tint handler writing to w at the given level, wraps it so
// attributes stored in a context are included, installs it as the default
// logger and returns ctx carrying it.
func Setup(ctx context.Context, w io.Writer, level slog.Level, color bool) context.Context {
	tintHandler := tint.NewHandler(w, &tint.Options{
		Level:       level,
		TimeFormat:  time.TimeOnly,
		AddSource:   level <= slog.LevelDebug,
		ReplaceAttr: formatErrorStacks,
		NoColor:     !color,
	})

	ctxHandler := slogctx.NewHandler(tintHandler, nil)

	logger := slog.New(ctxHandler)
	slog.SetDefault(logger)

	return slogctx.NewCtx(ctx, logger)
}

// formatErrorStacks expands an "error" attribute carrying a stack trace into
// the error and the location it was created at.
func formatErrorStacks(_ []string, a slog.Attr) slog.Attr {
	if a.Key != "error" {
		return a
	}
	err, ok := a.Value.Any().(error)
	if !ok {
		return a
	}
	var terr errors.E
	if !errors.As(err, &terr) || len(terr.StackTrace()) == 0 {
		return a
	}

	frames := runtime.CallersFrames(terr.StackTrace())
	frame, _ := frames.Next()
	a.Value = slog.GroupValue(
		slog.String("msg", err.Error()),
		slog.String("at", fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)),
	)
	return a
}
