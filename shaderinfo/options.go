// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shaderinfo

import "log/slog"

// Options configures reflection.
type Options struct {
	// FlattenAnonymousBlocks promotes the members of blocks without an
	// instance name to top-level variables (default: true).
	FlattenAnonymousBlocks bool

	// Logger receives debug records for skipped or degraded declarations.
	// Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		FlattenAnonymousBlocks: true,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
