// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glslinfo reports the interface of GLSL shaders.
//
// It parses GLSL source and reflects its version, global variables,
// interface blocks and the inputs, outputs and uniforms among them.
//
// Example usage:
//
//	info, err := glslinfo.GetInfo(source)
//	if err != nil {
//	    var perr *glslinfo.ParseError
//	    if errors.As(err, &perr) {
//	        fmt.Fprintln(os.Stderr, perr.FormatAll())
//	    }
//	    return err
//	}
//	fmt.Println(info.UniformNames())
//
// For more control, use the individual Parse/Reflect functions or the glsl
// and shaderinfo packages directly:
//
//	unit, err := glslinfo.Parse(source)
//	info := shaderinfo.ReflectWithOptions(unit, shaderinfo.Options{
//	    FlattenAnonymousBlocks: false,
//	})
package glslinfo

import (
	"context"
	"fmt"

	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/gogpu/glslinfo/glsl"
	"github.com/gogpu/glslinfo/shaderinfo"
)

// ParseError reports GLSL source that failed to tokenize or parse. Every
// diagnostic carries a line, a column and the source text.
type ParseError struct {
	Diagnostics glsl.SourceErrors
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Diagnostics.Error())
}

// Unwrap returns the underlying diagnostics.
func (e *ParseError) Unwrap() error {
	return e.Diagnostics
}

// FormatAll renders every diagnostic with its source line and a caret.
func (e *ParseError) FormatAll() string {
	return e.Diagnostics.FormatAll()
}

// Parse parses GLSL source code into a syntax tree. Syntax errors are
// returned as *ParseError.
func Parse(source string) (*glsl.TranslationUnit, error) {
	unit, err := glsl.Parse(source)
	if err != nil {
		var diags glsl.SourceErrors
		if errors.As(err, &diags) {
			return nil, errors.WithStack(&ParseError{Diagnostics: diags})
		}
		return nil, errors.Errorf("parse: %w", err)
	}
	return unit, nil
}

// Reflect extracts the interface of a parsed program with default options.
func Reflect(unit *glsl.TranslationUnit) *shaderinfo.ShaderReflection {
	return shaderinfo.Reflect(unit)
}

// GetInfo parses and reflects source with default options.
func GetInfo(source string) (*shaderinfo.ShaderReflection, error) {
	return GetInfoContext(context.Background(), source, shaderinfo.DefaultOptions())
}

// GetInfoContext parses and reflects source. When opts.Logger is nil, debug
// records go to the logger stored in ctx.
func GetInfoContext(ctx context.Context, source string, opts shaderinfo.Options) (*shaderinfo.ShaderReflection, error) {
	if opts.Logger == nil {
		opts.Logger = slogctx.FromCtx(ctx)
	}

	unit, err := Parse(source)
	if err != nil {
		return nil, err
	}

	info := shaderinfo.ReflectWithOptions(unit, opts)
	opts.Logger.DebugContext(ctx, "reflected shader",
		"version", info.VersionString,
		"variables", len(info.Variables),
		"blocks", len(info.Blocks))
	return info, nil
}
