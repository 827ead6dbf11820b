// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl provides a GLSL (OpenGL Shading Language) front end.
//
// It tokenizes and parses GLSL source into a syntax tree that keeps every
// qualifier, declaration and array specifier as written, which is what the
// shaderinfo package needs for reflection. Desktop GLSL up to 4.60 and
// GLSL ES up to 3.20 are accepted.
//
// # Basic Usage
//
//	unit, err := glsl.Parse(source)
//	if err != nil {
//	    var errs glsl.SourceErrors
//	    if errors.As(err, &errs) {
//	        fmt.Println(errs.FormatAll())
//	    }
//	    return err
//	}
//
//	glsl.Inspect(unit, func(n glsl.Node) bool {
//	    if d, ok := n.(*glsl.VersionDirective); ok {
//	        fmt.Println(d.Version, d.Profile)
//	    }
//	    return true
//	})
//
// # Preprocessor
//
// Preprocessor lines become directive declarations in the tree. #version
// and #extension are decoded; every other directive is recorded verbatim
// and never evaluated, so both arms of an #ifdef are parsed. Macros are
// not expanded.
//
// # Keywords
//
// The keyword and reserved-word tables are the union over all versions and
// do not depend on the #version directive. Words that became keywords in a
// later version, such as sample, patch or subroutine (4.00), are rejected
// as identifiers even in a #version 330 shader.
//
// # Errors
//
// Lexical errors stop tokenization. The parser recovers at declaration
// boundaries and reports every syntax error it finds as SourceErrors; each
// SourceError records the Stage that produced it. Expressions, statements,
// initializer lists and struct specifiers nested more than 1024 levels deep
// are reported as an error instead of being parsed.
package glsl
