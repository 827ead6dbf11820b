// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shaderinfo extracts a reflection of a parsed GLSL program: the
// declared version, every global variable, every interface block with its
// fields, and the split of variables into inputs, outputs and uniforms.
//
// # Basic Usage
//
//	unit, err := glsl.Parse(source)
//	if err != nil {
//	    return err
//	}
//	info := shaderinfo.Reflect(unit)
//	fmt.Println(info.InputNames())
//	_ = info.WriteReport(os.Stdout)
//
// # Classification
//
// A variable is an input, output or uniform when its storage qualifier is
// exactly in, out or uniform. Every other storage (const, inout, buffer,
// shared, attribute, varying, none) leaves it unclassified. Auxiliary
// qualifiers such as centroid are not storage, so "centroid in" is an input.
//
// # Arrays
//
// Only single-dimension arrays sized by an integer literal, or unsized, are
// resolved. Multi-dimensional arrays and sizes given by any other
// expression are reported as not being arrays, and a debug record is logged.
//
// # Blocks
//
// Interface blocks are reported in Blocks. A block with an instance name
// also yields a variable of the block's type. Members of an anonymous block
// are promoted to variables unless Options.FlattenAnonymousBlocks is false.
//
// Declarations inside function bodies are never reflected.
package shaderinfo
