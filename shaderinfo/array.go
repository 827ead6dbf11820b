// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shaderinfo

import (
	"strconv"
	"strings"

	"github.com/gogpu/glslinfo/glsl"
)

// ArrayKind says whether a declaration is an array and, if so, whether its
// size is known.
type ArrayKind uint8

const (
	// ArrayNone means not an array, or an array this package cannot size.
	ArrayNone ArrayKind = iota
	// ArrayUnsized is a runtime-sized array: "x[]".
	ArrayUnsized
	// ArrayFixed is an array sized by an integer literal: "x[4]".
	ArrayFixed
)

var arrayKindNames = [...]string{
	ArrayNone:    "none",
	ArrayUnsized: "unsized",
	ArrayFixed:   "fixed",
}

func (k ArrayKind) String() string {
	if int(k) < len(arrayKindNames) {
		return arrayKindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k ArrayKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ArrayDimension is the resolved array shape of a declaration. Size is
// meaningful only for ArrayFixed.
type ArrayDimension struct {
	Kind ArrayKind `json:"kind" yaml:"kind"`
	Size uint32    `json:"size,omitempty" yaml:"size,omitempty"`
}

// Unsized returns the dimension of a runtime-sized array.
func Unsized() ArrayDimension {
	return ArrayDimension{Kind: ArrayUnsized}
}

// Fixed returns the dimension of an array of n elements.
func Fixed(n uint32) ArrayDimension {
	return ArrayDimension{Kind: ArrayFixed, Size: n}
}

// IsArray reports whether the dimension describes an array.
func (d ArrayDimension) IsArray() bool {
	return d.Kind != ArrayNone
}

// String renders the dimension as a source suffix: "", "[]" or "[n]".
func (d ArrayDimension) String() string {
	switch d.Kind {
	case ArrayUnsized:
		return "[]"
	case ArrayFixed:
		return "[" + strconv.FormatUint(uint64(d.Size), 10) + "]"
	default:
		return ""
	}
}

// ResolveArray maps an array specifier to a dimension. A nil specifier, more
// than one dimension, or a size that is not an integer literal all resolve
// to ArrayNone.
func ResolveArray(spec *glsl.ArraySpecifier) ArrayDimension {
	dim, _ := resolveArray(spec)
	return dim
}

// resolveArray is ResolveArray plus the reason a present specifier could not
// be resolved, empty when it could.
func resolveArray(spec *glsl.ArraySpecifier) (ArrayDimension, string) {
	if spec == nil || len(spec.Dimensions) == 0 {
		return ArrayDimension{}, ""
	}
	if len(spec.Dimensions) > 1 {
		return ArrayDimension{}, "multi-dimensional arrays are not supported"
	}

	size := spec.Dimensions[0].Size
	if size == nil {
		return Unsized(), ""
	}

	lit, ok := size.(*glsl.Literal)
	if !ok || (lit.Kind != glsl.TokenIntLiteral && lit.Kind != glsl.TokenUintLiteral) {
		return ArrayDimension{}, "array size is not an integer literal"
	}

	n, err := strconv.ParseUint(strings.TrimRight(lit.Value, "uU"), 0, 32)
	if err != nil {
		return ArrayDimension{}, "array size " + lit.Value + " is not a valid 32-bit unsigned integer"
	}
	return Fixed(uint32(n)), ""
}
