// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

// keywords maps GLSL keywords to their token kinds.
// Based on GLSL 4.60 and GLSL ES 3.20 specifications.
var keywords = map[string]TokenKind{
	// Statements
	"break":    TokenBreak,
	"case":     TokenCase,
	"continue": TokenContinue,
	"default":  TokenDefault,
	"discard":  TokenDiscard,
	"do":       TokenDo,
	"else":     TokenElse,
	"for":      TokenFor,
	"if":       TokenIf,
	"return":   TokenReturn,
	"struct":   TokenStruct,
	"switch":   TokenSwitch,
	"while":    TokenWhile,

	// Storage
	"const":      TokenConst,
	"in":         TokenIn,
	"out":        TokenOut,
	"inout":      TokenInOut,
	"attribute":  TokenAttribute,
	"varying":    TokenVarying,
	"uniform":    TokenUniform,
	"buffer":     TokenBuffer,
	"shared":     TokenShared,
	"subroutine": TokenSubroutine,

	"centroid": TokenCentroid,
	"sample":   TokenSample,
	"patch":    TokenPatch,

	"flat":          TokenFlat,
	"smooth":        TokenSmooth,
	"noperspective": TokenNoPerspective,

	"coherent":  TokenCoherent,
	"volatile":  TokenVolatile,
	"restrict":  TokenRestrict,
	"readonly":  TokenReadOnly,
	"writeonly": TokenWriteOnly,

	"highp":     TokenHighp,
	"mediump":   TokenMediump,
	"lowp":      TokenLowp,
	"precision": TokenPrecision,

	"layout":    TokenLayout,
	"invariant": TokenInvariant,
	"precise":   TokenPrecise,
}

// keywordSpelling is the reverse of keywords, used for diagnostics.
var keywordSpelling = func() map[TokenKind]string {
	m := make(map[TokenKind]string, len(keywords))
	for word, kind := range keywords {
		m[kind] = word
	}
	return m
}()

// builtinTypes contains every built-in type keyword.
var builtinTypes = map[string]struct{}{
	// Basic types
	"void": {}, "bool": {}, "int": {}, "uint": {}, "float": {}, "double": {},

	// Vector types
	"vec2": {}, "vec3": {}, "vec4": {},
	"ivec2": {}, "ivec3": {}, "ivec4": {},
	"uvec2": {}, "uvec3": {}, "uvec4": {},
	"bvec2": {}, "bvec3": {}, "bvec4": {},
	"dvec2": {}, "dvec3": {}, "dvec4": {},

	// Matrix types
	"mat2": {}, "mat3": {}, "mat4": {},
	"mat2x2": {}, "mat2x3": {}, "mat2x4": {},
	"mat3x2": {}, "mat3x3": {}, "mat3x4": {},
	"mat4x2": {}, "mat4x3": {}, "mat4x4": {},
	"dmat2": {}, "dmat3": {}, "dmat4": {},
	"dmat2x2": {}, "dmat2x3": {}, "dmat2x4": {},
	"dmat3x2": {}, "dmat3x3": {}, "dmat3x4": {},
	"dmat4x2": {}, "dmat4x3": {}, "dmat4x4": {},

	// Sampler types
	"sampler": {}, "samplerShadow": {},
	"sampler1D": {}, "sampler2D": {}, "sampler3D": {},
	"samplerCube": {}, "sampler2DRect": {},
	"sampler1DShadow": {}, "sampler2DShadow": {}, "samplerCubeShadow": {}, "sampler2DRectShadow": {},
	"sampler1DArray": {}, "sampler2DArray": {},
	"sampler1DArrayShadow": {}, "sampler2DArrayShadow": {},
	"samplerCubeArray": {}, "samplerCubeArrayShadow": {},
	"samplerBuffer": {}, "sampler2DMS": {}, "sampler2DMSArray": {},
	"samplerExternalOES": {},

	// Integer sampler types
	"isampler1D": {}, "isampler2D": {}, "isampler3D": {},
	"isamplerCube": {}, "isampler2DRect": {},
	"isampler1DArray": {}, "isampler2DArray": {},
	"isamplerCubeArray": {},
	"isamplerBuffer":    {}, "isampler2DMS": {}, "isampler2DMSArray": {},

	// Unsigned integer sampler types
	"usampler1D": {}, "usampler2D": {}, "usampler3D": {},
	"usamplerCube": {}, "usampler2DRect": {},
	"usampler1DArray": {}, "usampler2DArray": {},
	"usamplerCubeArray": {},
	"usamplerBuffer":    {}, "usampler2DMS": {}, "usampler2DMSArray": {},

	// Texture types (Vulkan GLSL)
	"texture1D": {}, "texture2D": {}, "texture3D": {}, "textureCube": {},
	"texture2DArray": {}, "textureBuffer": {}, "texture2DMS": {},
	"subpassInput": {}, "subpassInputMS": {},

	// Image types
	"image1D": {}, "image2D": {}, "image3D": {},
	"imageCube": {}, "image2DRect": {},
	"image1DArray": {}, "image2DArray": {},
	"imageCubeArray": {},
	"imageBuffer":    {}, "image2DMS": {}, "image2DMSArray": {},
	"iimage1D": {}, "iimage2D": {}, "iimage3D": {},
	"iimageCube": {}, "iimage2DRect": {},
	"iimage1DArray": {}, "iimage2DArray": {},
	"iimageCubeArray": {},
	"iimageBuffer":    {}, "iimage2DMS": {}, "iimage2DMSArray": {},
	"uimage1D": {}, "uimage2D": {}, "uimage3D": {},
	"uimageCube": {}, "uimage2DRect": {},
	"uimage1DArray": {}, "uimage2DArray": {},
	"uimageCubeArray": {},
	"uimageBuffer":    {}, "uimage2DMS": {}, "uimage2DMSArray": {},

	// Atomic counter types
	"atomic_uint": {},
}

// reservedWords are reserved for future use and may not appear in a program.
var reservedWords = map[string]struct{}{
	"common": {}, "partition": {}, "active": {},
	"asm": {}, "class": {}, "union": {}, "enum": {}, "typedef": {}, "template": {}, "this": {},
	"resource": {},
	"goto":     {},
	"inline":   {}, "noinline": {}, "public": {}, "static": {}, "extern": {}, "external": {}, "interface": {},
	"long": {}, "short": {}, "half": {}, "fixed": {}, "unsigned": {}, "superp": {},
	"input": {}, "output": {},
	"hvec2": {}, "hvec3": {}, "hvec4": {}, "fvec2": {}, "fvec3": {}, "fvec4": {},
	"sampler3DRect": {},
	"filter":        {},
	"sizeof":        {}, "cast": {},
	"namespace": {}, "using": {},
}

// IsBuiltinType reports whether name is a built-in type keyword.
func IsBuiltinType(name string) bool {
	_, ok := builtinTypes[name]
	return ok
}

func isReserved(name string) bool {
	_, ok := reservedWords[name]
	return ok
}

// isQualifierKeyword reports whether kind starts a type qualifier.
func isQualifierKeyword(kind TokenKind) bool {
	return kind >= TokenConst && kind <= TokenPrecise && kind != TokenPrecision
}
