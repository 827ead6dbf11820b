// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to parse source code
func parseSource(t *testing.T, source string) *TranslationUnit {
	t.Helper()
	unit, err := Parse(source)
	require.NoError(t, err)
	require.NotNil(t, unit)
	return unit
}

// Helper function to parse a single declaration of the expected type.
func parseDecl[T Decl](t *testing.T, source string) T {
	t.Helper()
	unit := parseSource(t, source)
	require.Len(t, unit.Decls, 1)
	decl, ok := unit.Decls[0].(T)
	require.Truef(t, ok, "unexpected declaration type %T", unit.Decls[0])
	return decl
}

func TestParseVersionDirective(t *testing.T) {
	tests := []struct {
		source  string
		version int
		profile Profile
	}{
		{"#version 450", 450, ProfileNone},
		{"#version 330 core", 330, ProfileCore},
		{"#version 300 es", 300, ProfileES},
		{"#version 150 compatibility // legacy", 150, ProfileCompatibility},
		{"  #  version   460   core  ", 460, ProfileCore},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			d := parseDecl[*VersionDirective](t, tt.source)
			assert.Equal(t, tt.version, d.Version)
			assert.Equal(t, tt.profile, d.Profile)
		})
	}
}

func TestParseVersionDirectiveErrors(t *testing.T) {
	for _, source := range []string{
		"#version",
		"#version abc",
		"#version 450 desktop",
		"#version 450 core extra",
	} {
		t.Run(source, func(t *testing.T) {
			_, err := Parse(source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "#version")
		})
	}
}

func TestParseOtherDirectives(t *testing.T) {
	unit := parseSource(t, `#extension GL_ARB_separate_shader_objects : enable
#define LIGHTS 4 // count
#pragma optimize(off)
#
`)
	require.Len(t, unit.Decls, 4)

	ext, ok := unit.Decls[0].(*ExtensionDirective)
	require.True(t, ok)
	assert.Equal(t, "GL_ARB_separate_shader_objects", ext.Name)
	assert.Equal(t, "enable", ext.Behavior)

	def, ok := unit.Decls[1].(*PreprocessorDirective)
	require.True(t, ok)
	assert.Equal(t, "define", def.Name)
	assert.Equal(t, "LIGHTS 4", def.Text)

	pragma, ok := unit.Decls[2].(*PreprocessorDirective)
	require.True(t, ok)
	assert.Equal(t, "pragma", pragma.Name)
	assert.Equal(t, "optimize(off)", pragma.Text)

	null, ok := unit.Decls[3].(*PreprocessorDirective)
	require.True(t, ok)
	assert.Empty(t, null.Name)
}

func TestParseDeclarationList(t *testing.T) {
	list := parseDecl[*InitDeclaratorList](t, "uniform float a, b[4], c = 1.0;")

	require.NotNil(t, list.Head)
	assert.Equal(t, "a", list.Head.Name)
	assert.Nil(t, list.Head.Array)
	assert.Equal(t, "float", list.Head.Type.Type.Name)

	require.Len(t, list.Head.Type.Qualifier.Qualifiers, 1)
	storage, ok := list.Head.Type.Qualifier.Qualifiers[0].(*StorageQualifier)
	require.True(t, ok)
	assert.Equal(t, StorageUniform, storage.Storage)

	require.Len(t, list.Tail, 2)
	assert.Equal(t, "b", list.Tail[0].Name)
	require.NotNil(t, list.Tail[0].Array)
	assert.Equal(t, "[4]", list.Tail[0].Array.String())
	assert.Equal(t, "c", list.Tail[1].Name)
	assert.IsType(t, &Literal{}, list.Tail[1].Init)
}

func TestParseLayoutQualifier(t *testing.T) {
	list := parseDecl[*InitDeclaratorList](t, "layout(location = 0, std430) flat in ivec2 id;")

	quals := list.Head.Type.Qualifier.Qualifiers
	require.Len(t, quals, 3)

	layout, ok := quals[0].(*LayoutQualifier)
	require.True(t, ok)
	require.Len(t, layout.Params, 2)
	assert.Equal(t, "location", layout.Params[0].Name)
	lit, ok := layout.Params[0].Value.(*Literal)
	require.True(t, ok)
	assert.Equal(t, "0", lit.Value)
	assert.Equal(t, "std430", layout.Params[1].Name)
	assert.Nil(t, layout.Params[1].Value)

	interp, ok := quals[1].(*InterpolationQualifier)
	require.True(t, ok)
	assert.Equal(t, InterpolationFlat, interp.Interpolation)

	storage, ok := quals[2].(*StorageQualifier)
	require.True(t, ok)
	assert.Equal(t, StorageIn, storage.Storage)
}

func TestParseLayoutKeywordParam(t *testing.T) {
	block := parseDecl[*BlockDecl](t, "layout(shared, binding = 2) uniform Data { vec4 v; };")
	layout, ok := block.Qualifier.Qualifiers[0].(*LayoutQualifier)
	require.True(t, ok)
	require.Len(t, layout.Params, 2)
	assert.Equal(t, "shared", layout.Params[0].Name)
	assert.Equal(t, "binding", layout.Params[1].Name)
}

func TestParseSubroutineQualifier(t *testing.T) {
	list := parseDecl[*InitDeclaratorList](t, "subroutine(Shade, Light) uniform vec4 pick;")
	storage, ok := list.Head.Type.Qualifier.Qualifiers[0].(*StorageQualifier)
	require.True(t, ok)
	assert.Equal(t, StorageSubroutine, storage.Storage)
	assert.Equal(t, []string{"Shade", "Light"}, storage.TypeNames)
}

func TestParseInterfaceBlock(t *testing.T) {
	block := parseDecl[*BlockDecl](t, `layout(std140) uniform Matrices {
    mat4 projection;
    mat4 view, model;
    vec4 colors[3];
} mats[2];`)

	assert.Equal(t, "Matrices", block.Name)
	require.Len(t, block.Fields, 3)
	assert.Equal(t, "mat4", block.Fields[0].Type.Name)
	require.Len(t, block.Fields[1].Identifiers, 2)
	assert.Equal(t, "model", block.Fields[1].Identifiers[1].Name)
	assert.Equal(t, "[3]", block.Fields[2].Identifiers[0].Array.String())

	require.NotNil(t, block.Instance)
	assert.Equal(t, "mats", block.Instance.Name)
	assert.Equal(t, "[2]", block.Instance.Array.String())
}

func TestParseAnonymousBlock(t *testing.T) {
	block := parseDecl[*BlockDecl](t, "out gl_PerVertex { vec4 gl_Position; float gl_PointSize; };")
	assert.Equal(t, "gl_PerVertex", block.Name)
	assert.Len(t, block.Fields, 2)
	assert.Nil(t, block.Instance)
}

func TestParseQualifierDeclarations(t *testing.T) {
	unit := parseSource(t, "layout(local_size_x = 64) in;\ninvariant gl_Position, gl_PointSize;")
	require.Len(t, unit.Decls, 2)

	local, ok := unit.Decls[0].(*QualifierDecl)
	require.True(t, ok)
	assert.Empty(t, local.Identifiers)

	inv, ok := unit.Decls[1].(*QualifierDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"gl_Position", "gl_PointSize"}, inv.Identifiers)
	assert.IsType(t, &InvariantQualifier{}, inv.Qualifier.Qualifiers[0])
}

func TestParseStructDeclarations(t *testing.T) {
	unit := parseSource(t, `struct Light {
    vec3 position;
    float radius;
};
uniform Light lights[4];
struct { int a; } anon;`)
	require.Len(t, unit.Decls, 3)

	def, ok := unit.Decls[0].(*InitDeclaratorList)
	require.True(t, ok)
	assert.Empty(t, def.Head.Name)
	require.NotNil(t, def.Head.Type.Type.Struct)
	assert.Equal(t, "Light", def.Head.Type.Type.Struct.Name)
	assert.Len(t, def.Head.Type.Type.Struct.Fields, 2)
	assert.Equal(t, "struct Light", def.Head.Type.Type.TypeName())

	use, ok := unit.Decls[1].(*InitDeclaratorList)
	require.True(t, ok)
	assert.Equal(t, "Light", use.Head.Type.Type.Name)
	assert.Equal(t, "lights", use.Head.Name)
	assert.Equal(t, "[4]", use.Head.Array.String())

	anon, ok := unit.Decls[2].(*InitDeclaratorList)
	require.True(t, ok)
	assert.Equal(t, "anon", anon.Head.Name)
	assert.Equal(t, "struct", anon.Head.Type.Type.TypeName())
}

func TestParseArrayOnType(t *testing.T) {
	list := parseDecl[*InitDeclaratorList](t, "uniform float[3] weights[2];")
	assert.Equal(t, "float[3]", list.Head.Type.Type.String())
	assert.Equal(t, "float", list.Head.Type.Type.TypeName())
	assert.Equal(t, "[2]", list.Head.Array.String())
}

func TestParseUnsizedAndMultiDimArrays(t *testing.T) {
	unit := parseSource(t, "buffer Data { float values[]; };\nuniform mat4 grid[2][3];")
	require.Len(t, unit.Decls, 2)

	block, ok := unit.Decls[0].(*BlockDecl)
	require.True(t, ok)
	arr := block.Fields[0].Identifiers[0].Array
	require.Len(t, arr.Dimensions, 1)
	assert.Nil(t, arr.Dimensions[0].Size)
	assert.Equal(t, "[]", arr.String())

	list, ok := unit.Decls[1].(*InitDeclaratorList)
	require.True(t, ok)
	assert.Len(t, list.Head.Array.Dimensions, 2)
	assert.Equal(t, "[2][3]", list.Head.Array.String())
}

func TestParsePrecisionDecl(t *testing.T) {
	d := parseDecl[*PrecisionDecl](t, "precision mediump float;")
	assert.Equal(t, PrecisionMedium, d.Precision)
	assert.Equal(t, "float", d.Type.Name)
}

func TestParseFunctionPrototype(t *testing.T) {
	proto := parseDecl[*FunctionPrototype](t, "float attenuate(in float dist, const vec2 range[2], float);")
	assert.Equal(t, "attenuate", proto.Name)
	assert.Equal(t, "float", proto.ReturnType.Type.Name)
	require.Len(t, proto.Params, 3)
	assert.Equal(t, "dist", proto.Params[0].Name)
	assert.Equal(t, "[2]", proto.Params[1].Array.String())
	assert.Empty(t, proto.Params[2].Name)
}

func TestParseFunctionVoidParams(t *testing.T) {
	fn := parseDecl[*FunctionDefinition](t, "void main(void) { }")
	assert.Empty(t, fn.Prototype.Params)
	assert.Empty(t, fn.Body.Stmts)
}

func TestParseFunctionBody(t *testing.T) {
	fn := parseDecl[*FunctionDefinition](t, `void main() {
    vec4 color = texture(tex, uv);
    for (int i = 0; i < 4; ++i) {
        color.rgb += lights[i].color * 0.25;
    }
    if (color.a < 0.5) discard; else color.a = 1.0;
    int n = 0;
    while (n < 3) n++;
    do { n--; } while (n > 0);
    switch (n) {
    case 0:
        break;
    default:
        n = 1;
    }
    fragColor = color;
    return;
}`)

	assert.Equal(t, "main", fn.Prototype.Name)
	stmts := fn.Body.Stmts
	require.Len(t, stmts, 9)

	assert.IsType(t, &DeclStmt{}, stmts[0])
	loop, ok := stmts[1].(*ForStmt)
	require.True(t, ok)
	assert.IsType(t, &DeclStmt{}, loop.Init)
	assert.NotNil(t, loop.Condition)
	assert.NotNil(t, loop.Update)

	cond, ok := stmts[2].(*IfStmt)
	require.True(t, ok)
	assert.IsType(t, &DiscardStmt{}, cond.Then)
	assert.IsType(t, &ExprStmt{}, cond.Else)

	assert.IsType(t, &DeclStmt{}, stmts[3])
	assert.IsType(t, &WhileStmt{}, stmts[4])
	assert.IsType(t, &DoStmt{}, stmts[5])

	sw, ok := stmts[6].(*SwitchStmt)
	require.True(t, ok)
	require.Len(t, sw.Body, 4)
	assert.IsType(t, &CaseLabel{}, sw.Body[0])
	assert.IsType(t, &BreakStmt{}, sw.Body[1])
	assert.Nil(t, sw.Body[2].(*CaseLabel).Value)

	assert.IsType(t, &ExprStmt{}, stmts[7])
	ret, ok := stmts[8].(*ReturnStmt)
	require.True(t, ok)
	assert.Nil(t, ret.Value)
}

func TestParseDeclarationVersusExpression(t *testing.T) {
	fn := parseDecl[*FunctionDefinition](t, `void f() {
    Light l;
    l.position = vec3(1.0);
    float arr[2];
    arr[0] = 1.0;
    Light[2] pair;
    float[2](1.0, 2.0);
    const int k = 3;
}`)

	stmts := fn.Body.Stmts
	require.Len(t, stmts, 7)
	assert.IsType(t, &DeclStmt{}, stmts[0])
	assert.IsType(t, &ExprStmt{}, stmts[1])
	assert.IsType(t, &DeclStmt{}, stmts[2])
	assert.IsType(t, &ExprStmt{}, stmts[3])
	assert.IsType(t, &DeclStmt{}, stmts[4])
	assert.IsType(t, &ExprStmt{}, stmts[5])
	assert.IsType(t, &DeclStmt{}, stmts[6])

	call, ok := stmts[5].(*ExprStmt).Expr.(*CallExpr)
	require.True(t, ok)
	ctor, ok := call.Func.(*TypeExpr)
	require.True(t, ok)
	assert.Equal(t, "float[2]", ctor.Type.String())
	assert.Len(t, call.Args, 2)
}

func TestParseExpressionPrecedence(t *testing.T) {
	list := parseDecl[*InitDeclaratorList](t, "const int x = 1 + 2 * 3 << 1;")

	shift, ok := list.Head.Init.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, TokenLessLess, shift.Op)

	sum, ok := shift.Left.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, TokenPlus, sum.Op)

	product, ok := sum.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, TokenStar, product.Op)
}

func TestParseTernaryAndAssignment(t *testing.T) {
	fn := parseDecl[*FunctionDefinition](t, "void f() { a = b = c > 0 ? -c : c; }")

	stmt, ok := fn.Body.Stmts[0].(*ExprStmt)
	require.True(t, ok)
	outer, ok := stmt.Expr.(*AssignExpr)
	require.True(t, ok)
	inner, ok := outer.Right.(*AssignExpr)
	require.True(t, ok)
	ternary, ok := inner.Right.(*TernaryExpr)
	require.True(t, ok)
	neg, ok := ternary.Then.(*UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, TokenMinus, neg.Op)
	assert.False(t, neg.Postfix)
}

func TestParseInitializerList(t *testing.T) {
	list := parseDecl[*InitDeclaratorList](t, "const float w[3] = { 0.25, 0.5, 0.25, };")
	init, ok := list.Head.Init.(*InitializerList)
	require.True(t, ok)
	assert.Len(t, init.Items, 3)
}

func TestParseDirectivesInsideBodies(t *testing.T) {
	unit := parseSource(t, `uniform Params {
#ifdef HDR
    float exposure;
#endif
    float gamma;
};
void main() {
#ifdef HDR
    gl_FragColor = vec4(1.0);
#endif
}`)
	require.Len(t, unit.Decls, 2)

	block, ok := unit.Decls[0].(*BlockDecl)
	require.True(t, ok)
	assert.Len(t, block.Fields, 2)

	fn, ok := unit.Decls[1].(*FunctionDefinition)
	require.True(t, ok)
	require.Len(t, fn.Body.Stmts, 3)
	ds, ok := fn.Body.Stmts[0].(*DeclStmt)
	require.True(t, ok)
	assert.IsType(t, &PreprocessorDirective{}, ds.Decl)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"missing semicolon", "uniform vec4 color\nvoid main() {}", "expected ';'"},
		{"missing type", "uniform = 3;", "expected type"},
		{"bad expression", "float x = ;", "unexpected \";\" in expression"},
		{"unclosed block", "uniform B { vec4 a;", "expected '}'"},
		{"nested function", "void f() { void g() {} }", "cannot be defined inside another function"},
		{"version-independent keyword", "#version 330\nvoid main() { float sample = 1.0; }", "expected identifier after type float"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			require.Error(t, err)

			var errs SourceErrors
			require.ErrorAs(t, err, &errs)
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Message, tt.message)
			assert.Equal(t, tt.source, errs[0].Source)
		})
	}
}

func TestParseRecoversAfterErrors(t *testing.T) {
	source := "float a = ;\nfloat b = ;\nvec4 ok;\n"
	tokens, err := NewLexer(source).Tokenize()
	require.NoError(t, err)

	unit, err := NewParser(tokens).Parse()
	require.Error(t, err)

	var errs SourceErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	assert.Equal(t, 1, errs[0].Span.Start.Line)
	assert.Equal(t, 2, errs[1].Span.Start.Line)

	require.Len(t, unit.Decls, 1)
	list, ok := unit.Decls[0].(*InitDeclaratorList)
	require.True(t, ok)
	assert.Equal(t, "ok", list.Head.Name)
}

func TestParseRecoversAfterBrokenFunction(t *testing.T) {
	source := "void f() {\n    x = ;\n}\nuniform float after;\n"
	tokens, err := NewLexer(source).Tokenize()
	require.NoError(t, err)

	unit, err := NewParser(tokens).Parse()
	require.Error(t, err)
	require.Len(t, unit.Decls, 1)
	list, ok := unit.Decls[0].(*InitDeclaratorList)
	require.True(t, ok)
	assert.Equal(t, "after", list.Head.Name)
}

func TestParseNestingLimit(t *testing.T) {
	const n = 100_000
	tests := []struct {
		name   string
		source string
	}{
		{"parentheses", "float x = " + strings.Repeat("(", n) + "1.0" + strings.Repeat(")", n) + ";"},
		{"prefix operators", "bool b = " + strings.Repeat("!", n) + "c;"},
		{"assignments", "void main() { " + strings.Repeat("a = ", n) + "1; }"},
		{"blocks", "void main() " + strings.Repeat("{", n) + strings.Repeat("}", n)},
		{"initializer lists", "float x[1] = " + strings.Repeat("{", n) + "1.0" + strings.Repeat("}", n) + ";"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := tt.source + "\nuniform float after;\n"
			tokens, err := NewLexer(source).Tokenize()
			require.NoError(t, err)

			unit, err := NewParser(tokens).Parse()
			require.Error(t, err)

			var errs SourceErrors
			require.ErrorAs(t, err, &errs)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Message, "nesting too deep")

			require.Len(t, unit.Decls, 1)
			list, ok := unit.Decls[0].(*InitDeclaratorList)
			require.True(t, ok)
			assert.Equal(t, "after", list.Head.Name)
		})
	}
}

func TestParseNestingBelowLimit(t *testing.T) {
	source := "float x = " + strings.Repeat("(", 200) + "1.0" + strings.Repeat(")", 200) + ";\n" +
		"void main() " + strings.Repeat("{", 200) + strings.Repeat("}", 200)
	unit := parseSource(t, source)
	require.Len(t, unit.Decls, 2)
}
