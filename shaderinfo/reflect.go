// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shaderinfo

import (
	"log/slog"
	"strconv"

	"github.com/gogpu/glslinfo/glsl"
)

// Reflect extracts the interface of a parsed program using default options.
func Reflect(unit *glsl.TranslationUnit) *ShaderReflection {
	return ReflectWithOptions(unit, DefaultOptions())
}

// ReflectWithOptions extracts the interface of a parsed program. The tree
// is walked once in lexical order and never modified. A nil unit yields an
// empty reflection.
func ReflectWithOptions(unit *glsl.TranslationUnit, opts Options) *ShaderReflection {
	r := &reflector{
		opts: opts,
		log:  opts.logger(),
		out:  newShaderReflection(),
	}
	if unit != nil {
		glsl.Inspect(unit, r.visit)
	}
	return r.out
}

// reflector accumulates a ShaderReflection during one traversal.
type reflector struct {
	opts Options
	log  *slog.Logger
	out  *ShaderReflection

	sawVersion bool

	// stack holds the nodes whose children are being visited; functions
	// counts the FunctionDefinitions among them.
	stack     []glsl.Node
	functions int
}

func (r *reflector) visit(n glsl.Node) bool {
	if n == nil {
		top := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
		if _, ok := top.(*glsl.FunctionDefinition); ok {
			r.functions--
		}
		return false
	}

	switch d := n.(type) {
	case *glsl.VersionDirective:
		r.version(d)
		return false
	case *glsl.InitDeclaratorList:
		if r.functions == 0 {
			r.declaration(d)
		}
		return false
	case *glsl.BlockDecl:
		if r.functions == 0 {
			r.block(d)
		}
		return false
	case *glsl.FunctionDefinition:
		r.functions++
	}

	r.stack = append(r.stack, n)
	return true
}

func (r *reflector) version(d *glsl.VersionDirective) {
	if r.sawVersion {
		r.log.Debug("ignoring repeated #version directive",
			"decl", "#version "+strconv.Itoa(d.Version),
			"reason", "only the first #version is honored")
		return
	}
	r.sawVersion = true

	r.out.Version = d.Version
	r.out.VersionString = strconv.Itoa(d.Version)
	if d.Profile != glsl.ProfileNone {
		r.out.VersionString += " " + string(d.Profile)
	}
}

// declaration reflects every declarator of a global declaration list.
func (r *reflector) declaration(list *glsl.InitDeclaratorList) {
	head := list.Head
	if head == nil || head.Name == "" {
		var decl string
		if head != nil && head.Type != nil {
			decl = specifierName(head.Type.Type)
		}
		r.log.Debug("skipping declaration", "decl", decl, "reason", "declares no variable")
		return
	}

	q := collectQualifiers(head)
	r.add(VariableDescriptor{
		Name:          head.Name,
		Storage:       q.storage,
		Interpolation: q.interpolation,
		TypeName:      q.typeName,
		Array:         r.array(head.Name, head.Array),
	})

	for _, d := range list.Tail {
		r.add(VariableDescriptor{
			Name:          d.Name,
			Storage:       q.storage,
			Interpolation: q.interpolation,
			TypeName:      q.typeName,
			Array:         r.array(d.Name, d.Array),
		})
	}
}

// block reflects an interface block and the variables it introduces.
func (r *reflector) block(b *glsl.BlockDecl) {
	var q qualifiers
	if b.Qualifier != nil {
		q = collectQualifiers(b.Qualifier)
	}

	desc := BlockDescriptor{Name: b.Name, Fields: make([]FieldDescriptor, 0, len(b.Fields))}
	promoted := make([]VariableDescriptor, 0, len(b.Fields))
	for _, f := range b.Fields {
		field, ok := r.field(b.Name, f)
		if !ok {
			continue
		}
		desc.Fields = append(desc.Fields, field)

		// A member's own interpolation qualifier overrides the block's.
		interp := q.interpolation
		if fq := collectQualifiers(f); fq.interpolation != glsl.InterpolationNone {
			interp = fq.interpolation
		}
		promoted = append(promoted, VariableDescriptor{
			Name:          field.Name,
			Storage:       q.storage,
			Interpolation: interp,
			TypeName:      field.TypeName,
			Array:         field.Array,
			Block:         b.Name,
		})
	}

	switch {
	case b.Instance != nil:
		r.add(VariableDescriptor{
			Name:          b.Instance.Name,
			Storage:       q.storage,
			Interpolation: q.interpolation,
			TypeName:      b.Name,
			Array:         r.array(b.Instance.Name, b.Instance.Array),
		})
	case r.opts.FlattenAnonymousBlocks:
		for _, v := range promoted {
			r.add(v)
		}
	}

	r.out.Blocks = append(r.out.Blocks, desc)
}

// field describes a block member by its first declared identifier.
func (r *reflector) field(block string, f *glsl.StructField) (FieldDescriptor, bool) {
	if len(f.Identifiers) == 0 {
		return FieldDescriptor{}, false
	}
	if len(f.Identifiers) > 1 {
		for _, extra := range f.Identifiers[1:] {
			r.log.Debug("skipping block member",
				"decl", block+"."+extra.Name,
				"reason", "only the first identifier of a member declaration is reflected")
		}
	}

	id := f.Identifiers[0]
	return FieldDescriptor{
		Name:     id.Name,
		TypeName: specifierName(f.Type),
		Array:    r.array(block+"."+id.Name, id.Array),
	}, true
}

func (r *reflector) array(decl string, spec *glsl.ArraySpecifier) ArrayDimension {
	dim, reason := resolveArray(spec)
	if reason != "" {
		r.log.Debug("array dimension not resolved", "decl", decl+spec.String(), "reason", reason)
	}
	return dim
}

// add classifies v and appends it to the variable and role lists.
func (r *reflector) add(v VariableDescriptor) {
	v.Role = roleOf(v.Storage)
	r.out.Variables = append(r.out.Variables, v)

	switch v.Role {
	case RoleInput:
		r.out.Inputs = append(r.out.Inputs, v)
	case RoleOutput:
		r.out.Outputs = append(r.out.Outputs, v)
	case RoleUniform:
		r.out.Uniforms = append(r.out.Uniforms, v)
	}
}

// qualifiers holds what a declaration's qualifier list and type contribute
// to its descriptor.
type qualifiers struct {
	storage       glsl.Storage
	interpolation glsl.Interpolation
	typeName      string
}

// collectQualifiers walks n until it reaches the type specifier. The first
// storage and interpolation qualifiers win; struct members, array sizes and
// initializers are never entered.
func collectQualifiers(n glsl.Node) qualifiers {
	var q qualifiers
	var sawStorage, sawType bool

	glsl.Inspect(n, func(n glsl.Node) bool {
		switch v := n.(type) {
		case *glsl.StorageQualifier:
			if !sawStorage {
				q.storage = v.Storage
				sawStorage = true
			}
			return false
		case *glsl.InterpolationQualifier:
			if q.interpolation == glsl.InterpolationNone {
				q.interpolation = v.Interpolation
			}
			return false
		case *glsl.TypeSpecifier:
			if !sawType {
				q.typeName = v.TypeName()
				sawType = true
			}
			return false
		case *glsl.LayoutQualifier, *glsl.ArraySpecifier, glsl.Expr:
			return false
		}
		return true
	})
	return q
}

func specifierName(ts *glsl.TypeSpecifier) string {
	if ts == nil {
		return ""
	}
	return ts.TypeName()
}
