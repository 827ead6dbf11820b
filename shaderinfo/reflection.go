// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shaderinfo

import (
	"github.com/gogpu/glslinfo/glsl"
)

// InterfaceRole is the part a variable plays in the shader interface.
type InterfaceRole uint8

const (
	RoleUnclassified InterfaceRole = iota
	RoleInput
	RoleOutput
	RoleUniform
)

var roleNames = [...]string{
	RoleUnclassified: "unclassified",
	RoleInput:        "input",
	RoleOutput:       "output",
	RoleUniform:      "uniform",
}

func (r InterfaceRole) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (r InterfaceRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// roleOf classifies a storage qualifier. Only in, out and uniform map to a
// role.
func roleOf(s glsl.Storage) InterfaceRole {
	switch s {
	case glsl.StorageIn:
		return RoleInput
	case glsl.StorageOut:
		return RoleOutput
	case glsl.StorageUniform:
		return RoleUniform
	default:
		return RoleUnclassified
	}
}

// VariableDescriptor describes one declared variable.
type VariableDescriptor struct {
	Name          string             `json:"name" yaml:"name"`
	Storage       glsl.Storage       `json:"storage,omitempty" yaml:"storage,omitempty"`
	Interpolation glsl.Interpolation `json:"interpolation,omitempty" yaml:"interpolation,omitempty"`
	TypeName      string             `json:"type_name" yaml:"type_name"`
	Array         ArrayDimension     `json:"array,omitzero" yaml:"array,omitempty"`
	Role          InterfaceRole      `json:"role" yaml:"role"`

	// Block names the anonymous block a promoted member came from.
	Block string `json:"block,omitempty" yaml:"block,omitempty"`
}

// FieldDescriptor describes one member of an interface block.
type FieldDescriptor struct {
	Name     string         `json:"name" yaml:"name"`
	TypeName string         `json:"type_name" yaml:"type_name"`
	Array    ArrayDimension `json:"array,omitzero" yaml:"array,omitempty"`
}

// BlockDescriptor describes an interface block and its members in
// declaration order.
type BlockDescriptor struct {
	Name   string            `json:"name" yaml:"name"`
	Fields []FieldDescriptor `json:"fields" yaml:"fields"`
}

// ShaderReflection is the reflected interface of one GLSL program. Every
// sequence keeps declaration order. Inputs, Outputs and Uniforms are the
// classified subsets of Variables.
type ShaderReflection struct {
	Version       int                  `json:"version" yaml:"version"`
	VersionString string               `json:"version_string" yaml:"version_string"`
	Variables     []VariableDescriptor `json:"variables" yaml:"variables"`
	Blocks        []BlockDescriptor    `json:"blocks" yaml:"blocks"`
	Inputs        []VariableDescriptor `json:"inputs" yaml:"inputs"`
	Outputs       []VariableDescriptor `json:"outputs" yaml:"outputs"`
	Uniforms      []VariableDescriptor `json:"uniforms" yaml:"uniforms"`
}

func newShaderReflection() *ShaderReflection {
	return &ShaderReflection{
		Variables: []VariableDescriptor{},
		Blocks:    []BlockDescriptor{},
		Inputs:    []VariableDescriptor{},
		Outputs:   []VariableDescriptor{},
		Uniforms:  []VariableDescriptor{},
	}
}

// named is implemented by every descriptor kind.
type named interface {
	name() string
}

func (v VariableDescriptor) name() string { return v.Name }
func (f FieldDescriptor) name() string    { return f.Name }
func (b BlockDescriptor) name() string    { return b.Name }

func namesOf[T named](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.name()
	}
	return out
}

// VariableNames returns the names of all variables.
func (s *ShaderReflection) VariableNames() []string { return namesOf(s.Variables) }

// InputNames returns the names of all inputs.
func (s *ShaderReflection) InputNames() []string { return namesOf(s.Inputs) }

// OutputNames returns the names of all outputs.
func (s *ShaderReflection) OutputNames() []string { return namesOf(s.Outputs) }

// UniformNames returns the names of all uniforms.
func (s *ShaderReflection) UniformNames() []string { return namesOf(s.Uniforms) }

// BlockNames returns the names of all interface blocks.
func (s *ShaderReflection) BlockNames() []string { return namesOf(s.Blocks) }

// FieldNames returns the member names of the block.
func (b BlockDescriptor) FieldNames() []string { return namesOf(b.Fields) }

// BlockByName returns the first block with the given name.
func (s *ShaderReflection) BlockByName(name string) (BlockDescriptor, bool) {
	for _, b := range s.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return BlockDescriptor{}, false
}

// VariableByName returns the first variable with the given name.
func (s *ShaderReflection) VariableByName(name string) (VariableDescriptor, bool) {
	for _, v := range s.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return VariableDescriptor{}, false
}

// Pluralize returns label for a count of one and label+"s" otherwise.
func Pluralize(label string, count int) string {
	if count == 1 {
		return label
	}
	return label + "s"
}
