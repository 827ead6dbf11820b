// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shaderinfo

import (
	"fmt"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// String returns a one-line summary such as
// "GLSL 450 core (2 inputs, 1 output, 3 uniforms)".
func (s *ShaderReflection) String() string {
	return fmt.Sprintf("GLSL %s (%d %s, %d %s, %d %s)",
		s.versionLabel(),
		len(s.Inputs), Pluralize("input", len(s.Inputs)),
		len(s.Outputs), Pluralize("output", len(s.Outputs)),
		len(s.Uniforms), Pluralize("uniform", len(s.Uniforms)),
	)
}

func (s *ShaderReflection) versionLabel() string {
	if s.VersionString == "" {
		return "unknown"
	}
	return s.VersionString
}

// String renders the variable as a declaration:
// "[interpolation ][storage ]type name[array]".
func (v VariableDescriptor) String() string {
	var sb strings.Builder
	if v.Interpolation != "" {
		sb.WriteString(string(v.Interpolation))
		sb.WriteByte(' ')
	}
	if v.Storage.String() != "" {
		sb.WriteString(v.Storage.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(v.TypeName)
	sb.WriteByte(' ')
	sb.WriteString(v.Name)
	sb.WriteString(v.Array.String())
	return sb.String()
}

// String renders the field as "type name[array]".
func (f FieldDescriptor) String() string {
	return f.TypeName + " " + f.Name + f.Array.String()
}

// WriteReport writes the human-readable report: the version, then for
// variables, blocks, inputs, outputs and uniforms a count line, the
// comma-separated names and one line per item.
func (s *ShaderReflection) WriteReport(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "version: %s\n", s.versionLabel())

	writeVariables(&sb, "variable", s.Variables)

	fmt.Fprintf(&sb, "%d %s declared\n", len(s.Blocks), Pluralize("block", len(s.Blocks)))
	if len(s.Blocks) > 0 {
		fmt.Fprintf(&sb, "--> %s\n", strings.Join(s.BlockNames(), ", "))
		for _, b := range s.Blocks {
			fmt.Fprintf(&sb, "    %s (%d %s)\n", b.Name, len(b.Fields), Pluralize("field", len(b.Fields)))
			for _, f := range b.Fields {
				fmt.Fprintf(&sb, "        %s\n", f)
			}
		}
	}

	writeVariables(&sb, "input", s.Inputs)
	writeVariables(&sb, "output", s.Outputs)
	writeVariables(&sb, "uniform", s.Uniforms)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func writeVariables(sb *strings.Builder, label string, vars []VariableDescriptor) {
	fmt.Fprintf(sb, "%d %s declared\n", len(vars), Pluralize(label, len(vars)))
	if len(vars) == 0 {
		return
	}
	fmt.Fprintf(sb, "--> %s\n", strings.Join(namesOf(vars), ", "))
	for _, v := range vars {
		fmt.Fprintf(sb, "    %s\n", v)
	}
}
