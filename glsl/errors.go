// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"
)

// Stage names the front-end pass that rejected the source.
type Stage uint8

const (
	StageLex Stage = iota
	StageParse
)

func (s Stage) String() string {
	if s == StageLex {
		return "lex"
	}
	return "parse"
}

// SourceError is a diagnostic for GLSL source that failed to tokenize or
// parse. Line and column are 1-based; columns count runes.
type SourceError struct {
	Stage   Stage
	Message string
	Span    Span
	Source  string // full source text, used by FormatWithContext
}

func (e *SourceError) Error() string {
	if e.Span.Start.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

// FormatWithContext renders the diagnostic with the offending source line
// and a caret under the reported column:
//
//	error: expected ';', got "void"
//	  --> line 3:1
//	   |
//	  3| void main() {}
//	   | ^
//
// Tabs before the column are repeated in the caret line so the caret stays
// aligned in a terminal.
func (e *SourceError) FormatWithContext() string {
	lineNum := e.Span.Start.Line
	if e.Source == "" || lineNum == 0 {
		return e.Error()
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return e.Error()
	}

	line := []rune(strings.TrimRight(lines[lineNum-1], "\r"))
	col := min(max(e.Span.Start.Column, 1), len(line)+1)

	var pad strings.Builder
	for _, r := range line[:col-1] {
		if r == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", lineNum, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, string(line))
	fmt.Fprintf(&sb, "   | %s^\n", pad.String())
	return sb.String()
}

// SourceErrors is every diagnostic reported for one source, in source order.
type SourceErrors []*SourceError

func (el SourceErrors) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

// Unwrap exposes the individual diagnostics to errors.Is and errors.As.
func (el SourceErrors) Unwrap() []error {
	errs := make([]error, len(el))
	for i, e := range el {
		errs[i] = e
	}
	return errs
}

// FormatAll renders every diagnostic with FormatWithContext, separated by
// blank lines.
func (el SourceErrors) FormatAll() string {
	parts := make([]string, len(el))
	for i, e := range el {
		parts[i] = e.FormatWithContext()
	}
	return strings.Join(parts, "\n")
}

// Add appends err.
func (el *SourceErrors) Add(err *SourceError) {
	*el = append(*el, err)
}

// Len returns the number of diagnostics.
func (el SourceErrors) Len() int {
	return len(el)
}

// HasErrors reports whether any diagnostic was recorded.
func (el SourceErrors) HasErrors() bool {
	return len(el) > 0
}

// withSource attaches the source text to every error lacking one.
func (el SourceErrors) withSource(source string) SourceErrors {
	for _, e := range el {
		if e.Source == "" {
			e.Source = source
		}
	}
	return el
}
