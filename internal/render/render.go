// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package render writes a shader reflection in one of the supported output
// formats.
package render

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/k0kubun/pp/v3"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/glslinfo/shaderinfo"
)

// Format selects an output format.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatPretty Format = "pretty"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatPretty}

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat returns the format with the given case-insensitive name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Errorf("%w %q", ErrUnknownFormat, name)
}

// Options tunes rendering.
type Options struct {
	// Color enables ANSI colors where the format supports them (pretty).
	Color bool
}

// Write renders info to w.
func Write(w io.Writer, info *shaderinfo.ShaderReflection, format Format, opts Options) error {
	switch format {
	case FormatText:
		return info.WriteReport(w)

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			return errors.Errorf("encoding json: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return errors.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return errors.Errorf("encoding yaml: %w", err)
		}
		return nil

	case FormatPretty:
		p := pp.New()
		p.SetColoringEnabled(opts.Color)
		p.SetExportedOnly(true)
		if _, err := io.WriteString(w, p.Sprint(info)+"\n"); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}

	return errors.Errorf("%w %q", ErrUnknownFormat, string(format))
}
