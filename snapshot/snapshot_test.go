// Package snapshot_test provides golden snapshot tests for shader reports.
//
// For each GLSL input shader in testdata/in/, the test reflects the shader and
// compares the text report to the golden file in testdata/golden/text/. The
// structured formats are checked against the same reflection.
//
// To regenerate golden files after intentional changes:
//
//	UPDATE_GOLDEN=1 go test ./snapshot/...
package snapshot_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/glslinfo"
	"github.com/gogpu/glslinfo/internal/render"
	"github.com/gogpu/glslinfo/shaderinfo"
)

// ---------------------------------------------------------------------------
// Test Runner
// ---------------------------------------------------------------------------

// shaderFile represents an input GLSL shader loaded from disk.
type shaderFile struct {
	name   string // base name without extension (e.g., "vertex_basic")
	source string // GLSL source code
}

// TestSnapshots is the main golden snapshot test. It loads all GLSL inputs,
// reflects each one and compares the rendered reports.
func TestSnapshots(t *testing.T) {
	shaders := loadInputShaders(t, "testdata/in")
	if len(shaders) == 0 {
		t.Fatal("no input shaders found in testdata/in/")
	}

	for i := range shaders {
		shader := &shaders[i]
		t.Run(shader.name, func(t *testing.T) {
			info := reflectShader(t, shader.name, shader.source)

			t.Run("text", func(t *testing.T) {
				compareGolden(t, filepath.Join("testdata", "golden", "text", shader.name+".txt"),
					renderString(t, info, render.FormatText))
			})

			t.Run("json", func(t *testing.T) {
				var doc reportNames
				require.NoError(t, json.Unmarshal([]byte(renderString(t, info, render.FormatJSON)), &doc))
				doc.check(t, info)
			})

			t.Run("yaml", func(t *testing.T) {
				var doc reportNames
				require.NoError(t, yaml.Unmarshal([]byte(renderString(t, info, render.FormatYAML)), &doc))
				doc.check(t, info)
			})
		})
	}
}

// reportNames is the subset of a structured report the format checks decode.
type reportNames struct {
	Version   int         `json:"version" yaml:"version"`
	Variables []nameEntry `json:"variables" yaml:"variables"`
	Blocks    []nameEntry `json:"blocks" yaml:"blocks"`
	Inputs    []nameEntry `json:"inputs" yaml:"inputs"`
	Outputs   []nameEntry `json:"outputs" yaml:"outputs"`
	Uniforms  []nameEntry `json:"uniforms" yaml:"uniforms"`
}

type nameEntry struct {
	Name string `json:"name" yaml:"name"`
}

func names(list []nameEntry) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Name
	}
	return out
}

func (r reportNames) check(t *testing.T, info *shaderinfo.ShaderReflection) {
	t.Helper()
	assert.Equal(t, info.Version, r.Version)
	assert.Equal(t, info.VariableNames(), names(r.Variables))
	assert.Equal(t, info.BlockNames(), names(r.Blocks))
	assert.Equal(t, info.InputNames(), names(r.Inputs))
	assert.Equal(t, info.OutputNames(), names(r.Outputs))
	assert.Equal(t, info.UniformNames(), names(r.Uniforms))
}

// ---------------------------------------------------------------------------
// Shader Loading
// ---------------------------------------------------------------------------

// loadInputShaders reads all .glsl files from the given directory.
func loadInputShaders(t *testing.T, dir string) []shaderFile {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read input directory %q: %v", dir, err)
	}

	var shaders []shaderFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".glsl") {
			continue
		}
		data, readErr := os.ReadFile(filepath.Join(dir, entry.Name()))
		if readErr != nil {
			t.Fatalf("read shader %q: %v", entry.Name(), readErr)
		}
		name := strings.TrimSuffix(entry.Name(), ".glsl")
		shaders = append(shaders, shaderFile{name: name, source: string(data)})
	}

	// Sort for deterministic test order
	sort.Slice(shaders, func(i, j int) bool {
		return shaders[i].name < shaders[j].name
	})

	return shaders
}

// ---------------------------------------------------------------------------
// Reflection Helpers
// ---------------------------------------------------------------------------

func reflectShader(t *testing.T, name, source string) *shaderinfo.ShaderReflection {
	t.Helper()

	info, err := glslinfo.GetInfo(source)
	if err != nil {
		var perr *glslinfo.ParseError
		if assert.ErrorAs(t, err, &perr) {
			t.Fatalf("[%s] parse failed:\n%s", name, perr.FormatAll())
		}
		t.Fatalf("[%s] reflect failed: %v", name, err)
	}
	return info
}

func renderString(t *testing.T, info *shaderinfo.ShaderReflection, format render.Format) string {
	t.Helper()

	var buf bytes.Buffer
	if err := render.Write(&buf, info, format, render.Options{}); err != nil {
		t.Fatalf("render %s: %v", format, err)
	}
	return buf.String()
}

// ---------------------------------------------------------------------------
// Golden File Comparison
// ---------------------------------------------------------------------------

// compareGolden compares actual output with the golden file at path.
// If UPDATE_GOLDEN env var is set, writes actual output as the new golden.
func compareGolden(t *testing.T, path, actual string) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") != "" {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			t.Fatalf("create golden dir: %v", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(actual), 0o644); wErr != nil {
			t.Fatalf("write golden file: %v", wErr)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("golden file missing: %s\nRun with UPDATE_GOLDEN=1 to create.\n\nActual output:\n%s", path, actual)
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}

	// Git may convert \n to \r\n on Windows checkout.
	expectedStr := strings.ReplaceAll(string(expected), "\r\n", "\n")
	actualStr := strings.ReplaceAll(actual, "\r\n", "\n")

	if expectedStr != actualStr {
		t.Errorf("output differs from golden %s:\n%s", path, diffStrings(expectedStr, actualStr))
	}
}

// diffStrings shows the first differing line with surrounding context.
func diffStrings(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")
	maxLines := max(len(expectedLines), len(actualLines))

	line := func(lines []string, i int) string {
		if i < len(lines) {
			return lines[i]
		}
		return ""
	}

	firstDiff := -1
	for i := range maxLines {
		if line(expectedLines, i) != line(actualLines, i) {
			firstDiff = i
			break
		}
	}
	if firstDiff < 0 {
		return "(no difference found)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "first difference at line %d:\n", firstDiff+1)
	fmt.Fprintf(&sb, "  expected lines: %d\n", len(expectedLines))
	fmt.Fprintf(&sb, "  actual lines:   %d\n\n", len(actualLines))

	const contextLines = 3
	start := max(firstDiff-contextLines, 0)
	end := min(firstDiff+contextLines+1, maxLines)
	for i := start; i < end; i++ {
		e, a := line(expectedLines, i), line(actualLines, i)
		if e == a {
			fmt.Fprintf(&sb, "  %4d   %s\n", i+1, e)
			continue
		}
		fmt.Fprintf(&sb, "- %4d   %s\n", i+1, e)
		fmt.Fprintf(&sb, "+ %4d   %s\n", i+1, a)
	}
	return sb.String()
}
