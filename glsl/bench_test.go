// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test shader sources for lexer/parser benchmarks
// ---------------------------------------------------------------------------

const benchShaderSmall = `#version 330 core
layout(location = 0) in vec3 position;
void main() {
    gl_Position = vec4(position, 1.0);
}
`

const benchShaderMedium = `#version 450 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;

layout(location = 0) out vec3 vNormal;
layout(location = 1) out vec2 vUV;

layout(std140, binding = 0) uniform Camera {
    mat4 view;
    mat4 projection;
    vec3 eye;
} camera;

uniform mat4 model;

void main() {
    vec4 world = model * vec4(inPosition, 1.0);
    vNormal = mat3(transpose(inverse(model))) * inNormal;
    vUV = inUV;
    gl_Position = camera.projection * camera.view * world;
}
`

const benchShaderLarge = `#version 450 core
#define MAX_LIGHTS 8

struct Light {
    vec3 position;
    vec3 color;
    float radius;
};

layout(std140, binding = 1) uniform Lights {
    Light lights[MAX_LIGHTS];
    int count;
};

layout(binding = 2) uniform sampler2D albedoMap;
layout(binding = 3) uniform sampler2D normalMap;

in vec3 vWorld;
in vec3 vNormal;
in vec2 vUV;
flat in int vMaterial;

layout(location = 0) out vec4 fragColor;

float attenuate(float dist, float radius) {
    float x = clamp(1.0 - pow(dist / radius, 4.0), 0.0, 1.0);
    return x * x / (dist * dist + 1.0);
}

vec3 shade(vec3 n, vec3 albedo) {
    vec3 result = vec3(0.0);
    for (int i = 0; i < count; ++i) {
        vec3 l = lights[i].position - vWorld;
        float d = length(l);
        float ndotl = max(dot(n, l / d), 0.0);
        result += albedo * lights[i].color * ndotl * attenuate(d, lights[i].radius);
    }
    return result;
}

void main() {
    vec3 albedo = texture(albedoMap, vUV).rgb;
    vec3 n = normalize(vNormal + texture(normalMap, vUV).xyz * 2.0 - 1.0);
    switch (vMaterial) {
    case 0:
        fragColor = vec4(shade(n, albedo), 1.0);
        break;
    default:
        fragColor = vec4(albedo, 1.0);
    }
}
`

var benchCases = []struct {
	name   string
	source string
}{
	{"small", benchShaderSmall},
	{"medium", benchShaderMedium},
	{"large", benchShaderLarge},
}

func BenchmarkLex(b *testing.B) {
	for _, bc := range benchCases {
		b.Run(bc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(bc.source)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				tokens, err := NewLexer(bc.source).Tokenize()
				if err != nil {
					b.Fatalf("tokenize failed: %v", err)
				}
				runtime.KeepAlive(tokens)
			}
		})
	}
}

func BenchmarkParse(b *testing.B) {
	for _, bc := range benchCases {
		b.Run(bc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(bc.source)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				unit, err := Parse(bc.source)
				if err != nil {
					b.Fatalf("parse failed: %v", err)
				}
				runtime.KeepAlive(unit)
			}
		})
	}
}

func BenchmarkLexDeclarations(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 256; i++ {
		sb.WriteString("layout(location = 0) flat in highp ivec4 attribute_name[4];\n")
	}
	source := sb.String()

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		tokens, err := NewLexer(source).Tokenize()
		if err != nil {
			b.Fatalf("tokenize failed: %v", err)
		}
		runtime.KeepAlive(tokens)
	}
}

func TestBenchShadersParse(t *testing.T) {
	for _, bc := range benchCases {
		t.Run(bc.name, func(t *testing.T) {
			parseSource(t, bc.source)
		})
	}
}
