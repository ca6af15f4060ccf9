// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader is the vertex shader for the lit mesh pass.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader is the fragment shader for the lit mesh pass.
//
//go:embed mesh.frag
var MeshFragmentShader string

// DepthVertexShader is the vertex shader for the shadow depth pass.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader is the fragment shader for the shadow depth pass.
//
//go:embed depth.frag
var DepthFragmentShader string

// BackgroundVertexShader is the vertex shader for the environment background.
//
//go:embed background.vert
var BackgroundVertexShader string

// BackgroundFragmentShader is the fragment shader for the environment background.
//
//go:embed background.frag
var BackgroundFragmentShader string

// LineVertexShader is the vertex shader for line overlays.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader is the fragment shader for line overlays.
//
//go:embed line.frag
var LineFragmentShader string
