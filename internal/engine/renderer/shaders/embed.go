// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms model vertices to clip space.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader shades a primitive with its material color.
//
//go:embed mesh.frag
var MeshFragmentShader string
