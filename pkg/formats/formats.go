// Package formats provides parsers for 3D asset file formats.
package formats

// Note: GLB (binary glTF 2.0) container parsing is implemented in glb.go
// Note: glTF document types are declared in gltf.go
// Note: typed accessor reads are implemented in accessor.go
