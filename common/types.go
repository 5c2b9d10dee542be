// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// This is produced by the texture loader and consumed by the GL backend when calling TexImage2D.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width int
	// Height is the height of the texture in pixels.
	Height int
}

// Valid reports whether the staging data holds exactly Width*Height RGBA pixels.
//
// Returns:
//   - bool: true if the pixel slice matches the declared dimensions
func (t TextureStagingData) Valid() bool {
	return t.Width > 0 && t.Height > 0 && len(t.Pixels) == t.Width*t.Height*4
}

// PowerOfTwo reports whether both texture dimensions are powers of two, which WebGL 1
// requires for mipmapping and repeat wrapping.
//
// Returns:
//   - bool: true if width and height are both powers of two
func (t TextureStagingData) PowerOfTwo() bool {
	return IsPowerOfTwo(t.Width) && IsPowerOfTwo(t.Height)
}

// RGB is a fixed color with components in [0, 1]. It satisfies the color contracts of the mesh
// and light components and never animates.
type RGB [3]float64

// NormalizedRGB returns the components.
func (c RGB) NormalizedRGB() [3]float64 {
	return c
}

// IsActive always reports false.
func (c RGB) IsActive() bool {
	return false
}
