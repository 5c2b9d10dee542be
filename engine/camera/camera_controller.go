package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the eye and target the camera looks along. The orbit controller
// keeps the eye on a sphere around the target described by radius, azimuth and elevation.
type CameraController interface {
	// Position returns the eye in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the point the eye looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at point
	Target() mgl32.Vec3

	// SetTarget moves the pivot and recomputes the eye.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Orbit rotates the eye around the target. Elevation is clamped to the controller bounds.
	//
	// Parameters:
	//   - azimuth: horizontal delta in radians
	//   - elevation: vertical delta in radians
	Orbit(azimuth, elevation float32)

	// Drag orbits by a cursor movement scaled by the mouse sensitivity.
	//
	// Parameters:
	//   - dx, dy: cursor delta in pixels
	Drag(dx, dy float64)

	// Zoom moves the eye toward the target. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount, scaled by the zoom speed
	Zoom(delta float32)

	// Pan translates eye and target along the camera's right and up axes.
	//
	// Parameters:
	//   - right, up: pan amounts, scaled by the pan speed
	Pan(right, up float32)

	// Radius returns the distance from the target.
	Radius() float32

	// SetRadius sets the distance from the target, clamped to the controller bounds.
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle around Y in radians, 0 facing +Z.
	Azimuth() float32

	// Elevation returns the angle above the horizontal plane in radians.
	Elevation() float32
}
