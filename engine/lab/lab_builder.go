package lab

import (
	"time"

	"github.com/Park52/webgl-lab/engine/assets"
)

// TextureLabBuilderOption is a function type for configuring texture lab instances.
type TextureLabBuilderOption func(*textureLab)

// WithTexturePath sets the image shown by the texture lab.
// An empty path shows a generated checkerboard.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - TextureLabBuilderOption: a function that applies the path to a texture lab
func WithTexturePath(path string) TextureLabBuilderOption {
	return func(l *textureLab) {
		l.path = path
	}
}

// WithTextureWatch enables reloading the image when the file changes on disk.
//
// Parameters:
//   - debounce: how long writes must settle before reloading
//
// Returns:
//   - TextureLabBuilderOption: a function that enables watching on a texture lab
func WithTextureWatch(debounce time.Duration) TextureLabBuilderOption {
	return func(l *textureLab) {
		l.watch = true
		if debounce > 0 {
			l.debounce = debounce
		}
	}
}

// WithTextureLoader sets the loader used to decode the image.
//
// Parameters:
//   - loader: the asset loader
//
// Returns:
//   - TextureLabBuilderOption: a function that applies the loader to a texture lab
func WithTextureLoader(loader assets.Loader) TextureLabBuilderOption {
	return func(l *textureLab) {
		l.loader = loader
	}
}

// SphereLabBuilderOption is a function type for configuring sphere lab instances.
type SphereLabBuilderOption func(*sphereLab)

// WithSphere sets the initial sphere slider values. Values outside the slider ranges are clamped.
//
// Parameters:
//   - radius: the sphere radius
//   - stacks: latitude bands
//   - slices: longitude bands
//
// Returns:
//   - SphereLabBuilderOption: a function that applies the values to a sphere lab
func WithSphere(radius float32, stacks, slices int) SphereLabBuilderOption {
	return func(l *sphereLab) {
		l.initial.radius = radius
		l.initial.stacks = stacks
		l.initial.slices = slices
	}
}

// WithSpinSpeed sets the initial rotation speed in radians per second.
//
// Parameters:
//   - speed: the rotation speed
//
// Returns:
//   - SphereLabBuilderOption: a function that applies the speed to a sphere lab
func WithSpinSpeed(speed float32) SphereLabBuilderOption {
	return func(l *sphereLab) {
		l.initial.speed = speed
	}
}

// WithCamera sets the eye position and vertical field of view (radians) of the sphere lab.
//
// Parameters:
//   - eye: the camera position; the camera always looks at the origin
//   - fovY: the vertical field of view in radians
//
// Returns:
//   - SphereLabBuilderOption: a function that applies the camera to a sphere lab
func WithCamera(eye [3]float32, fovY float32) SphereLabBuilderOption {
	return func(l *sphereLab) {
		l.eye = eye
		l.fovY = fovY
	}
}
