package renderer

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMSAA is returned by ParseMSAA for sample counts the surface cannot use.
var ErrUnsupportedMSAA = errors.New("unsupported msaa sample count")

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU draws through wgpu-native.
	BackendTypeWGPU RendererBackendType = iota
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	default:
		return fmt.Sprintf("backend(%d)", int(t))
	}
}

// PresentMode controls how finished frames reach the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank and caps the lab at the monitor refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents as soon as a frame is done. Tearing is possible.
	PresentModeUncapped
)

// PresentModeFor maps the vsync config switch to a PresentMode.
func PresentModeFor(vsync bool) PresentMode {
	if vsync {
		return PresentModeVSync
	}
	return PresentModeUncapped
}

func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	default:
		return fmt.Sprintf("present(%d)", int(m))
	}
}

// MSAASampleCount is the sample count of the color and depth attachments.
// WebGPU only guarantees 1 and 4 on every adapter.
type MSAASampleCount uint32

const (
	// MSAAOff renders single-sampled.
	MSAAOff MSAASampleCount = 1

	// MSAA4x is the default.
	MSAA4x MSAASampleCount = 4
)

// ParseMSAA converts a sample count from the config file. Zero selects the default.
//
// Parameters:
//   - n: 0, 1 or 4
//
// Returns:
//   - MSAASampleCount: the matching sample count
//   - error: ErrUnsupportedMSAA for any other value
func ParseMSAA(n int) (MSAASampleCount, error) {
	switch n {
	case 0:
		return MSAA4x, nil
	case 1:
		return MSAAOff, nil
	case 4:
		return MSAA4x, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedMSAA, n)
	}
}

func (c MSAASampleCount) String() string {
	if c <= MSAAOff {
		return "off"
	}
	return fmt.Sprintf("%dx", uint32(c))
}

// RendererBackend is what a Renderer drives. Only the wgpu backend exists today.
type RendererBackend interface {
	wgpuRendererBackend
}
