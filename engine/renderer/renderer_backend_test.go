package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMSAA(t *testing.T) {
	tests := []struct {
		in   int
		want MSAASampleCount
	}{
		{0, MSAA4x},
		{1, MSAAOff},
		{4, MSAA4x},
	}
	for _, tt := range tests {
		got, err := ParseMSAA(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []int{2, 8, 16, -1} {
		_, err := ParseMSAA(bad)
		assert.ErrorIs(t, err, ErrUnsupportedMSAA)
	}
}

func TestPresentModeFor(t *testing.T) {
	assert.Equal(t, PresentModeVSync, PresentModeFor(true))
	assert.Equal(t, PresentModeUncapped, PresentModeFor(false))
}

func TestBackendEnumStrings(t *testing.T) {
	assert.Equal(t, "wgpu", BackendTypeWGPU.String())
	assert.Equal(t, "vsync", PresentModeVSync.String())
	assert.Equal(t, "uncapped", PresentModeUncapped.String())
	assert.Equal(t, "present(7)", PresentMode(7).String())
	assert.Equal(t, "off", MSAAOff.String())
	assert.Equal(t, "4x", MSAA4x.String())
}
