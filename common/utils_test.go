package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, uint32(4), Coalesce[uint32](4, 1))
}

func TestNextPowerOfTwo(t *testing.T) {
	for in, want := range map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 4, 255: 256, 256: 256} {
		assert.Equal(t, want, NextPowerOfTwo(in), "n=%d", in)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2, Clamp(5, 0, 2))
	assert.Equal(t, float32(-1), Clamp[float32](-3, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0.0, 1.0))
}

func TestTextureStagingDataValidate(t *testing.T) {
	var nilTex *TextureStagingData
	assert.ErrorIs(t, nilTex.Validate(), ErrEmptyTexture)
	assert.ErrorIs(t, (&TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 15)}).Validate(), ErrEmptyTexture)
	assert.ErrorIs(t, (&TextureStagingData{Width: 0, Height: 2, Pixels: make([]byte, 16)}).Validate(), ErrEmptyTexture)
	assert.NoError(t, (&TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 16)}).Validate())
}
