package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, encodePNG(t, img), 0o644))
	return path
}

func TestDecodePowerOfTwoKeepsPixels(t *testing.T) {
	img := solidImage(4, 2, color.RGBA{10, 20, 30, 255})
	img.SetRGBA(3, 1, color.RGBA{200, 100, 50, 255})

	tex, err := Decode(bytes.NewReader(encodePNG(t, img)))
	require.NoError(t, err)

	assert.EqualValues(t, 4, tex.Width)
	assert.EqualValues(t, 2, tex.Height)
	require.Len(t, tex.Pixels, 4*2*4)
	assert.Equal(t, []byte{10, 20, 30, 255}, tex.Pixels[0:4])
	last := (1*4 + 3) * 4
	assert.Equal(t, []byte{200, 100, 50, 255}, tex.Pixels[last:last+4])
	assert.NoError(t, tex.Validate())
}

func TestDecodeResizesToPowerOfTwo(t *testing.T) {
	img := solidImage(5, 3, color.RGBA{255, 0, 0, 255})

	tex, err := Decode(bytes.NewReader(encodePNG(t, img)))
	require.NoError(t, err)

	assert.EqualValues(t, 8, tex.Width)
	assert.EqualValues(t, 4, tex.Height)
	require.Len(t, tex.Pixels, 8*4*4)
	// a solid image stays solid after resampling
	center := (2*8 + 4) * 4
	for i, want := range []byte{255, 0, 0, 255} {
		assert.InDelta(t, want, tex.Pixels[center+i], 1)
	}
}

func TestDecodeBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, solidImage(2, 2, color.RGBA{0, 255, 0, 255})))

	tex, err := Decode(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 2, tex.Width)
	assert.Equal(t, []byte{0, 255, 0, 255}, tex.Pixels[0:4])
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("not an image"))
	assert.Error(t, err)
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckerboard(t *testing.T) {
	tex := Checkerboard(100, 4)
	require.NoError(t, tex.Validate())
	assert.EqualValues(t, 128, tex.Width)
	assert.EqualValues(t, 128, tex.Height)

	at := func(x, y int) []byte {
		i := (y*128 + x) * 4
		return tex.Pixels[i : i+4]
	}
	assert.Equal(t, at(0, 0), at(31, 31))
	assert.NotEqual(t, at(0, 0), at(32, 0))
	assert.Equal(t, at(0, 0), at(32, 32))

	assert.EqualValues(t, 1, Checkerboard(0, 0).Width)
}
