// Package assets loads lab textures from disk. Decoding runs on a worker pool so a lab can
// await several images at once, and a file watcher supports hot reload while editing.
package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/Park52/webgl-lab/common"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Decode reads an encoded image (png, jpeg, bmp or webp) and converts it to tightly packed
// RGBA8 pixels. Images whose sides are not powers of two are resampled up to the next power
// of two so repeat addressing and mipmapping behave on every backend.
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - *common.TextureStagingData: RGBA8 pixels ready for upload
//   - error: decoding error, or common.ErrEmptyTexture for a zero-sized image
func Decode(r io.Reader) (*common.TextureStagingData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("assets: decode: %w", err)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, common.ErrEmptyTexture
	}

	w := common.NextPowerOfTwo(b.Dx())
	h := common.NextPowerOfTwo(b.Dy())
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		common.Logger().Debug("assets: resampled texture to power of two",
			"format", format,
			"from", b.Size(),
			"to", dst.Bounds().Size(),
		)
	}

	return &common.TextureStagingData{
		Pixels: dst.Pix,
		Width:  uint32(w),
		Height: uint32(h),
	}, nil
}

// DecodeFile opens path and decodes it with Decode.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - *common.TextureStagingData: RGBA8 pixels ready for upload
//   - error: file or decoding error
func DecodeFile(path string) (*common.TextureStagingData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("assets: open %q: %w", path, err)
	}
	defer f.Close()

	tex, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("assets: %q: %w", path, err)
	}
	return tex, nil
}

// Checkerboard generates a square RGBA8 texture of alternating light and dark cells,
// used when a lab has no image configured.
//
// Parameters:
//   - size: width and height in pixels, rounded up to a power of two
//   - cells: number of cells along each side, at least 1
//
// Returns:
//   - *common.TextureStagingData: the generated texture
func Checkerboard(size, cells int) *common.TextureStagingData {
	size = common.NextPowerOfTwo(size)
	cells = max(cells, 1)
	cell := max(size/cells, 1)

	light := [4]byte{0xee, 0xee, 0xee, 0xff}
	dark := [4]byte{0x33, 0x66, 0x99, 0xff}

	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := light
			if (x/cell+y/cell)%2 == 1 {
				c = dark
			}
			copy(pix[(y*size+x)*4:], c[:])
		}
	}

	return &common.TextureStagingData{
		Pixels: pix,
		Width:  uint32(size),
		Height: uint32(size),
	}
}
