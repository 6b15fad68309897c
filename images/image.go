// Package images - image formats, channel handling, resampling and alpha
// enhancement primitives for the icon sharpening pipeline.
package images

import (
	"image"

	"github.com/disintegration/imaging"
)

// Channels holds the four 8-bit planes of an RGBA image.
type Channels struct {
	// R is the red plane.
	R *image.Gray
	// G is the green plane.
	G *image.Gray
	// B is the blue plane.
	B *image.Gray
	// A is the alpha (opacity) plane.
	A *image.Gray
}

// ToNRGBA returns img as a zero-origin, non-premultiplied RGBA image. The
// result never aliases img.
func ToNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// Split separates img into its red, green, blue and alpha planes.
//
// Arguments:
// - img: The source image.
//
// Returns:
// - Channels: Four planes with the same bounds as img.
func Split(img *image.NRGBA) Channels {
	b := img.Bounds()
	ch := Channels{
		R: image.NewGray(b),
		G: image.NewGray(b),
		B: image.NewGray(b),
		A: image.NewGray(b),
	}

	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		off := y * ch.A.Stride
		for x := 0; x < w; x++ {
			i := x * 4
			ch.R.Pix[off+x] = src[i+0]
			ch.G.Pix[off+x] = src[i+1]
			ch.B.Pix[off+x] = src[i+2]
			ch.A.Pix[off+x] = src[i+3]
		}
	}
	return ch
}

// Merge recombines the four planes into a single image. All planes must share
// the bounds of the alpha plane.
func (c Channels) Merge() *image.NRGBA {
	b := c.A.Bounds()
	dst := image.NewNRGBA(b)

	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			i := x * 4
			row[i+0] = c.R.Pix[y*c.R.Stride+x]
			row[i+1] = c.G.Pix[y*c.G.Stride+x]
			row[i+2] = c.B.Pix[y*c.B.Stride+x]
			row[i+3] = c.A.Pix[y*c.A.Stride+x]
		}
	}
	return dst
}

// WithAlpha returns a copy of the planes with the alpha plane replaced.
func (c Channels) WithAlpha(a *image.Gray) Channels {
	c.A = a
	return c
}
