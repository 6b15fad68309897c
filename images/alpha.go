package images

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/disintegration/gift"
)

// smoothKernel is the 3x3 smoothing kernel used as the "degenerate" image for
// sharpness enhancement. Normalised by its sum (13) when applied.
var smoothKernel = []float32{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// GrayOp transforms a single 8-bit plane into a new plane of the same size.
type GrayOp interface {
	// Apply returns the transformed plane. src is never modified.
	Apply(src *image.Gray) *image.Gray
	// String describes the operation for progress output.
	String() string
}

// Sharpness enhances edge contrast by extrapolating away from a smoothed copy
// of the plane. 1.0 returns the input, values above 1 sharpen, values below 1
// soften.
// Edge pixels are extended for the convolution, so the border is sharpened too.
type Sharpness float64

// Apply implements GrayOp.
func (s Sharpness) Apply(src *image.Gray) *image.Gray {
	smooth := drawGray(src, gift.Convolution(smoothKernel, true, false, false, 0))
	return blend(smooth, src, float32(s))
}

func (s Sharpness) String() string { return fmt.Sprintf("sharpen x%.2f", float64(s)) }

// Contrast scales intensities around the rounded mean intensity of the plane.
type Contrast float64

// Apply implements GrayOp.
func (c Contrast) Apply(src *image.Gray) *image.Gray {
	mean := float32(meanIntensity(src)) / 255
	factor := float32(c)
	return drawGray(src, gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		v := Clamp(mean+factor*(r0-mean), 0, 1)
		return v, v, v, a0
	}))
}

func (c Contrast) String() string { return fmt.Sprintf("contrast x%.2f", float64(c)) }

// GaussianBlur smooths the plane with a Gaussian of the given standard deviation.
type GaussianBlur float64

// Apply implements GrayOp.
func (g GaussianBlur) Apply(src *image.Gray) *image.Gray {
	if g <= 0 {
		return cloneGray(src)
	}
	return drawGray(src, gift.GaussianBlur(float32(g)))
}

func (g GaussianBlur) String() string { return fmt.Sprintf("gaussian blur r=%.2f", float64(g)) }

// ApplyAll runs ops over src in order.
func ApplyAll(src *image.Gray, ops ...GrayOp) *image.Gray {
	out := src
	for _, op := range ops {
		out = op.Apply(out)
	}
	if out == src {
		return cloneGray(src)
	}
	return out
}

func drawGray(src *image.Gray, filters ...gift.Filter) *image.Gray {
	g := gift.New(filters...)
	dst := image.NewGray(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

// blend computes degenerate + factor*(src-degenerate) per pixel, rounded and
// clipped to [0, 255]. Factors above 1 extrapolate past src.
func blend(degenerate, src *image.Gray, factor float32) *image.Gray {
	dst := image.NewGray(src.Bounds())
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := float32(degenerate.Pix[y*degenerate.Stride+x])
			s := float32(src.Pix[y*src.Stride+x])
			dst.Pix[y*dst.Stride+x] = uint8(Clamp(math32.Round(d+factor*(s-d)), 0, 255))
		}
	}
	return dst
}

// meanIntensity returns the mean pixel value of the plane rounded to the
// nearest integer.
func meanIntensity(src *image.Gray) int {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0
	}
	var sum uint64
	for y := 0; y < h; y++ {
		for _, v := range src.Pix[y*src.Stride : y*src.Stride+w] {
			sum += uint64(v)
		}
	}
	return int(float64(sum)/float64(w*h) + 0.5)
}

func cloneGray(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// Clamp restricts a value to the specified range [min, max].
//
// @example
// clamped := Clamp(300.5, 0, 255) // Returns 255
// clamped := Clamp(-10.0, 0, 255) // Returns 0
func Clamp(value, min, max float32) float32 {
	return math32.Max(min, math32.Min(max, value))
}
