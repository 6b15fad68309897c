package images

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func flatPlane(w, h int, v uint8) *image.Gray {
	p := image.NewGray(image.Rect(0, 0, w, h))
	for i := range p.Pix {
		p.Pix[i] = v
	}
	return p
}

// stepPlane has a hard vertical edge: left half lo, right half hi.
func stepPlane(w, h int, lo, hi uint8) *image.Gray {
	p := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := lo
			if x >= w/2 {
				v = hi
			}
			p.Pix[y*p.Stride+x] = v
		}
	}
	return p
}

func TestSharpnessIdentity(t *testing.T) {
	src := stepPlane(8, 8, 50, 200)
	out := Sharpness(1).Apply(src)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestSharpnessFlatPlaneUnchanged(t *testing.T) {
	src := flatPlane(6, 6, 128)
	out := Sharpness(3.5).Apply(src)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestSharpnessIncreasesEdgeContrast(t *testing.T) {
	src := stepPlane(8, 8, 50, 200)
	out := Sharpness(3.5).Apply(src)

	// Pixels either side of the edge move away from each other.
	left := out.GrayAt(3, 4).Y
	right := out.GrayAt(4, 4).Y
	assert.Less(t, left, uint8(50))
	assert.Greater(t, right, uint8(200))
	// Far from the edge nothing changes.
	assert.Equal(t, uint8(50), out.GrayAt(0, 4).Y)
	assert.Equal(t, uint8(50), src.GrayAt(3, 4).Y, "source must not be modified")
}

func TestContrast(t *testing.T) {
	src := stepPlane(10, 4, 100, 200)

	same := Contrast(1).Apply(src)
	for i := range src.Pix {
		assert.InDelta(t, int(src.Pix[i]), int(same.Pix[i]), 1)
	}

	// Mean is 150, factor 2 pushes 100 → 50 and 200 → 250.
	out := Contrast(2).Apply(src)
	assert.InDelta(t, 50, int(out.GrayAt(0, 0).Y), 1)
	assert.InDelta(t, 250, int(out.GrayAt(9, 0).Y), 1)

	// Clipping at the ends of the range.
	clipped := Contrast(10).Apply(src)
	assert.Equal(t, uint8(0), clipped.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), clipped.GrayAt(9, 0).Y)
}

func TestContrastFlatPlaneUnchanged(t *testing.T) {
	src := flatPlane(5, 5, 77)
	out := Contrast(1.3).Apply(src)
	for _, v := range out.Pix {
		assert.InDelta(t, 77, int(v), 1)
	}
}

func TestGaussianBlurSpreadsEnergy(t *testing.T) {
	src := flatPlane(9, 9, 0)
	src.Pix[4*src.Stride+4] = 255

	out := GaussianBlur(0.8).Apply(src)
	assert.Less(t, out.GrayAt(4, 4).Y, uint8(255))
	assert.Greater(t, out.GrayAt(3, 4).Y, uint8(0))
	assert.Greater(t, out.GrayAt(4, 5).Y, uint8(0))
	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
}

func TestGaussianBlurZeroRadiusCopies(t *testing.T) {
	src := stepPlane(4, 4, 0, 255)
	out := GaussianBlur(0).Apply(src)
	assert.Equal(t, src.Pix, out.Pix)
	out.Pix[0] = 9
	assert.Equal(t, uint8(0), src.Pix[0])
}

func TestApplyAll(t *testing.T) {
	src := stepPlane(8, 8, 50, 200)

	none := ApplyAll(src)
	assert.Equal(t, src.Pix, none.Pix)
	assert.NotSame(t, src, none)

	chained := ApplyAll(src, Sharpness(3.5), GaussianBlur(0.8), Contrast(1.3), Sharpness(3.5))
	assert.Equal(t, src.Bounds(), chained.Bounds())
}

func TestMeanIntensity(t *testing.T) {
	assert.Equal(t, 150, meanIntensity(stepPlane(10, 2, 100, 200)))
	// 0.5 rounds up.
	p := image.NewGray(image.Rect(0, 0, 2, 1))
	p.Pix[0], p.Pix[1] = 0, 1
	assert.Equal(t, 1, meanIntensity(p))
	assert.Equal(t, 0, meanIntensity(image.NewGray(image.Rect(0, 0, 0, 0))))
}

func TestOpStrings(t *testing.T) {
	assert.Equal(t, "sharpen x3.50", Sharpness(3.5).String())
	assert.Equal(t, "contrast x1.30", Contrast(1.3).String())
	assert.Equal(t, "gaussian blur r=0.80", GaussianBlur(0.8).String())
}

func TestBlend(t *testing.T) {
	degenerate := flatPlane(4, 1, 100)
	src := image.NewGray(image.Rect(0, 0, 4, 1))
	copy(src.Pix, []uint8{100, 110, 200, 0})

	tests := []struct {
		name   string
		factor float32
		want   []uint8
	}{
		{"identity", 1, []uint8{100, 110, 200, 0}},
		{"degenerate", 0, []uint8{100, 100, 100, 100}},
		{"half rounds", 0.25, []uint8{100, 103, 125, 75}},
		{"extrapolate clips", 3.5, []uint8{100, 135, 255, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blend(degenerate, src, tt.factor).Pix)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(255), Clamp(300.5, 0, 255))
	assert.Equal(t, float32(0), Clamp(-10, 0, 255))
	assert.Equal(t, float32(12.5), Clamp(12.5, 0, 255))
}
