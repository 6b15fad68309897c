package enhance

import (
	"image"
	"math/rand"
	"testing"

	"github.com/nvr-ai/go-iconsharp/config"
)

func genIcon(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	rng := rand.New(rand.NewSource(1))
	for y := 0; y < size; y++ {
		row := y * img.Stride
		for x := 0; x < size; x++ {
			i := row + x*4
			img.Pix[i+0] = uint8(rng.Intn(256))
			img.Pix[i+1] = uint8(rng.Intn(256))
			img.Pix[i+2] = uint8(rng.Intn(256))
			// Opaque disc with a soft edge.
			dx, dy := x-size/2, y-size/2
			if dx*dx+dy*dy < size*size/6 {
				img.Pix[i+3] = 255
			} else {
				img.Pix[i+3] = uint8(rng.Intn(64))
			}
		}
	}
	return img
}

func benchmarkEnhance(b *testing.B, size, scale int) {
	cfg := config.Default()
	cfg.ScaleFactor = scale
	params, err := ParamsFromConfig(cfg)
	if err != nil {
		b.Fatal(err)
	}
	e, err := New(params)
	if err != nil {
		b.Fatal(err)
	}
	img := genIcon(size)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Enhance(img); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEnhance_16_x16(b *testing.B) { benchmarkEnhance(b, 16, 16) }
func BenchmarkEnhance_32_x16(b *testing.B) { benchmarkEnhance(b, 32, 16) }
func BenchmarkEnhance_64_x8(b *testing.B)  { benchmarkEnhance(b, 64, 8) }
