package enhance

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-iconsharp/config"
	"github.com/nvr-ai/go-iconsharp/images"
)

// Params holds the tuned constants of the pipeline.
type Params struct {
	// ScaleFactor multiplies both dimensions during supersampling.
	ScaleFactor int
	// UpscaleFilter grows the image (smooth).
	UpscaleFilter images.ResampleFilter
	// DownscaleFilter shrinks it back (edge preserving).
	DownscaleFilter images.ResampleFilter
	// MaxPixels bounds the area of the supersampled image.
	MaxPixels int64
	// Alpha is applied in order to the supersampled alpha plane.
	Alpha []images.GrayOp
	// TouchUp is applied in order to the alpha plane after downscaling.
	TouchUp []images.GrayOp
}

// ParamsFromConfig translates a validated config into pipeline parameters.
func ParamsFromConfig(cfg *config.Config) (Params, error) {
	if err := cfg.Validate(); err != nil {
		return Params{}, err
	}
	up, err := images.ParseFilter(cfg.UpscaleFilter)
	if err != nil {
		return Params{}, err
	}
	down, err := images.ParseFilter(cfg.DownscaleFilter)
	if err != nil {
		return Params{}, err
	}

	return Params{
		ScaleFactor:     cfg.ScaleFactor,
		UpscaleFilter:   up,
		DownscaleFilter: down,
		MaxPixels:       int64(cfg.MaxPixels),
		Alpha: []images.GrayOp{
			images.Sharpness(cfg.Alpha.Sharpen),
			images.GaussianBlur(cfg.Alpha.BlurRadius),
			images.Contrast(cfg.Alpha.Contrast),
			images.Sharpness(cfg.Alpha.Resharpen),
		},
		TouchUp: []images.GrayOp{
			images.Sharpness(cfg.TouchUp.Sharpen),
			images.Contrast(cfg.TouchUp.Contrast),
		},
	}, nil
}

// Validate checks the parameters can run.
func (p Params) Validate() error {
	if p.ScaleFactor < 1 {
		return errors.Errorf("scale factor must be >= 1, got %d", p.ScaleFactor)
	}
	if p.MaxPixels <= 0 {
		return errors.Errorf("max pixels must be positive, got %d", p.MaxPixels)
	}
	if _, err := images.ParseFilter(string(p.UpscaleFilter)); err != nil {
		return err
	}
	if _, err := images.ParseFilter(string(p.DownscaleFilter)); err != nil {
		return err
	}
	return nil
}

func describe(ops []images.GrayOp) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, ", ")
}
