// Package enhance implements the per-file image enhancement pipeline:
// supersample, shape the alpha plane at high resolution, downsample, touch up
// the alpha plane, save.
package enhance

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-iconsharp/images"
	"github.com/nvr-ai/go-iconsharp/profiler"
)

// Stage names recorded by the profiler.
const (
	StageDecode      = "decode"
	StageSupersample = "supersample"
	StageAlpha       = "alpha"
	StageDownscale   = "downscale"
	StageTouchUp     = "touchup"
	StageEncode      = "encode"
)

// Enhancer runs the pipeline with one set of parameters.
type Enhancer struct {
	params   Params
	out      io.Writer
	log      *zap.Logger
	profiler *profiler.Profiler
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithProgress sets where human-readable progress lines are written.
func WithProgress(w io.Writer) Option {
	return func(e *Enhancer) { e.out = w }
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Enhancer) { e.log = log }
}

// WithProfiler records stage timings into p.
func WithProfiler(p *profiler.Profiler) Option {
	return func(e *Enhancer) { e.profiler = p }
}

// New creates an Enhancer. Progress goes nowhere and logging is disabled
// unless configured.
func New(params Params, opts ...Option) (*Enhancer, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid enhancement parameters")
	}
	e := &Enhancer{
		params: params,
		out:    io.Discard,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Params returns the parameters the enhancer runs with.
func (e *Enhancer) Params() Params {
	return e.params
}

// Process enhances the file at input and writes it to output. The output
// extension is rewritten to match what the codec for format produces.
//
// Failures never escape: they are reported, logged and returned in Result.Err,
// and no output file is left behind.
func (e *Enhancer) Process(input, output string, format images.ImageFormat) (res Result) {
	start := time.Now()
	name := filepath.Base(input)
	res = Result{Input: input, Format: format}

	fmt.Fprintf(e.out, "Processing: %s\n", name)
	e.log.Debug("processing file", zap.String("file", input), zap.String("format", string(format)))

	defer func() {
		res.Duration = time.Since(start)
		if res.Err != nil {
			fmt.Fprintf(e.out, "  ❌ Error %s: %v\n\n", name, res.Err)
			e.log.Error("file processing failed", zap.String("file", input), zap.Error(res.Err))
			return
		}
		fmt.Fprintf(e.out, "  ✅ Saved → %s (%s)\n\n",
			filepath.Join(filepath.Base(filepath.Dir(res.Output)), filepath.Base(res.Output)),
			profiler.FormatBytes(uint64(res.Bytes)))
		e.log.Debug("file processed",
			zap.String("file", input),
			zap.String("output", res.Output),
			zap.String("checksum", res.Checksum),
			zap.Duration("duration", res.Duration))
	}()

	res.Err = e.process(input, output, format, &res)
	if res.Err != nil {
		res.Output = ""
	}
	return res
}

func (e *Enhancer) process(input, output string, format images.ImageFormat, res *Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic while processing: %v", r)
		}
	}()

	codec, err := images.CodecFor(format)
	if err != nil {
		return err
	}

	stop := e.profiler.StartOperation(StageDecode)
	data, err := os.ReadFile(input)
	if err != nil {
		stop()
		return errors.Wrap(err, "read")
	}
	src, err := images.Decode(data, format)
	stop()
	if err != nil {
		return errors.Wrap(err, "decode")
	}
	res.Width, res.Height = src.Bounds().Dx(), src.Bounds().Dy()

	img, err := e.Enhance(src)
	if err != nil {
		return err
	}
	res.Checksum = images.ComputeChecksum(img)

	stop = e.profiler.StartOperation(StageEncode)
	encoded, err := images.Encode(img, format)
	stop()
	if err != nil {
		return errors.Wrap(err, "encode")
	}

	path := codec.OutputPath(output)
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		// Do not leave a truncated file behind.
		_ = os.Remove(path)
		return errors.Wrap(err, "write")
	}
	res.Output = path
	res.Bytes = int64(len(encoded))
	return nil
}

// Enhance runs the three pixel stages over src and returns a new image with the
// same dimensions. Only the alpha plane is sharpened, blurred or contrast
// adjusted; the colour planes only go through resampling.
func (e *Enhancer) Enhance(src *image.NRGBA) (*image.NRGBA, error) {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("image has no pixels")
	}

	f := e.params.ScaleFactor
	hw, hh := w*f, h*f
	if area := int64(w) * int64(h) * int64(f) * int64(f); area > e.params.MaxPixels {
		return nil, errors.Errorf("supersampled image %dx%d exceeds the %d pixel limit", hw, hh, e.params.MaxPixels)
	}

	// Stage 1: supersample.
	fmt.Fprintf(e.out, "  • Upscaling x%d (%dx%d → %dx%d) with %s...\n", f, w, h, hw, hh, e.params.UpscaleFilter)
	stop := e.profiler.StartOperation(StageSupersample)
	hr, err := images.Resize(src, hw, hh, e.params.UpscaleFilter)
	stop()
	if err != nil {
		return nil, errors.Wrap(err, "supersample")
	}

	// Stage 2: shape the high-resolution alpha.
	fmt.Fprintf(e.out, "  • Shaping high-res alpha (%s)...\n", describe(e.params.Alpha))
	stop = e.profiler.StartOperation(StageAlpha)
	ch := images.Split(hr)
	hr = ch.WithAlpha(images.ApplyAll(ch.A, e.params.Alpha...)).Merge()
	stop()

	fmt.Fprintf(e.out, "  • Downscaling with %s (%dx%d → %dx%d)...\n", e.params.DownscaleFilter, hw, hh, w, h)
	stop = e.profiler.StartOperation(StageDownscale)
	lr, err := images.Resize(hr, w, h, e.params.DownscaleFilter)
	stop()
	if err != nil {
		return nil, errors.Wrap(err, "downscale")
	}

	// Stage 3: remove residual halo left by resampling.
	fmt.Fprintf(e.out, "  • Touching up alpha (%s)...\n", describe(e.params.TouchUp))
	stop = e.profiler.StartOperation(StageTouchUp)
	ch = images.Split(lr)
	out := ch.WithAlpha(images.ApplyAll(ch.A, e.params.TouchUp...)).Merge()
	stop()

	return out, nil
}
