// Package batch drives the enhancement pipeline over every eligible image in
// a directory and aggregates the per-file results.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-iconsharp/enhance"
	"github.com/nvr-ai/go-iconsharp/images"
)

// ErrNoFiles is returned by Run when the directory holds no eligible files.
var ErrNoFiles = errors.New("no eligible image files found")

// Runner processes the files of one directory.
type Runner struct {
	// InputDir is scanned for images.
	InputDir string
	// OutputDir receives the enhanced files. A relative path is resolved
	// against InputDir.
	OutputDir string
	// Exclude lists base names never processed.
	Exclude []string
	// Enhancer runs the per-file pipeline.
	Enhancer *enhance.Enhancer
	// Out receives progress and summary lines.
	Out io.Writer
	// Log receives structured diagnostics.
	Log *zap.Logger
}

// ResolvedOutputDir returns OutputDir, joined onto InputDir when relative.
func (r *Runner) ResolvedOutputDir() string {
	if filepath.IsAbs(r.OutputDir) {
		return r.OutputDir
	}
	return filepath.Join(r.InputDir, r.OutputDir)
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

func (r *Runner) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// Run discovers the eligible files, creates the output directory and
// processes every file in order. A failing file never stops the batch; its
// reason is kept in the report. When no file is eligible Run prints a notice,
// touches nothing and returns ErrNoFiles. Cancelling ctx stops the run before
// the next file.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	outDir := r.ResolvedOutputDir()
	report := &Report{OutputDir: outDir}

	jobs, err := Discover(r.InputDir, outDir, r.Exclude)
	if err != nil {
		return report, errors.Wrap(err, "file discovery failed")
	}

	if len(jobs) == 0 {
		fmt.Fprintf(r.out(), "No %s files found in %s.\n", extensionList(), r.InputDir)
		return report, ErrNoFiles
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return report, errors.Wrap(err, "create output directory")
	}

	r.log().Debug("batch started",
		zap.String("input_dir", r.InputDir),
		zap.String("output_dir", outDir),
		zap.Int("files", len(jobs)))

	for _, job := range jobs {
		if ctx.Err() != nil {
			r.log().Warn("interrupted", zap.Int("remaining", len(jobs)-report.Processed()))
			break
		}
		report.Add(r.RunJob(job))
	}

	report.Print(r.out())
	r.log().Info("batch finished",
		zap.Int("processed", report.Processed()),
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("failed", report.Failed()))

	return report, ctx.Err()
}

// RunJob processes a single planned job.
func (r *Runner) RunJob(job Job) enhance.Result {
	return r.Enhancer.Process(job.Input, job.Output, job.Format)
}

// PlanFile builds the job for one path inside InputDir, or reports false when
// the file is not eligible.
func (r *Runner) PlanFile(path string) (Job, bool) {
	name := filepath.Base(path)
	for _, ex := range r.Exclude {
		if ex == name {
			return Job{}, false
		}
	}
	format, ok := images.FormatForPath(name)
	if !ok {
		return Job{}, false
	}
	// Outputs written next to their inputs must not be picked up again.
	if IsOwnOutput(r.InputDir, r.ResolvedOutputDir(), name) {
		return Job{}, false
	}
	return Job{
		Input:  path,
		Output: filepath.Join(r.ResolvedOutputDir(), OutputName(name)),
		Format: format,
	}, true
}

// ProcessFile plans and runs one file from InputDir, creating the output
// directory when needed. It reports false when the file is not eligible.
func (r *Runner) ProcessFile(path string) (enhance.Result, bool) {
	job, ok := r.PlanFile(path)
	if !ok {
		return enhance.Result{}, false
	}
	if err := os.MkdirAll(r.ResolvedOutputDir(), 0o755); err != nil {
		res := enhance.Result{Input: path, Format: job.Format, Err: errors.Wrap(err, "create output directory")}
		r.log().Error("file processing failed", zap.String("file", path), zap.Error(res.Err))
		return res, true
	}
	return r.RunJob(job), true
}

func extensionList() string {
	exts := images.Extensions()
	names := make([]string, len(exts))
	for i, ext := range exts {
		names[i] = strings.ToUpper(strings.TrimPrefix(ext, "."))
	}
	return strings.Join(names, "/")
}
