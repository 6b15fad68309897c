package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIcon(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"iconsharp"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunProcessesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, filepath.Join(dir, "logo.png"))

	code, out, _ := runCLI(t, "-dir", dir, "-scale", "2")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Processing: logo.png")
	assert.Contains(t, out, "Done! Processed 1 file(s)")
	assert.FileExists(t, filepath.Join(dir, "output", "logo_improved.png"))
}

func TestRunEmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	code, out, _ := runCLI(t, "-dir", dir)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "No ICO/JPEG/JPG/PNG files found")
	assert.NoDirExists(t, filepath.Join(dir, "output"))
}

func TestRunStrictFailure(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, filepath.Join(dir, "good.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644))

	code, out, _ := runCLI(t, "-dir", dir, "-scale", "2")
	assert.Equal(t, exitOK, code, "failures alone do not change the exit code")
	assert.Contains(t, out, "❌ Error broken.png")

	code, _, _ = runCLI(t, "-dir", dir, "-scale", "2", "-strict")
	assert.Equal(t, exitFailed, code)
}

func TestRunExcludesExecutable(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, filepath.Join(dir, "iconsharp.png"))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{filepath.Join(dir, "iconsharp.png"), "-dir", dir}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "No ICO/JPEG/JPG/PNG files found")
}

func TestRunConfigErrors(t *testing.T) {
	dir := t.TempDir()

	code, _, errOut := runCLI(t, "-dir", dir, "-scale", "0")
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, errOut, "scale_factor")

	code, _, _ = runCLI(t, "-config", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, exitConfig, code)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("unknown_key: 1\n"), 0o644))
	code, _, _ = runCLI(t, "-config", bad)
	assert.Equal(t, exitConfig, code)

	code, _, _ = runCLI(t, "-no-such-flag")
	assert.Equal(t, exitConfig, code)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iconsharp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input_dir: /from/file\nscale_factor: 4\noutput_dir: sharp\n"), 0o644))

	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"iconsharp", "-config", path, "-scale", "8"}, &stderr)
	require.NoError(t, err)

	cfg, err := loadConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "/from/file", cfg.InputDir)
	assert.Equal(t, "sharp", cfg.OutputDir)
	assert.Equal(t, 8, cfg.ScaleFactor)
}
