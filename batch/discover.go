package batch

import (
	"path/filepath"
	"strings"

	"github.com/nvr-ai/go-iconsharp/images"
	"github.com/nvr-ai/go-iconsharp/util"
)

// ImprovedSuffix is appended to the stem of every output file.
const ImprovedSuffix = "_improved"

// Job pairs one input file with the path its enhanced copy is written to.
type Job struct {
	Input  string
	Output string
	Format images.ImageFormat
}

// OutputName derives the output file name for input: the stem plus
// "_improved", keeping an .ico extension (original spelling) and using .png
// for everything else.
func OutputName(input string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if strings.EqualFold(ext, ".ico") {
		return stem + ImprovedSuffix + ext
	}
	return stem + ImprovedSuffix + ".png"
}

// IsOwnOutput reports whether name is an earlier output of the tool that would
// be picked up again because outputDir is the input directory itself.
func IsOwnOutput(inputDir, outputDir, name string) bool {
	if filepath.Clean(inputDir) != filepath.Clean(outputDir) {
		return false
	}
	return strings.HasSuffix(strings.TrimSuffix(name, filepath.Ext(name)), ImprovedSuffix)
}

// Discover lists the eligible files in dir and plans one job per file, writing
// into outputDir. Files named in exclude are skipped, as are earlier outputs
// when outputDir is dir.
func Discover(dir, outputDir string, exclude []string) ([]Job, error) {
	files, err := util.ListImageFiles(dir, exclude)
	if err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(files))
	for _, f := range files {
		if IsOwnOutput(dir, outputDir, f.Name) {
			continue
		}
		jobs = append(jobs, Job{
			Input:  f.Path,
			Output: filepath.Join(outputDir, OutputName(f.Name)),
			Format: f.Format,
		})
	}
	return jobs, nil
}
