package enhance

import (
	"time"

	"github.com/nvr-ai/go-iconsharp/images"
)

// Result reports the outcome of processing one file: the written output on
// success, or the reason it failed.
type Result struct {
	// Input is the source path.
	Input string
	// Output is the path written, empty on failure.
	Output string
	// Format is the source format.
	Format images.ImageFormat
	// Width and Height are the dimensions of both input and output.
	Width  int
	Height int
	// Bytes is the size of the written file.
	Bytes int64
	// Checksum identifies the output pixels.
	Checksum string
	// Duration is the wall time spent on the file.
	Duration time.Duration
	// Err is the failure reason, nil on success.
	Err error
}

// OK reports whether the file was processed and written.
func (r Result) OK() bool {
	return r.Err == nil
}
