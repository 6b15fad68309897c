package batch

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/nvr-ai/go-iconsharp/enhance"
)

// Report aggregates the per-file results of a run.
type Report struct {
	// OutputDir is where successful files were written.
	OutputDir string
	// Results holds one entry per attempted file, in processing order.
	Results []enhance.Result
}

// Add records a result.
func (r *Report) Add(res enhance.Result) {
	r.Results = append(r.Results, res)
}

// Processed is the number of files attempted.
func (r *Report) Processed() int {
	return len(r.Results)
}

// Succeeded is the number of files written.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Failed is the number of files that produced no output.
func (r *Report) Failed() int {
	return r.Processed() - r.Succeeded()
}

// Failures returns the failed results.
func (r *Report) Failures() []enhance.Result {
	var failed []enhance.Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// TotalBytes is the combined size of the written files.
func (r *Report) TotalBytes() int64 {
	var total int64
	for _, res := range r.Results {
		total += res.Bytes
	}
	return total
}

// Print writes the batch summary to w.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Done! Processed %d file(s): %d succeeded, %d failed. Check '%s' folder.\n",
		r.Processed(), r.Succeeded(), r.Failed(), filepath.Base(r.OutputDir))
	for _, res := range r.Failures() {
		fmt.Fprintf(w, "  ❌ %s: %v\n", filepath.Base(res.Input), res.Err)
	}
}
