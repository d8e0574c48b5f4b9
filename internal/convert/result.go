// Package convert drives single-file and batch media conversions: input
// validation, output path resolution, pipeline/command construction, and
// result verification. Failures never escape a conversion as errors; they
// are normalized into Result values so that batch processing can continue
// past individual files.
package convert

import "errors"

// Static errors for conversion outcomes.
var (
	// ErrInputNotFound is returned when an input file does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrEncodeFailure is returned when the external encoder reports
	// success but the output file is missing or empty.
	ErrEncodeFailure = errors.New("encoder produced no usable output")
)

// Result is the outcome of one file conversion.
type Result struct {
	// Input is the requested input path, as given.
	Input string
	// Output is the path the conversion wrote (or would have written).
	Output string
	// Err is nil on success and carries the failure reason otherwise.
	Err error
}

// OK reports whether the conversion succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Reason returns a human-readable failure message, or "" on success.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// BatchResult maps each requested input to its outcome. It holds exactly
// one entry per requested input, including inputs that never existed.
type BatchResult map[string]Result

// Succeeded counts successful conversions.
func (b BatchResult) Succeeded() int {
	n := 0
	for _, r := range b {
		if r.OK() {
			n++
		}
	}
	return n
}
