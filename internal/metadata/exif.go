// Package metadata reads EXIF metadata from image files. Extraction is
// best-effort throughout: a file without EXIF data (or in a format that
// carries none) yields an empty summary, never an error that would stop a
// conversion or an info query.
package metadata

import (
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// summary tags worth reporting, in display order.
var summaryFields = []exif.FieldName{
	exif.Make,
	exif.Model,
	exif.LensModel,
	exif.ISOSpeedRatings,
	exif.FNumber,
	exif.ExposureTime,
	exif.FocalLength,
}

// Summary extracts a human-readable subset of a file's EXIF tags. Missing
// tags are simply omitted.
func Summary(path string) map[string]string {
	out := make(map[string]string)

	f, err := os.Open(path) // #nosec G304 - path comes from the CLI invocation
	if err != nil {
		return out
	}
	defer func() { _ = f.Close() }()

	x, err := exif.Decode(f)
	if err != nil {
		return out
	}

	if dt, err := x.DateTime(); err == nil {
		out["DateTimeOriginal"] = dt.Format("2006:01:02 15:04:05")
	}
	for _, field := range summaryFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if s, err := tag.StringVal(); err == nil {
			out[string(field)] = s
		} else {
			out[string(field)] = tag.String()
		}
	}
	return out
}

// HasEXIF reports whether the file carries decodable EXIF data.
func HasEXIF(path string) bool {
	f, err := os.Open(path) // #nosec G304 - path comes from the CLI invocation
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()
	_, err = exif.Decode(f)
	return err == nil
}

// Format renders a summary map as "key=value" pairs for log output.
func Format(summary map[string]string) string {
	s := ""
	for k, v := range summary {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("%s=%q", k, v)
	}
	return s
}
