// Package format holds the static capability tables for the converter:
// supported input and output formats, codec name mappings, and quality
// presets. The tables are populated at init and never mutated afterwards;
// all access goes through lookup functions.
package format

import (
	"errors"
	"sort"
	"strings"
)

// Static errors for format resolution.
var (
	// ErrUnsupportedFormat is returned when a requested output format,
	// container, or codec name is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported output format")
	// ErrUnsupportedInputFormat is returned when an input file's extension
	// is not a recognized image format.
	ErrUnsupportedInputFormat = errors.New("unsupported input format")
)

// Image describes the capabilities of an image output format.
type Image struct {
	// Name is the canonical encoder name (e.g. "jpeg", "png").
	Name string
	// Extension is the default file extension, without dot.
	Extension string
	// Lossy formats accept a quality setting; lossless formats ignore it.
	Lossy bool
	// Alpha reports whether the format can store an alpha channel.
	Alpha bool
	// Progressive reports whether the format supports progressive encoding.
	Progressive bool
	// Palette reports whether the format can store indexed-palette pixels.
	Palette bool
}

// imageOutputs maps user-facing format names (and extension aliases) to
// their capabilities.
var imageOutputs = map[string]Image{
	"jpg":  {Name: "jpeg", Extension: "jpg", Lossy: true, Progressive: true},
	"jpeg": {Name: "jpeg", Extension: "jpeg", Lossy: true, Progressive: true},
	"png":  {Name: "png", Extension: "png", Alpha: true, Palette: true},
	"webp": {Name: "webp", Extension: "webp", Lossy: true, Alpha: true},
	"tiff": {Name: "tiff", Extension: "tiff", Alpha: true},
	"tif":  {Name: "tiff", Extension: "tif", Alpha: true},
	"bmp":  {Name: "bmp", Extension: "bmp"},
	"gif":  {Name: "gif", Extension: "gif", Alpha: true, Palette: true},
}

// imageInputExts is the set of file extensions accepted as image input.
var imageInputExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// videoContainers is the set of supported output containers.
var videoContainers = map[string]bool{
	"mp4":  true,
	"avi":  true,
	"mkv":  true,
	"webm": true,
	"mov":  true,
	"flv":  true,
	"m4v":  true,
}

// videoCodecs maps user-facing codec names to ffmpeg encoder names.
var videoCodecs = map[string]string{
	"h264": "libx264",
	"h265": "libx265",
	"vp9":  "libvpx-vp9",
	"av1":  "libaom-av1",
}

// audioCodecs maps user-facing codec names to ffmpeg encoder names.
var audioCodecs = map[string]string{
	"aac":  "aac",
	"mp3":  "libmp3lame",
	"opus": "libopus",
}

// VideoQuality is a resolved video quality preset: a CRF value plus an
// encoder speed preset name.
type VideoQuality struct {
	CRF         int
	SpeedPreset string
}

// videoPresets maps quality preset names to CRF/speed pairs.
var videoPresets = map[string]VideoQuality{
	"low":      {CRF: 28, SpeedPreset: "fast"},
	"medium":   {CRF: 23, SpeedPreset: "medium"},
	"high":     {CRF: 18, SpeedPreset: "slow"},
	"lossless": {CRF: 0, SpeedPreset: "veryslow"},
}

// imagePresets maps quality preset names to numeric quality values.
var imagePresets = map[string]int{
	"low":     60,
	"medium":  85,
	"high":    95,
	"maximum": 100,
}

// speedPresets is the set of valid encoder speed preset names (x264/x265).
var speedPresets = map[string]bool{
	"ultrafast": true,
	"superfast": true,
	"veryfast":  true,
	"faster":    true,
	"fast":      true,
	"medium":    true,
	"slow":      true,
	"slower":    true,
	"veryslow":  true,
}

// Defaults used when the corresponding option is unset.
const (
	DefaultVideoCodec     = "h264"
	DefaultAudioCodec     = "aac"
	DefaultVideoContainer = "mp4"
	DefaultImageQuality   = 85
	DefaultVideoQuality   = "medium"
)

// LookupImage returns the capabilities for an image output format name.
// The name is matched case-insensitively and may carry a leading dot.
func LookupImage(name string) (Image, bool) {
	f, ok := imageOutputs[normalize(name)]
	return f, ok
}

// IsImageInput reports whether the extension (with or without dot) is a
// recognized image input format.
func IsImageInput(ext string) bool {
	return imageInputExts["."+normalize(ext)]
}

// IsVideoContainer reports whether name is a supported output container.
func IsVideoContainer(name string) bool {
	return videoContainers[normalize(name)]
}

// VideoCodec returns the ffmpeg encoder name for a video codec.
func VideoCodec(name string) (string, bool) {
	enc, ok := videoCodecs[normalize(name)]
	return enc, ok
}

// AudioCodec returns the ffmpeg encoder name for an audio codec.
func AudioCodec(name string) (string, bool) {
	enc, ok := audioCodecs[normalize(name)]
	return enc, ok
}

// VideoPreset returns the CRF/speed pair for a video quality preset name.
func VideoPreset(name string) (VideoQuality, bool) {
	q, ok := videoPresets[normalize(name)]
	return q, ok
}

// ImagePreset returns the numeric quality for an image preset name.
func ImagePreset(name string) (int, bool) {
	q, ok := imagePresets[normalize(name)]
	return q, ok
}

// IsSpeedPreset reports whether name is a valid encoder speed preset.
func IsSpeedPreset(name string) bool {
	return speedPresets[normalize(name)]
}

// ImageInputExtensions returns the sorted list of accepted input extensions.
func ImageInputExtensions() []string {
	exts := make([]string, 0, len(imageInputExts))
	for e := range imageInputExts {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

// ImageOutputNames returns the sorted list of image output format names.
func ImageOutputNames() []string {
	names := make([]string, 0, len(imageOutputs))
	for n := range imageOutputs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// VideoContainers returns the sorted list of supported containers.
func VideoContainers() []string {
	names := make([]string, 0, len(videoContainers))
	for n := range videoContainers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// VideoCodecNames returns the sorted list of supported video codec names.
func VideoCodecNames() []string {
	names := make([]string, 0, len(videoCodecs))
	for n := range videoCodecs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AudioCodecNames returns the sorted list of supported audio codec names.
func AudioCodecNames() []string {
	names := make([]string, 0, len(audioCodecs))
	for n := range audioCodecs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// VideoPresetNames returns the sorted list of video quality preset names.
func VideoPresetNames() []string {
	names := make([]string, 0, len(videoPresets))
	for n := range videoPresets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ImagePresetNames returns the sorted list of image quality preset names.
func ImagePresetNames() []string {
	names := make([]string, 0, len(imagePresets))
	for n := range imagePresets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
}
