package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/FolkXa/mediaconv/internal/convert"
	"github.com/FolkXa/mediaconv/internal/options"
	"github.com/FolkXa/mediaconv/internal/profile"
)

type videoFlags struct {
	output      string
	format      string
	quality     string
	resolution  string
	bitrate     string
	fps         int
	start       string
	duration    string
	videoCodec  string
	audioCodec  string
	preset      string
	compress    bool
	batch       bool
	profileName string
	profileFile string
}

func (a *app) videoCmd(args []string) int {
	var vf videoFlags
	fs := flag.NewFlagSet("video", flag.ContinueOnError)
	fs.StringVar(&vf.output, "o", "", "output path")
	fs.StringVar(&vf.output, "output", "", "output path")
	fs.StringVar(&vf.format, "f", "", "output container")
	fs.StringVar(&vf.format, "format", "", "output container")
	fs.StringVar(&vf.quality, "q", "", "quality preset")
	fs.StringVar(&vf.quality, "quality", "", "quality preset")
	fs.StringVar(&vf.resolution, "r", "", "output resolution")
	fs.StringVar(&vf.resolution, "resolution", "", "output resolution")
	fs.StringVar(&vf.bitrate, "b", "", "video bitrate")
	fs.StringVar(&vf.bitrate, "bitrate", "", "video bitrate")
	fs.IntVar(&vf.fps, "fps", 0, "frame rate")
	fs.StringVar(&vf.start, "start", "", "clip start time")
	fs.StringVar(&vf.duration, "duration", "", "clip duration")
	fs.StringVar(&vf.videoCodec, "video-codec", "", "video codec")
	fs.StringVar(&vf.audioCodec, "audio-codec", "", "audio codec")
	fs.StringVar(&vf.preset, "preset", "", "encoder speed preset")
	fs.BoolVar(&vf.compress, "compress", false, "enable compression")
	fs.BoolVar(&vf.batch, "batch", false, "batch mode")
	fs.StringVar(&vf.profileName, "profile", "", "option profile name")
	fs.StringVar(&vf.profileFile, "profile-file", "", "profile YAML file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input files given")
		return 1
	}

	opts := options.ConversionOptions{
		Format:     vf.format,
		Resolution: vf.resolution,
		Bitrate:    vf.bitrate,
		FPS:        vf.fps,
		StartTime:  vf.start,
		Duration:   vf.duration,
		VideoCodec: vf.videoCodec,
		AudioCodec: vf.audioCodec,
		Preset:     vf.preset,
		Compress:   vf.compress,
	}
	opts.Quality = options.ParseQuality(vf.quality)
	if err := applyProfile(vf.profileName, vf.profileFile, &opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx := context.Background()

	if vf.batch || len(inputs) > 1 {
		outDir := vf.output
		if outDir == "" {
			outDir = "."
		}
		results := a.conv.Batch(ctx, convert.KindVideo, inputs, outDir, opts)
		return reportBatch(results, len(inputs))
	}

	input := inputs[0]
	output := vf.output
	if output == "" {
		output = derivedSiblingPath(input, videoExtension(opts))
	}
	a.conv.Progress = printProgress
	res := a.conv.Video(ctx, input, output, opts)
	fmt.Fprintln(os.Stderr)
	if !res.OK() {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", input, res.Reason())
		return 1
	}
	fmt.Printf("converted %s -> %s\n", input, res.Output)
	return 0
}

// videoExtension picks the output extension for a single-file conversion
// when no explicit output path was given.
func videoExtension(opts options.ConversionOptions) string {
	if opts.Format != "" {
		return strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	}
	return "mp4"
}

// derivedSiblingPath places the output next to the input with a new
// extension, appending a suffix when that would overwrite the input.
func derivedSiblingPath(input, ext string) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	out := stem + "." + ext
	if out == input {
		out = stem + "_converted." + ext
	}
	return out
}

func printProgress(timestamp string) {
	fmt.Fprintf(os.Stderr, "\rprogress: %s", timestamp)
}

// applyProfile resolves and applies a named option profile. Flags that were
// set explicitly keep their values; the profile only fills gaps.
func applyProfile(name, file string, opts *options.ConversionOptions) error {
	if name == "" {
		return nil
	}
	var extras map[string]profile.Profile
	if file != "" {
		var err error
		extras, err = profile.LoadFile(file)
		if err != nil {
			return err
		}
	}
	p, err := profile.Resolve(name, extras)
	if err != nil {
		return err
	}
	p.Apply(opts)
	return nil
}

func reportBatch(results convert.BatchResult, total int) int {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		res := results[k]
		if res.OK() {
			fmt.Printf("ok   %s -> %s\n", k, res.Output)
		} else {
			fmt.Printf("fail %s: %s\n", k, res.Reason())
		}
	}
	ok := results.Succeeded()
	fmt.Printf("completed: %d/%d\n", ok, total)
	if ok == 0 {
		return 1
	}
	return 0
}
