package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/FolkXa/mediaconv/internal/format"
	"github.com/FolkXa/mediaconv/internal/metadata"
	"github.com/FolkXa/mediaconv/internal/raster"
)

func (a *app) infoCmd(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: mediaconv info <file>")
		return 1
	}
	path := args[0]
	fi, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("file:   %s\n", path)
	fmt.Printf("size:   %d bytes\n", fi.Size())

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format.IsImageInput(ext) {
		return a.imageInfo(path)
	}
	return a.videoInfo(path)
}

func (a *app) imageInfo(path string) int {
	_, src, err := raster.Decode(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("format: %s\n", src.Format)
	fmt.Printf("size:   %dx%d\n", src.Width, src.Height)
	fmt.Printf("alpha:  %t\n", src.HasAlpha)

	if !metadata.HasEXIF(path) {
		fmt.Println("exif:   none")
		return 0
	}
	summary := metadata.Summary(path)
	a.logger.Debug("exif summary",
		slog.String("file", path),
		slog.String("fields", metadata.Format(summary)),
	)
	fmt.Println("exif:")
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %s\n", k, summary[k])
	}
	return 0
}

func (a *app) videoInfo(path string) int {
	probe, err := a.runner.Probe(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("format: %s\n", probe.Format.FormatName)
	if probe.Format.Duration != "" {
		fmt.Printf("duration: %ss\n", probe.Format.Duration)
	}
	if probe.Format.BitRate != "" {
		fmt.Printf("bitrate: %s\n", probe.Format.BitRate)
	}
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "video":
			fmt.Printf("video:  %s %dx%d", s.CodecName, s.Width, s.Height)
			if s.FrameRate != "" {
				fmt.Printf(" %s fps", s.FrameRate)
			}
			fmt.Println()
		case "audio":
			fmt.Printf("audio:  %s", s.CodecName)
			if s.SampleRate != "" {
				fmt.Printf(" %s Hz", s.SampleRate)
			}
			fmt.Println()
		}
	}
	return 0
}

func (a *app) formatsCmd() int {
	fmt.Println("image inputs:    " + strings.Join(format.ImageInputExtensions(), ", "))
	fmt.Println("image outputs:   " + strings.Join(format.ImageOutputNames(), ", "))
	fmt.Println("image presets:   " + strings.Join(format.ImagePresetNames(), ", "))
	fmt.Println("video containers:" + " " + strings.Join(format.VideoContainers(), ", "))
	fmt.Println("video codecs:    " + strings.Join(format.VideoCodecNames(), ", "))
	fmt.Println("audio codecs:    " + strings.Join(format.AudioCodecNames(), ", "))
	fmt.Println("video presets:   " + strings.Join(format.VideoPresetNames(), ", "))
	return 0
}
