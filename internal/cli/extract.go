package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FolkXa/mediaconv/internal/format"
	"github.com/FolkXa/mediaconv/internal/options"
	"github.com/FolkXa/mediaconv/internal/raster"
)

func (a *app) extractAudioCmd(args []string) int {
	var output, audioFormat string
	fs := flag.NewFlagSet("extract-audio", flag.ContinueOnError)
	fs.StringVar(&output, "o", "", "output path")
	fs.StringVar(&output, "output", "", "output path")
	fs.StringVar(&audioFormat, "f", "mp3", "audio format")
	fs.StringVar(&audioFormat, "format", "mp3", "audio format")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mediaconv extract-audio [flags] <video>")
		return 1
	}

	input := fs.Arg(0)
	if output == "" {
		output = derivedSiblingPath(input, strings.ToLower(audioFormat))
	}
	if err := a.runner.ExtractAudio(context.Background(), input, output, audioFormat); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("extracted %s -> %s\n", input, output)
	return 0
}

func (a *app) thumbnailCmd(args []string) int {
	var output, timestamp, size string
	fs := flag.NewFlagSet("thumbnail", flag.ContinueOnError)
	fs.StringVar(&output, "o", "", "output path")
	fs.StringVar(&output, "output", "", "output path")
	fs.StringVar(&timestamp, "time", "", "frame timestamp for videos (HH:MM:SS)")
	fs.StringVar(&size, "size", "300x300", "bounding box WxH")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mediaconv thumbnail [flags] <file>")
		return 1
	}

	input := fs.Arg(0)
	if output == "" {
		stem := strings.TrimSuffix(input, filepath.Ext(input))
		output = stem + "_thumb.jpg"
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(input)), ".")
	if format.IsImageInput(ext) {
		return a.imageThumbnail(input, output, size)
	}
	if err := a.runner.FrameThumbnail(context.Background(), input, output, timestamp); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("thumbnail %s -> %s\n", input, output)
	return 0
}

func (a *app) imageThumbnail(input, output, size string) int {
	width, height, err := options.ParseResolution(size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	img, _, err := raster.Decode(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	thumb := raster.Thumbnail(img, width, height)

	f, err := raster.ResolveFormat("", output, "jpeg")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	params := raster.SaveParams{}
	if f.Lossy {
		params.Quality = format.DefaultImageQuality
	}
	if err := a.codec.Save(thumb, output, f.Name, params); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Printf("thumbnail %s -> %s\n", input, output)
	return 0
}
