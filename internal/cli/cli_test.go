package cli

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FolkXa/mediaconv/internal/config"
	"github.com/FolkXa/mediaconv/internal/options"
	"github.com/FolkXa/mediaconv/internal/raster"
)

func TestVideoExtension(t *testing.T) {
	assert.Equal(t, "mp4", videoExtension(options.ConversionOptions{}))
	assert.Equal(t, "mkv", videoExtension(options.ConversionOptions{Format: "mkv"}))
	assert.Equal(t, "webm", videoExtension(options.ConversionOptions{Format: ".WEBM"}))
}

func TestDerivedSiblingPath(t *testing.T) {
	assert.Equal(t, "clip.mp4", derivedSiblingPath("clip.avi", "mp4"))
	// Same extension would overwrite the input.
	assert.Equal(t, "clip_converted.mp4", derivedSiblingPath("clip.mp4", "mp4"))
}

func TestImageOutputPathExplicit(t *testing.T) {
	got := imageOutputPath("in.png", "result.jpg", options.ConversionOptions{})
	assert.Equal(t, "result.jpg", got)
}

func TestImageOutputPathDirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	got := imageOutputPath(filepath.Join("src", "pic.png"), dir, options.ConversionOptions{Format: "webp"})
	assert.Equal(t, filepath.Join(dir, "pic.webp"), got)
}

func TestImageOutputPathDerived(t *testing.T) {
	got := imageOutputPath(filepath.Join("src", "pic.png"), "", options.ConversionOptions{Format: "jpg"})
	assert.Equal(t, filepath.Join("src", "pic.jpg"), got)

	// No format change: avoid overwriting the input in place.
	got = imageOutputPath(filepath.Join("src", "pic.png"), "", options.ConversionOptions{})
	assert.Equal(t, filepath.Join("src", "pic_converted.png"), got)
}

func TestApplyProfileFlagsWin(t *testing.T) {
	opts := options.ConversionOptions{Format: "png"}
	require.NoError(t, applyProfile("web", "", &opts))

	assert.Equal(t, "png", opts.Format)   // flag kept
	assert.Equal(t, "1920x", opts.Resize) // profile filled
	assert.True(t, opts.Optimize)
}

func TestApplyProfileUnknownName(t *testing.T) {
	opts := options.ConversionOptions{}
	assert.Error(t, applyProfile("nope", "", &opts))
}

func TestApplyProfileNoName(t *testing.T) {
	opts := options.ConversionOptions{}
	require.NoError(t, applyProfile("", "", &opts))
	assert.Equal(t, options.ConversionOptions{}, opts)
}

func TestRunUnknownCommand(t *testing.T) {
	assert.Equal(t, 1, Run([]string{"transmogrify"}))
	assert.Equal(t, 1, Run(nil))
	assert.Equal(t, 0, Run([]string{"help"}))
}

func TestRunFormats(t *testing.T) {
	assert.Equal(t, 0, Run([]string{"formats"}))
}

func TestImageCmdMissingInput(t *testing.T) {
	cfg := testConfig(t)
	a := newApp(cfg, cfg.NewLogger())

	code := a.imageCmd([]string{filepath.Join(t.TempDir(), "missing.png")})
	assert.Equal(t, 1, code)
}

func TestImageCmdNoInputs(t *testing.T) {
	cfg := testConfig(t)
	a := newApp(cfg, cfg.NewLogger())

	assert.Equal(t, 1, a.imageCmd(nil))
	assert.Equal(t, 1, a.videoCmd(nil))
}

func TestInfoCmdImage(t *testing.T) {
	cfg := testConfig(t)
	a := newApp(cfg, cfg.NewLogger())

	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	img := imaging.New(6, 4, color.NRGBA{R: 9, A: 255})
	require.NoError(t, imaging.Save(img, in))

	// Go-encoded PNGs carry no EXIF; the command still succeeds.
	assert.Equal(t, 0, a.infoCmd([]string{in}))
	assert.Equal(t, 1, a.infoCmd([]string{filepath.Join(dir, "gone.png")}))
	assert.Equal(t, 1, a.infoCmd(nil))
}

func TestThumbnailCmdImage(t *testing.T) {
	cfg := testConfig(t)
	a := newApp(cfg, cfg.NewLogger())

	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "thumb.png")
	img := imaging.New(20, 10, color.NRGBA{R: 50, G: 60, B: 70, A: 255})
	require.NoError(t, imaging.Save(img, in))

	code := a.thumbnailCmd([]string{"-o", out, "-size", "8x8", in})
	require.Equal(t, 0, code)

	_, src, err := raster.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 8, src.Width)
	assert.Equal(t, 4, src.Height)
}

func TestThumbnailCmdBadSize(t *testing.T) {
	cfg := testConfig(t)
	a := newApp(cfg, cfg.NewLogger())

	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	img := imaging.New(4, 4, color.NRGBA{A: 255})
	require.NoError(t, imaging.Save(img, in))

	assert.Equal(t, 1, a.thumbnailCmd([]string{"-size", "tiny", in}))
}

func TestVideoCmdEncoderUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.FFmpegPath = filepath.Join(t.TempDir(), "no-such-ffmpeg")
	a := newApp(cfg, cfg.NewLogger())

	dir := t.TempDir()
	in := filepath.Join(dir, "in.mp4")
	require.NoError(t, os.WriteFile(in, []byte("stub"), 0o600))

	code := a.videoCmd([]string{"-o", filepath.Join(dir, "out.mp4"), in})
	assert.Equal(t, 1, code)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}
