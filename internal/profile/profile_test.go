package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FolkXa/mediaconv/internal/options"
)

func TestResolveBuiltins(t *testing.T) {
	for _, name := range Names() {
		p, err := Resolve(name, nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name)
	}

	_, err := Resolve("nope", nil)
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestResolveExtrasShadowBuiltins(t *testing.T) {
	extras := map[string]Profile{
		"web": {Name: "web", Format: "jpeg"},
	}
	p, err := Resolve("web", extras)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", p.Format)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	content := `
social:
  format: jpg
  quality: "80"
  resize: 1080x1080
  strip_metadata: true
podcast:
  name: podcast-audio
  video_codec: h264
  bitrate: 500k
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	profiles, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	social := profiles["social"]
	assert.Equal(t, "social", social.Name) // backfilled from the map key
	assert.Equal(t, "jpg", social.Format)
	assert.Equal(t, "1080x1080", social.Resize)
	assert.True(t, social.StripMetadata)

	assert.Equal(t, "podcast-audio", profiles["podcast"].Name)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("[not a map"), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func TestApplyFillsOnlyUnsetFields(t *testing.T) {
	p := Profile{
		Format:        "webp",
		Quality:       "75",
		Resize:        "1920x",
		Optimize:      true,
		StripMetadata: true,
	}

	opts := options.ConversionOptions{Format: "png", Quality: options.NumericQuality(90)}
	p.Apply(&opts)

	// Explicit values win.
	assert.Equal(t, "png", opts.Format)
	assert.Equal(t, "90", opts.Quality.String())
	// Gaps are filled.
	assert.Equal(t, "1920x", opts.Resize)
	assert.True(t, opts.Optimize)
	assert.True(t, opts.StripMetadata)
}

func TestApplyVideoFields(t *testing.T) {
	p := Profile{VideoCodec: "vp9", AudioCodec: "opus", Bitrate: "1M", Preset: "slow", FPS: 24}

	opts := options.ConversionOptions{Bitrate: "2M"}
	p.Apply(&opts)

	assert.Equal(t, "vp9", opts.VideoCodec)
	assert.Equal(t, "opus", opts.AudioCodec)
	assert.Equal(t, "2M", opts.Bitrate)
	assert.Equal(t, "slow", opts.Preset)
	assert.Equal(t, 24, opts.FPS)
}
