// Package profile provides named bundles of conversion options: a few
// built-in profiles for common jobs, plus user-defined profiles loaded
// from a YAML file. A profile only fills fields the user left unset, so
// explicit flags always win.
package profile

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/FolkXa/mediaconv/internal/options"
)

// ErrUnknownProfile is returned when a profile name is not a built-in and
// not defined in the loaded profile file.
var ErrUnknownProfile = errors.New("unknown profile")

// Profile is a named bundle of option defaults. Zero-valued fields are not
// applied.
type Profile struct {
	Name          string `yaml:"name"`
	Format        string `yaml:"format"`
	Quality       string `yaml:"quality"`
	Resize        string `yaml:"resize"`
	Optimize      bool   `yaml:"optimize"`
	Progressive   bool   `yaml:"progressive"`
	StripMetadata bool   `yaml:"strip_metadata"`

	VideoCodec string `yaml:"video_codec"`
	AudioCodec string `yaml:"audio_codec"`
	Bitrate    string `yaml:"bitrate"`
	Preset     string `yaml:"preset"`
	FPS        int    `yaml:"fps"`
}

// builtins are always available without a profile file.
var builtins = map[string]Profile{
	"web": {
		Name:          "web",
		Format:        "webp",
		Quality:       "75",
		Resize:        "1920x",
		Optimize:      true,
		StripMetadata: true,
	},
	"archive": {
		Name:     "archive",
		Format:   "png",
		Optimize: true,
	},
	"thumbnail": {
		Name:          "thumbnail",
		Format:        "jpeg",
		Quality:       "low",
		Resize:        "300",
		Optimize:      true,
		StripMetadata: true,
	},
}

// Resolve returns a profile by name, checking extras (a loaded profile
// file) before the built-ins.
func Resolve(name string, extras map[string]Profile) (Profile, error) {
	if p, ok := extras[name]; ok {
		return p, nil
	}
	if p, ok := builtins[name]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Names returns all built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadFile reads user-defined profiles from a YAML file mapping profile
// names to definitions.
func LoadFile(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the CLI invocation
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}

	profiles := make(map[string]Profile)
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse profile file: %w", err)
	}
	for name, p := range profiles {
		if p.Name == "" {
			p.Name = name
			profiles[name] = p
		}
	}
	return profiles, nil
}

// Apply fills unset fields of o from the profile.
func (p Profile) Apply(o *options.ConversionOptions) {
	if o.Format == "" {
		o.Format = p.Format
	}
	if o.Quality.IsZero() && p.Quality != "" {
		o.Quality = options.ParseQuality(p.Quality)
	}
	if o.Resize == "" {
		o.Resize = p.Resize
	}
	if p.Optimize {
		o.Optimize = true
	}
	if p.Progressive {
		o.Progressive = true
	}
	if p.StripMetadata {
		o.StripMetadata = true
	}
	if o.VideoCodec == "" {
		o.VideoCodec = p.VideoCodec
	}
	if o.AudioCodec == "" {
		o.AudioCodec = p.AudioCodec
	}
	if o.Bitrate == "" {
		o.Bitrate = p.Bitrate
	}
	if o.Preset == "" {
		o.Preset = p.Preset
	}
	if o.FPS == 0 {
		o.FPS = p.FPS
	}
}
