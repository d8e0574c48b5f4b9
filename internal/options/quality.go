package options

import (
	"fmt"
	"strconv"

	"github.com/FolkXa/mediaconv/internal/format"
)

// Quality is a tagged quality value: either a numeric quality (1-100) or a
// named preset, resolved once at the boundary. The zero value means "unset"
// and resolves to the documented default for the target domain.
type Quality struct {
	name    string
	numeric int
	isNamed bool
	set     bool
}

// NumericQuality builds a Quality from an integer value.
func NumericQuality(v int) Quality {
	return Quality{numeric: v, set: true}
}

// NamedQuality builds a Quality from a preset name.
func NamedQuality(name string) Quality {
	return Quality{name: name, isNamed: true, set: true}
}

// ParseQuality interprets a user-supplied quality string: all-digit strings
// become numeric values, everything else is treated as a preset name. An
// empty string yields the unset Quality.
func ParseQuality(s string) Quality {
	if s == "" {
		return Quality{}
	}
	if v, err := strconv.Atoi(s); err == nil {
		return NumericQuality(v)
	}
	return NamedQuality(s)
}

// IsZero reports whether the quality was left unset.
func (q Quality) IsZero() bool { return !q.set }

func (q Quality) String() string {
	switch {
	case !q.set:
		return ""
	case q.isNamed:
		return q.name
	default:
		return strconv.Itoa(q.numeric)
	}
}

// ResolveImageQuality normalizes a quality value for an image output format.
// It returns the numeric quality and whether the format uses it at all:
// lossless formats ignore quality, which is reported as applies=false
// rather than an error. Numeric values outside 1-100 and unknown preset
// names are validation errors.
func ResolveImageQuality(q Quality, f format.Image) (value int, applies bool, err error) {
	if !f.Lossy {
		return 0, false, nil
	}

	switch {
	case !q.set:
		value = format.DefaultImageQuality
	case q.isNamed:
		v, ok := format.ImagePreset(q.name)
		if !ok {
			return 0, false, fmt.Errorf("%w: %q", ErrUnknownPreset, q.name)
		}
		value = v
	default:
		value = q.numeric
	}

	if value < 1 || value > 100 {
		return 0, false, fmt.Errorf("%w: got %d", ErrQualityOutOfRange, value)
	}
	return value, true, nil
}

// ResolveVideoQuality maps a quality value to a CRF/speed-preset pair.
// Video quality is preset-based; numeric values are rejected.
func ResolveVideoQuality(q Quality) (format.VideoQuality, error) {
	name := format.DefaultVideoQuality
	if q.set {
		if !q.isNamed {
			return format.VideoQuality{}, fmt.Errorf("%w: video quality takes a preset name, got %d", ErrUnknownPreset, q.numeric)
		}
		name = q.name
	}

	vq, ok := format.VideoPreset(name)
	if !ok {
		return format.VideoQuality{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return vq, nil
}
