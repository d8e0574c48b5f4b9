package options

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseResizeSpec turns an image resize spec into concrete target
// dimensions. Three forms are accepted, tried in order:
//
//   - "N%"  — scale both dimensions by N/100
//   - "WxH" — explicit dimensions; either side may be empty, in which case
//     it is derived from the other side using the source aspect ratio
//   - "W"   — target width; height is derived from the aspect ratio
//
// Derived dimensions truncate toward zero in every path. Anything else is
// an ErrInvalidSpec.
func ParseResizeSpec(spec string, origWidth, origHeight int) (int, int, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty spec", ErrInvalidSpec)
	}
	if origWidth <= 0 || origHeight <= 0 {
		return 0, 0, fmt.Errorf("%w: source dimensions %dx%d", ErrInvalidSpec, origWidth, origHeight)
	}

	if strings.HasSuffix(s, "%") {
		return parsePercentage(strings.TrimSuffix(s, "%"), origWidth, origHeight)
	}

	if strings.ContainsAny(s, "xX") {
		return parseDimensions(s, origWidth, origHeight)
	}

	width, err := parsePositiveInt(s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}
	return width, derive(width, origHeight, origWidth), nil
}

// ParseResolution parses the video scale grammar: a literal "WxH" with both
// sides present as positive integers. Percentages and omitted sides are not
// accepted here.
func ParseResolution(spec string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(spec)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: resolution must be WxH, got %q", ErrInvalidSpec, spec)
	}
	width, werr := parsePositiveInt(parts[0])
	height, herr := parsePositiveInt(parts[1])
	if werr != nil || herr != nil {
		return 0, 0, fmt.Errorf("%w: resolution must be WxH, got %q", ErrInvalidSpec, spec)
	}
	return width, height, nil
}

func parsePercentage(num string, origWidth, origHeight int) (int, int, error) {
	pct, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || pct <= 0 {
		return 0, 0, fmt.Errorf("%w: percentage %q", ErrInvalidSpec, num+"%")
	}
	width := int(float64(origWidth) * pct / 100)
	height := int(float64(origHeight) * pct / 100)
	if width < 1 || height < 1 {
		return 0, 0, fmt.Errorf("%w: %q scales %dx%d below one pixel", ErrInvalidSpec, num+"%", origWidth, origHeight)
	}
	return width, height, nil
}

func parseDimensions(s string, origWidth, origHeight int) (int, int, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSpec, s)
	}
	ws, hs := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if ws == "" && hs == "" {
		return 0, 0, fmt.Errorf("%w: %q has no dimensions", ErrInvalidSpec, s)
	}

	var width, height int
	var err error
	if ws != "" {
		if width, err = parsePositiveInt(ws); err != nil {
			return 0, 0, fmt.Errorf("%w: width %q", ErrInvalidSpec, ws)
		}
	}
	if hs != "" {
		if height, err = parsePositiveInt(hs); err != nil {
			return 0, 0, fmt.Errorf("%w: height %q", ErrInvalidSpec, hs)
		}
	}

	// An omitted side preserves the source aspect ratio.
	if ws == "" {
		width = derive(height, origWidth, origHeight)
	}
	if hs == "" {
		height = derive(width, origHeight, origWidth)
	}
	return width, height, nil
}

// derive computes n*num/den with truncation toward zero, clamped to at
// least one pixel.
func derive(n, num, den int) int {
	v := n * num / den
	if v < 1 {
		v = 1
	}
	return v
}

func parsePositiveInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("value %d is not positive", v)
	}
	return v, nil
}
