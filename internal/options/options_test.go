package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateZeroValueIsValid(t *testing.T) {
	opts := ConversionOptions{}
	require.NoError(t, opts.Validate())
}

func TestValidateWatermark(t *testing.T) {
	tests := []struct {
		name    string
		wm      Watermark
		wantErr bool
	}{
		{name: "valid", wm: Watermark{Path: "logo.png", Opacity: 0.5, SizeRatio: 0.1}},
		{name: "missing path", wm: Watermark{Opacity: 0.5}, wantErr: true},
		{name: "opacity above one", wm: Watermark{Path: "logo.png", Opacity: 1.5}, wantErr: true},
		{name: "negative size ratio", wm: Watermark{Path: "logo.png", SizeRatio: -0.1}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := ConversionOptions{Watermark: &tc.wm}
			err := opts.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRejectsNegativeNumerics(t *testing.T) {
	opts := ConversionOptions{FPS: -1}
	assert.Error(t, opts.Validate())

	opts = ConversionOptions{BlurRadius: -2.0}
	assert.Error(t, opts.Validate())
}
