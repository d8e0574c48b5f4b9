package raster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// ErrEncoderUnavailable is returned when an external encoder binary cannot
// be found on the system.
var ErrEncoderUnavailable = errors.New("external encoder not available")

// WebPEncoder encodes images to webp by shelling out to the cwebp binary.
// The in-memory image is written to a temporary lossless PNG first, since
// cwebp only reads files.
type WebPEncoder struct {
	cwebpPath string
	tempDir   string
}

// NewWebPEncoder creates a WebPEncoder. If cwebpPath is empty, "cwebp" is
// resolved from PATH; an empty tempDir means the operating system's temp
// directory.
func NewWebPEncoder(cwebpPath, tempDir string) *WebPEncoder {
	if cwebpPath == "" {
		cwebpPath = "cwebp"
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &WebPEncoder{cwebpPath: cwebpPath, tempDir: tempDir}
}

// tempPath returns a uuid-named scratch file path inside the configured
// temp directory.
func (e *WebPEncoder) tempPath(ext string) string {
	return filepath.Join(e.tempDir, "mediaconv_"+uuid.NewString()+ext)
}

// Available reports whether the cwebp binary can be found.
func (e *WebPEncoder) Available() error {
	if _, err := exec.LookPath(e.cwebpPath); err != nil {
		return fmt.Errorf("%w: %s", ErrEncoderUnavailable, e.cwebpPath)
	}
	return nil
}

// Encode writes img to path as webp.
func (e *WebPEncoder) Encode(img image.Image, path string, p SaveParams) error {
	if err := e.Available(); err != nil {
		return err
	}

	tmp := e.tempPath(".png")
	defer func() { _ = os.Remove(tmp) }()
	if err := writePNG(img, tmp); err != nil {
		return err
	}

	quality := p.Quality
	if quality <= 0 || quality > 100 {
		quality = 75 // cwebp default
	}
	args := []string{"-q", strconv.Itoa(quality)}
	if p.Optimize {
		// Slowest compression method, smallest output.
		args = append(args, "-m", "6")
	}
	args = append(args, tmp, "-o", path)

	// #nosec G204 - the binary path is configuration, not user input
	cmd := exec.Command(e.cwebpPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("cwebp failed: %w, output: %s", err, out)
	}
	return nil
}

// EstimateSize encodes to a temporary file and returns its size.
func (e *WebPEncoder) EstimateSize(img image.Image, p SaveParams) (int64, error) {
	tmp := e.tempPath(".webp")
	defer func() { _ = os.Remove(tmp) }()
	if err := e.Encode(img, tmp, p); err != nil {
		return 0, err
	}
	info, err := os.Stat(tmp)
	if err != nil {
		return 0, fmt.Errorf("stat webp output: %w", err)
	}
	return info.Size(), nil
}

func writePNG(img image.Image, path string) error {
	f, err := os.Create(path) // #nosec G304 - temp path generated above
	if err != nil {
		return fmt.Errorf("create temp png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode temp png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp png: %w", err)
	}
	return nil
}
