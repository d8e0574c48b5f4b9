package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/FolkXa/mediaconv/internal/format"
	"github.com/FolkXa/mediaconv/internal/options"
)

// Kind selects which conversion path a batch uses.
type Kind int

const (
	// KindImage runs the in-process image pipeline.
	KindImage Kind = iota
	// KindVideo runs the external encoder.
	KindVideo
)

// Batch converts each input independently, writing outputs into outDir,
// and returns one Result per requested input. Missing inputs are recorded
// as failures without invoking the converter. Items are processed on a
// bounded worker pool; no file's outcome affects any other file.
func (c *Converter) Batch(ctx context.Context, kind Kind, inputs []string, outDir string, opts options.ConversionOptions) BatchResult {
	results := make(BatchResult, len(inputs))

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		err = fmt.Errorf("create output directory: %w", err)
		for _, in := range inputs {
			results[in] = Result{Input: in, Err: err}
		}
		return results
	}

	var pending []string
	for _, in := range inputs {
		if _, dup := results[in]; dup {
			continue
		}
		if _, err := os.Stat(in); err != nil {
			results[in] = Result{Input: in, Err: fmt.Errorf("%w: %s", ErrInputNotFound, in)}
			continue
		}
		// Reserve the slot; the real result replaces it below.
		results[in] = Result{Input: in}
		pending = append(pending, in)
	}

	if len(pending) == 0 {
		return results
	}

	type keyed struct {
		key string
		res Result
	}

	workers := c.workers
	if workers > len(pending) {
		workers = len(pending)
	}

	jobs := make(chan string)
	out := make(chan keyed, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range jobs {
				outPath := c.derivedOutputPath(kind, in, outDir, opts)
				c.logger.Info("processing",
					slog.String("input", in),
					slog.String("output", outPath),
				)
				var res Result
				switch kind {
				case KindVideo:
					res = c.Video(ctx, in, outPath, opts)
				default:
					res = c.Image(ctx, in, outPath, opts)
				}
				out <- keyed{key: in, res: res}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, in := range pending {
			select {
			case jobs <- in:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	done := 0
	for k := range out {
		results[k.key] = k.res
		done++
	}
	// Inputs never picked up due to cancellation keep their reserved slot
	// but must carry the context error.
	if done < len(pending) {
		for _, in := range pending {
			if r := results[in]; r.Output == "" && r.Err == nil {
				results[in] = Result{Input: in, Err: ctx.Err()}
			}
		}
	}

	return results
}

// derivedOutputPath computes the per-file output path inside outDir: the
// input's base name, with the extension replaced when an explicit output
// format was requested (videos default to the mp4 container).
func (c *Converter) derivedOutputPath(kind Kind, inputPath, outDir string, opts options.ConversionOptions) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	switch kind {
	case KindVideo:
		container := opts.Format
		if container == "" {
			container = format.DefaultVideoContainer
		}
		return filepath.Join(outDir, stem+"."+strings.ToLower(container))
	default:
		if opts.Format != "" {
			return filepath.Join(outDir, stem+"."+strings.ToLower(opts.Format))
		}
		return filepath.Join(outDir, base)
	}
}
