package video

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Static errors for the ffmpeg runner.
var (
	// ErrEncoderUnavailable is returned when the ffmpeg binary cannot be
	// found.
	ErrEncoderUnavailable = errors.New("ffmpeg not available")
	// ErrProbeUnavailable is returned when the ffprobe binary cannot be
	// found.
	ErrProbeUnavailable = errors.New("ffprobe not available")
)

// stderrTailLines is how many trailing diagnostic lines are kept for error
// reporting.
const stderrTailLines = 30

// ProgressFunc receives the raw encoder timestamp (the value of the time=
// field) as the encode advances. It is purely informational.
type ProgressFunc func(timestamp string)

// Runner executes ffmpeg invocations and ffprobe queries.
type Runner struct {
	ffmpegPath  string
	ffprobePath string
	// timeout bounds a single encode; zero means no timeout.
	timeout time.Duration
}

// NewRunner creates a Runner. Empty paths default to "ffmpeg" and
// "ffprobe" resolved from PATH. A zero timeout leaves encodes unbounded.
func NewRunner(ffmpegPath, ffprobePath string, timeout time.Duration) *Runner {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Runner{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, timeout: timeout}
}

// Available reports whether the ffmpeg binary can be found.
func (r *Runner) Available() error {
	if _, err := exec.LookPath(r.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrEncoderUnavailable, r.ffmpegPath)
	}
	return nil
}

// Convert runs the invocation to completion. ffmpeg writes its diagnostics
// to stderr; lines carrying a time= field are surfaced through progress
// (when non-nil) and the tail is retained for error reporting.
func (r *Runner) Convert(ctx context.Context, inv Invocation, progress ProgressFunc) error {
	if err := r.Available(); err != nil {
		return err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := inv.Args()
	// #nosec G204 - the binary path is configuration, not user input
	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	tail := scanDiagnostics(stderr, progress)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &ExecError{Args: args, Stderr: strings.Join(tail, "\n"), Err: err}
	}
	return nil
}

// scanDiagnostics consumes the encoder's stderr stream line by line,
// forwarding progress timestamps and keeping the trailing lines.
func scanDiagnostics(stderr io.Reader, progress ProgressFunc) []string {
	var tail []string
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanCRLines)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if ts := progressTimestamp(line); ts != "" && progress != nil {
			progress(ts)
		}
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
	}
	return tail
}

// scanCRLines splits on \n or \r; ffmpeg redraws its progress line with
// bare carriage returns.
func scanCRLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// progressTimestamp extracts the value of the time= field from an ffmpeg
// progress line, or returns "".
func progressTimestamp(line string) string {
	for _, field := range strings.Fields(line) {
		if v, ok := strings.CutPrefix(field, "time="); ok {
			return v
		}
	}
	return ""
}

// ExecError reports a failed ffmpeg run, including the trailing diagnostic
// output.
type ExecError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
