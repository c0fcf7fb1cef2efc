// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tool invokes external SVG rasterizer binaries. Each invocation takes
// an input path, an output path and a pixel size, and reports the process exit
// status with its stderr text. The tool writes the output file itself.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

const (
	binRsvg     = "rsvg-convert"
	binInkscape = "inkscape"
)

// ErrToolNotFound is returned when a rasterizer binary is missing from PATH.
var ErrToolNotFound = errors.New("rasterizer not found")

// Request is the input of one rasterization.
type Request struct {
	Input  string
	Output string
	Width  int
	Height int
}

// Outcome is what the process reported.
type Outcome struct {
	ExitCode int
	Stderr   string
}

// ExitError reports a tool that ran but exited non-zero.
type ExitError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Tool, e.ExitCode, e.Stderr)
}

// Tool is an external rasterizer.
type Tool interface {
	// Name returns the binary name ("rsvg-convert" or "inkscape").
	Name() string

	// Available reports whether the binary is on PATH and answers --version.
	Available(ctx context.Context) bool

	// Invoke runs the tool for one request and waits for it to exit.
	// A non-zero exit returns the Outcome together with an *ExitError.
	Invoke(ctx context.Context, req Request) (Outcome, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	// Run starts name and waits. A process that ran reports its exit code
	// with a nil error; err is set only when it could not run to completion.
	Run(ctx context.Context, name string, args []string, stderr io.Writer) (int, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	err := cmd.Run()
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

// binary implements Tool for one rasterizer. rsvg-convert and inkscape share
// the same logic and differ only in name and argument layout.
type binary struct {
	bin  string
	args func(Request) []string
	exec executor
}

func (b *binary) Name() string { return b.bin }

func (b *binary) Available(ctx context.Context) bool {
	if _, err := b.exec.LookPath(b.bin); err != nil {
		return false
	}
	return b.exec.RunSilent(ctx, b.bin, "--version") == nil
}

func (b *binary) Invoke(ctx context.Context, req Request) (Outcome, error) {
	var stderr bytes.Buffer
	code, err := b.exec.Run(ctx, b.bin, b.args(req), &stderr)
	out := Outcome{ExitCode: code, Stderr: strings.TrimSpace(stderr.String())}
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return out, fmt.Errorf("%w: %s: %v", ErrToolNotFound, b.bin, err)
		}
		return out, fmt.Errorf("running %s: %w", b.bin, err)
	}
	if code != 0 {
		return out, &ExitError{Tool: b.bin, ExitCode: code, Stderr: out.Stderr}
	}
	return out, nil
}

func rsvgArgs(req Request) []string {
	return []string{
		"-w", strconv.Itoa(req.Width),
		"-h", strconv.Itoa(req.Height),
		"-f", "png",
		"-o", req.Output,
		req.Input,
	}
}

func inkscapeArgs(req Request) []string {
	return []string{
		req.Input,
		"--export-type=png",
		"--export-filename=" + req.Output,
		"-w", strconv.Itoa(req.Width),
		"-h", strconv.Itoa(req.Height),
	}
}

func newRsvg(exec executor) *binary {
	return &binary{bin: binRsvg, args: rsvgArgs, exec: exec}
}

func newInkscape(exec executor) *binary {
	return &binary{bin: binInkscape, args: inkscapeArgs, exec: exec}
}

var defaultExec = &osExecutor{}

// Rsvg returns the rsvg-convert tool.
func Rsvg() Tool { return newRsvg(defaultExec) }

// Inkscape returns the inkscape tool.
func Inkscape() Tool { return newInkscape(defaultExec) }

// All returns every supported tool in detection order.
func All() []Tool { return []Tool{Rsvg(), Inkscape()} }

// Detect tries rsvg-convert first and falls back to inkscape. It returns an
// error wrapping ErrToolNotFound if neither is usable.
func Detect(ctx context.Context) (Tool, error) {
	return detect(ctx, defaultExec)
}

func detect(ctx context.Context, exec executor) (Tool, error) {
	for _, t := range []*binary{newRsvg(exec), newInkscape(exec)} {
		if t.Available(ctx) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: neither %s nor %s found or operational",
		ErrToolNotFound, binRsvg, binInkscape)
}
