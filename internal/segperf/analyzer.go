package segperf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(a *Analyzer) {
		if exec != nil {
			a.exec = exec
		}
	}
}

// WithTimeout bounds each evaluation invocation. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(a *Analyzer) {
		a.timeout = timeout
	}
}

// Analyzer wraps animaSegPerfAnalyzer invocations.
type Analyzer struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// Request names the inputs for one subject evaluation. The analyzer writes
// its XML report next to OutputPrefix.
type Request struct {
	PredictionPath string
	ReferencePath  string
	OutputPrefix   string
}

// New constructs an analyzer client for the given binary path.
func New(binary string, opts ...Option) (*Analyzer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("analyzer binary required")
	}
	analyzer := &Analyzer{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(analyzer)
	}
	return analyzer, nil
}

// Version probes the binary and returns its trimmed version output.
func (a *Analyzer) Version(ctx context.Context) (string, error) {
	output, err := a.exec.Run(ctx, a.binary, []string{"--version"})
	if err != nil {
		return "", fmt.Errorf("segperf version: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return strings.TrimSpace(string(output)), nil
}

// Evaluate scores one prediction against its reference. The exit status is
// checked; any failure surfaces the tool's combined output in the error.
func (a *Analyzer) Evaluate(ctx context.Context, req Request) error {
	args, err := buildArgs(req)
	if err != nil {
		return err
	}

	runCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	output, err := a.exec.Run(runCtx, a.binary, args)
	if err != nil {
		return fmt.Errorf("segperf evaluate: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs assembles the analyzer flag set: the prediction (-i) is scored
// against the reference (-r) with surface-distance (-d) and segmentation
// evaluation (-s) enabled, writing XML (-X) under the output prefix (-o).
func buildArgs(req Request) ([]string, error) {
	pred := strings.TrimSpace(req.PredictionPath)
	ref := strings.TrimSpace(req.ReferencePath)
	prefix := strings.TrimSpace(req.OutputPrefix)
	if pred == "" {
		return nil, errors.New("prediction path required")
	}
	if ref == "" {
		return nil, errors.New("reference path required")
	}
	if prefix == "" {
		return nil, errors.New("output prefix required")
	}
	return []string{"-i", pred, "-r", ref, "-o", prefix, "-d", "-s", "-X"}, nil
}

// ReportPath returns the XML report location the analyzer derives from an
// output prefix.
func ReportPath(outputPrefix string) string {
	return outputPrefix + "_global.xml"
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}
