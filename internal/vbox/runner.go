package vbox

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
)

// Runner executes VBoxManage with an argument vector and returns the captured
// standard output verbatim. Implementations block until the process exits.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// Compile-time interface check.
var _ Runner = (*CLIRunner)(nil)

// DefaultBinary returns the VBoxManage executable name for the current
// platform. Windows installs ship the tool as VBoxManage.exe.
func DefaultBinary() string {
	if runtime.GOOS == "windows" {
		return "VBoxManage.exe"
	}
	return "VBoxManage"
}

// CLIRunner runs VBoxManage as a subprocess. The zero value is not usable;
// construct with NewCLIRunner.
type CLIRunner struct {
	binary string
}

// NewCLIRunner returns a CLIRunner invoking the given binary. An empty binary
// selects the platform default.
func NewCLIRunner(binary string) *CLIRunner {
	if binary == "" {
		binary = DefaultBinary()
	}
	return &CLIRunner{binary: binary}
}

// Run invokes VBoxManage with args and blocks until it exits. On success the
// captured stdout is returned untrimmed, exactly as the tool wrote it. A
// nonzero exit status yields an error carrying the captured stderr; a spawn
// failure (binary missing, permission denied) yields an error describing the
// underlying cause. No retries and no deadline are applied here — ctx is
// passed through so a caller may cancel, but by default a hung tool hangs
// the call.
func (r *CLIRunner) Run(ctx context.Context, args ...string) (string, error) {
	log.Printf("%s %s", r.binary, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%s command failed: %s", r.binary, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("failed to execute %s: %w", r.binary, err)
	}

	return stdout.String(), nil
}
