package deploy

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/soladipe/saas-provision/internal/errors"
)

// CommandRunner abstracts external tool invocation so the pipeline is
// testable without a dotnet SDK on the machine.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

type execRunner struct{}

// NewCommandRunner returns the production runner backed by os/exec.
func NewCommandRunner() CommandRunner {
	return execRunner{}
}

// Run executes the tool and returns its stdout. On failure the tool's stderr
// is carried verbatim in the error message; build tools put the actionable
// diagnostics there.
func (execRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		return "", errors.Wrapf(err, errors.CodeDeployError, "%s %s failed: %s", name, strings.Join(args, " "), detail)
	}
	return stdout.String(), nil
}
