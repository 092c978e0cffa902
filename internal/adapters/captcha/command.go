package captcha

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/tronclass-cli/internal/ports"
)

var ErrCommandUnavailable = errors.New("captcha command unavailable")

type runFunc func(ctx context.Context, input string, name string, args ...string) (stdout string, stderr string, err error)

// CommandSolver delegates to an external OCR program. The data URL is written
// to its stdin and the first line of stdout is the code.
type CommandSolver struct {
	name string
	args []string
	run  runFunc
}

var _ ports.CaptchaSolver = (*CommandSolver)(nil)

func NewCommandSolver(command string) (*CommandSolver, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("captcha command is empty")
	}

	return &CommandSolver{name: fields[0], args: fields[1:], run: runCommand}, nil
}

func (s *CommandSolver) Solve(ctx context.Context, dataURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, dataURL+"\n", s.name, s.args...)
	if err != nil {
		if stderr == "" {
			return "", fmt.Errorf("captcha command %q: %w", s.name, err)
		}
		return "", fmt.Errorf("captcha command %q: %w: %s", s.name, err, stderr)
	}

	first, _, _ := strings.Cut(stdout, "\n")
	return normalizeCode(first), nil
}

func runCommand(ctx context.Context, input string, name string, args ...string) (string, string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrCommandUnavailable
		}
		return "", "", fmt.Errorf("locate captcha command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(input)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}
