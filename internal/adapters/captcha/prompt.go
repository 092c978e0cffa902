package captcha

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/tronclass-cli/internal/ports"
)

// PromptSolver writes the captcha to a temporary file and asks a human to
// type the code.
type PromptSolver struct {
	in  *bufio.Reader
	out io.Writer
	dir string
}

var _ ports.CaptchaSolver = (*PromptSolver)(nil)

func NewPromptSolver(in io.Reader, out io.Writer) *PromptSolver {
	return &PromptSolver{in: bufio.NewReader(in), out: out}
}

// WithDir sets the directory for captcha images. Empty means os.TempDir.
func (s *PromptSolver) WithDir(dir string) *PromptSolver {
	s.dir = dir
	return s
}

func (s *PromptSolver) Solve(ctx context.Context, dataURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	image, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp(s.dir, "tc-captcha-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create captcha file: %w", err)
	}
	path := file.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := file.Write(image); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write captcha file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close captcha file: %w", err)
	}

	if _, err := fmt.Fprintf(s.out, "Captcha image: %s\nEnter captcha code: ", path); err != nil {
		return "", fmt.Errorf("write captcha prompt: %w", err)
	}

	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read captcha code: %w", err)
	}

	return normalizeCode(line), nil
}
