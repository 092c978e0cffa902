package ports

import "context"

// CaptchaSolver turns a base64 data URL of a captcha image into its code.
type CaptchaSolver interface {
	Solve(ctx context.Context, dataURL string) (string, error)
}

type CaptchaSolverFunc func(ctx context.Context, dataURL string) (string, error)

func (f CaptchaSolverFunc) Solve(ctx context.Context, dataURL string) (string, error) {
	return f(ctx, dataURL)
}
