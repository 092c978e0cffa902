package captcha

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDataURL = errors.New("invalid captcha data url")

// DecodeDataURL returns the raw image bytes of a base64 data URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURL
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	return image, nil
}

// normalizeCode trims solver output. Shape checks belong to the login loop,
// which rejects anything that is not four digits without spending a retry.
func normalizeCode(raw string) string {
	return strings.TrimSpace(raw)
}
