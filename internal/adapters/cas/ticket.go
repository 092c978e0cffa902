package cas

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/tronclass-cli/internal/domain"
	"golang.org/x/net/html"
)

const loginTicketField = "lt"

// ExtractLoginTicket returns the value of the first <input name="lt"> in an
// HTML document.
func ExtractLoginTicket(r io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(r)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("parse login page: %w", err)
			}
			return "", domain.ErrLoginTicketNotFound
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.Data != "input" {
				continue
			}
			name, value := inputAttrs(token)
			if name != loginTicketField {
				continue
			}
			if strings.TrimSpace(value) == "" {
				return "", domain.ErrLoginTicketNotFound
			}
			return value, nil
		}
	}
}

func inputAttrs(token html.Token) (string, string) {
	var name, value string
	for _, attr := range token.Attr {
		switch attr.Key {
		case "name":
			name = attr.Val
		case "value":
			value = attr.Val
		}
	}
	return name, value
}
