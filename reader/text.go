package reader

import (
	"context"
	"os"
)

type textExtractor struct{}

func (textExtractor) Extensions() []string {
	return []string{".txt", ".md"}
}

func (textExtractor) Extract(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func NewTextExtractor() Extractor {
	return textExtractor{}
}
