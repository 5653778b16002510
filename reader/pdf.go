package reader

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

type pdfExtractor struct {
	binary string
}

func (pdfExtractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract shells out to pdftotext. PDF parsing stays outside the
// process; all we need back is a text string.
func (e pdfExtractor) Extract(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, e.binary, "-layout", path, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed on %s: %w: %s", e.binary, path, err, stderr.String())
	}

	return stdout.String(), nil
}

func NewPDFExtractor() Extractor {
	return pdfExtractor{binary: "pdftotext"}
}
