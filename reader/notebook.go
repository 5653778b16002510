package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type notebookExtractor struct{}

type notebook struct {
	Cells []struct {
		CellType string   `json:"cell_type"`
		Source   []string `json:"source"`
	} `json:"cells"`
}

func (notebookExtractor) Extensions() []string {
	return []string{".ipynb"}
}

// Extract concatenates markdown and code cell sources in notebook order.
// Outputs are skipped.
func (notebookExtractor) Extract(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var nb notebook
	if err := json.Unmarshal(raw, &nb); err != nil {
		return "", fmt.Errorf("parse notebook %s: %w", path, err)
	}

	var sb strings.Builder
	for _, cell := range nb.Cells {
		if cell.CellType != "markdown" && cell.CellType != "code" {
			continue
		}
		for _, line := range cell.Source {
			sb.WriteString(line)
		}
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}

func NewNotebookExtractor() Extractor {
	return notebookExtractor{}
}
