package parser

import (
	"fmt"
	"os"
	"strings"
)

// parseText reads plain text files (.txt, .md)
func parseText(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", emptyError("text file", filePath)
	}
	return text, nil
}
