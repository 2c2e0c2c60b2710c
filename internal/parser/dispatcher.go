// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docgrid/internal/logger"
)

// ErrUnsupported is returned for file types no parser handles
var ErrUnsupported = errors.New("unsupported file type")

// ErrEmpty is returned when a file parses but yields no text
var ErrEmpty = errors.New("no text extracted")

type parseFunc func(filePath string) (string, error)

var parsers = map[string]parseFunc{
	".pdf":  parsePDF,
	".docx": parseDOCX,
	".txt":  parseText,
	".md":   parseText,
	".xlsx": parseExcel,
	".xls":  parseExcel,
	".html": parseHTML,
	".htm":  parseHTML,
	".eml":  parseEmail,
}

// ParseFile extracts the text of a document, choosing the parser by extension
func ParseFile(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	parse, ok := parsers[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	text, err := parse(filePath)
	if err != nil {
		return "", err
	}

	logger.Debugf("[TEXT EXTRACT] %s: %d characters", filePath, len(text))
	logger.Debugf("[TEXT SNIPPET] %s", snippet(text, 150))

	return text, nil
}

// IsSupportedFile checks if a file extension is supported
func IsSupportedFile(filePath string) bool {
	_, ok := parsers[strings.ToLower(filepath.Ext(filePath))]
	return ok
}

// IsTemporaryFile checks if a file is an editor or OS temporary file (e.g., ~$doc.docx)
func IsTemporaryFile(filePath string) bool {
	base := filepath.Base(filePath)
	return strings.HasPrefix(base, "~$") ||
		strings.HasPrefix(base, "._") ||
		strings.HasPrefix(base, ".~lock.") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, ".part") ||
		strings.HasSuffix(base, ".crdownload")
}

// snippet shortens text to at most n bytes without splitting a rune
func snippet(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !isRuneStart(text[n]) {
		n--
	}
	return text[:n] + "..."
}

func emptyError(kind, filePath string) error {
	return fmt.Errorf("%w from %s: %s", ErrEmpty, kind, filePath)
}
