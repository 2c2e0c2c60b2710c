// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/docgrid/internal/logger"
)

// parsePDF extracts text from every page of a PDF using go-fitz (MuPDF).
// Pages that fail to extract are skipped; pages are separated by a blank line.
func parsePDF(filePath string) (string, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)
	for i := 0; i < numPages; i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			logger.Warnf("parsePDF: failed to extract text from page %d of %s: %v", i+1, filePath, err)
			continue
		}
		if trimmed := strings.TrimSpace(pageText); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}

	text := strings.Join(pages, "\n\n")
	if text == "" {
		return "", emptyError("PDF", filePath)
	}
	return text, nil
}
