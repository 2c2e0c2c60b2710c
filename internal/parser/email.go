// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mnako/letters"
)

// parseEmail extracts headers and body from an EML file.
// HTML-only bodies are converted to text with goquery.
func parseEmail(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open EML file: %w", err)
	}
	defer file.Close()

	email, err := letters.ParseEmail(file)
	if err != nil {
		return "", fmt.Errorf("failed to parse EML file: %w", err)
	}

	var b strings.Builder
	if email.Headers.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", email.Headers.Subject)
	}
	if len(email.Headers.From) > 0 {
		from := email.Headers.From[0]
		if from.Name != "" {
			fmt.Fprintf(&b, "Sender: %s <%s>\n", from.Name, from.Address)
		} else {
			fmt.Fprintf(&b, "Sender: %s\n", from.Address)
		}
	}
	if !email.Headers.Date.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", email.Headers.Date.Format(time.RFC3339))
	}

	body := strings.TrimSpace(email.Text)
	if body == "" && email.HTML != "" {
		body, err = htmlText(strings.NewReader(email.HTML))
		if err != nil {
			return "", err
		}
	}
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", emptyError("EML", filePath)
	}
	return text, nil
}
