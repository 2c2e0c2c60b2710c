// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// DefaultTemplate asks for a summary of the document
const DefaultTemplate = `Summarize the following document in a few short paragraphs.
{{- if gt .Chunks 1}}
This is part {{.Chunk}} of {{.Chunks}}; summarize only this part.
{{- end}}
{{- if .Source}}

Source: {{.Source}}
{{- end}}

Document:
{{.Document}}
`

// FixedPrompt is sent when there is no document and no template file
const FixedPrompt = "Say this is a test"

// Data is what a template can reference
type Data struct {
	Document string // extracted document text (or one chunk of it)
	Source   string // base name of the document file
	Chunk    int    // one-based chunk number
	Chunks   int    // total number of chunks
}

// Template renders prompts from document text
type Template struct {
	name string
	tmpl *template.Template
}

// New parses a template from text
func New(name, text string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template %s: %w", name, err)
	}
	return &Template{name: name, tmpl: tmpl}, nil
}

// Default returns the built-in template
func Default() *Template {
	t, err := New("default", DefaultTemplate)
	if err != nil {
		panic(err)
	}
	return t
}

// Fixed returns a template that always renders FixedPrompt
func Fixed() *Template {
	t, err := New("fixed", FixedPrompt)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a template file. An empty path returns the built-in template.
func Load(path string) (*Template, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template: %w", err)
	}
	return New(filepath.Base(path), string(content))
}

// Name returns the template name
func (t *Template) Name() string {
	return t.name
}

// Render fills the template. Zero chunk fields mean a single, whole document.
func (t *Template) Render(data Data) (string, error) {
	if data.Chunks == 0 {
		data.Chunk, data.Chunks = 1, 1
	}

	var b strings.Builder
	if err := t.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render prompt template %s: %w", t.name, err)
	}
	return strings.TrimSpace(b.String()), nil
}

// RenderAll renders one prompt per chunk
func (t *Template) RenderAll(source string, chunks []string) ([]string, error) {
	prompts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		p, err := t.Render(Data{Document: chunk, Source: source, Chunk: i + 1, Chunks: len(chunks)})
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}
