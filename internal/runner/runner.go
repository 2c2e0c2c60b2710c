// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package runner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/docgrid/internal/ai"
	"github.com/docgrid/internal/history"
	"github.com/docgrid/internal/logger"
	"github.com/docgrid/internal/parser"
	"github.com/docgrid/internal/prompt"
)

// Recorder stores prompt runs. *history.Store implements it.
type Recorder interface {
	Save(run history.Run) (history.Run, error)
}

// Runner turns documents into prompts and collects the model's replies
type Runner struct {
	completer    ai.Completer
	template     *prompt.Template
	chunker      *parser.Chunker
	maxChars     int
	systemPrompt string
	recorder     Recorder
}

// Options configures a Runner
type Options struct {
	SystemPrompt string
	MaxChars     int // documents longer than this are chunked; 0 disables chunking
	Overlap      int
	Recorder     Recorder // optional
}

// New creates a Runner
func New(completer ai.Completer, template *prompt.Template, opts Options) *Runner {
	r := &Runner{
		completer:    completer,
		template:     template,
		maxChars:     opts.MaxChars,
		systemPrompt: opts.SystemPrompt,
		recorder:     opts.Recorder,
	}
	if opts.MaxChars > 0 {
		r.chunker = parser.NewChunker(opts.MaxChars, opts.Overlap)
	}
	return r
}

// ProcessFile extracts a document's text and returns one reply per chunk
func (r *Runner) ProcessFile(ctx context.Context, path string) ([]string, error) {
	text, err := parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return r.ProcessText(ctx, filepath.Base(path), text)
}

// ProcessText renders the template for text (chunked if needed) and completes each prompt.
// The first failed completion stops processing.
func (r *Runner) ProcessText(ctx context.Context, source, text string) ([]string, error) {
	chunks := []string{text}
	if r.chunker != nil && len(text) > r.maxChars {
		chunks = r.chunker.ChunkText(text)
		logger.Printf("%s: %d characters split into %d chunks", source, len(text), len(chunks))
	}

	prompts, err := r.template.RenderAll(source, chunks)
	if err != nil {
		return nil, err
	}

	replies := make([]string, 0, len(prompts))
	for i, p := range prompts {
		logger.Debugf("%s: sending chunk %d/%d (%d characters) to %s", source, i+1, len(prompts), len(p), r.completer.Model())

		reply, err := r.completer.Complete(ctx, ai.Conversation(r.systemPrompt, p))
		r.record(source, i+1, p, reply, err)
		if err != nil {
			return nil, fmt.Errorf("completion failed for %s chunk %d: %w", source, i+1, err)
		}
		replies = append(replies, reply)
	}
	return replies, nil
}

func (r *Runner) record(source string, chunk int, p, reply string, err error) {
	if r.recorder == nil {
		return
	}

	run := history.Run{
		Source:   source,
		Chunk:    chunk,
		Model:    r.completer.Model(),
		Prompt:   p,
		Response: reply,
	}
	if err != nil {
		run.Error = err.Error()
	}

	saved, saveErr := r.recorder.Save(run)
	if saveErr != nil {
		logger.Warnf("Failed to record run for %s: %v", source, saveErr)
		return
	}
	logger.Debugf("Recorded run %s for %s chunk %d", saved.ID, source, chunk)
}
