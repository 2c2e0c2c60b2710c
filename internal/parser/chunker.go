// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"strings"
)

// boundaryWindow is how far back from a chunk's end a sentence break is searched for
const boundaryWindow = 200

// Chunker splits long documents into overlapping, sentence-aware chunks
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker. Non-positive size defaults to 1000; overlap
// is clamped to [0, size/2].
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap > size/2 {
		overlap = size / 2
	}
	return &Chunker{chunkSize: size, chunkOverlap: overlap}
}

// ChunkText splits text into chunks of at most chunkSize bytes, preferring to
// end each chunk after a sentence ending or paragraph break
func (c *Chunker) ChunkText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	textLen := len(text)

	for start < textLen {
		end := start + c.chunkSize
		if end >= textLen {
			end = textLen
		} else {
			end = c.breakPoint(text, start, end)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= textLen {
			break
		}

		next := end - c.chunkOverlap
		for next > start && !isRuneStart(text[next]) {
			next--
		}
		// Always make progress
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// breakPoint finds the best place to end a chunk that would otherwise end at end
func (c *Chunker) breakPoint(text string, start, end int) int {
	searchStart := end - boundaryWindow
	if searchStart < start {
		searchStart = start
	}

	for i := end - 1; i >= searchStart; i-- {
		char := text[i]
		if i+1 >= len(text) {
			continue
		}
		next := text[i+1]
		if (char == '.' || char == '!' || char == '?') && (next == ' ' || next == '\n' || next == '\r') {
			return i + 1
		}
		if char == '\n' && next == '\n' {
			return i + 1
		}
	}

	// Avoid splitting a multi-byte rune
	for end > start+1 && !isRuneStart(text[end]) {
		end--
	}
	return end
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
