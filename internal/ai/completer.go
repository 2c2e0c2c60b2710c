// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/docgrid/internal/config"
)

// Roles understood by every provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNoChoices is returned when the provider answers without any content
var ErrNoChoices = errors.New("no response from model")

// Message is one turn of a chat conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer sends a conversation to a chat model and returns its reply
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)

	// Model returns the model name used for completions.
	Model() string
}

// NewCompleter creates a completer for cfg.Provider.
// Supported providers: "openai", "gemini", "mock" (for testing)
func NewCompleter(ctx context.Context, cfg config.AIConfig) (Completer, error) {
	switch cfg.Provider {
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai api key is required (set OPENAI_API_KEY)")
		}
		return NewOpenAIClient(cfg), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", cfg.Provider)
	}
}

// Conversation builds the message list for a single prompt
func Conversation(systemPrompt, userPrompt string) []Message {
	var messages []Message
	if systemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	}
	return append(messages, Message{Role: RoleUser, Content: userPrompt})
}
