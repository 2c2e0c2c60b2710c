package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/docgrid/internal/config"
)

const (
	defaultGeminiModel    = "gemini-2.5-flash"
	defaultGeminiLocation = "europe-west1"
)

// GeminiClient wraps the Google GenAI client. An API key selects the Gemini API;
// otherwise Vertex AI is used with Application Default Credentials.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiClient creates a Gemini completer from cfg
func NewGeminiClient(ctx context.Context, cfg config.AIConfig) (*GeminiClient, error) {
	clientConfig := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		clientConfig.APIKey = cfg.APIKey
		clientConfig.Backend = genai.BackendGeminiAPI
	case cfg.Project != "":
		location := cfg.Location
		if location == "" {
			location = defaultGeminiLocation
		}
		clientConfig.Project = cfg.Project
		clientConfig.Location = location
		clientConfig.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("gemini requires an api key (GEMINI_API_KEY) or a Vertex AI project")
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

// Model returns the model name
func (g *GeminiClient) Model() string {
	return g.model
}

// Complete sends messages to Gemini. System messages become the system instruction.
func (g *GeminiClient) Complete(ctx context.Context, messages []Message) (string, error) {
	contents, system := toGeminiContents(messages)
	if len(contents) == 0 {
		return "", fmt.Errorf("gemini: no user content to send")
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(g.temperature),
		SystemInstruction: system,
	}
	if g.maxTokens > 0 {
		genConfig.MaxOutputTokens = g.maxTokens
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrNoChoices
	}
	return text, nil
}

func toGeminiContents(messages []Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var systemParts []*genai.Part

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			systemParts = append(systemParts, &genai.Part{Text: m.Content})
		case RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})
		}
	}

	var system *genai.Content
	if len(systemParts) > 0 {
		system = &genai.Content{Parts: systemParts}
	}
	return contents, system
}
