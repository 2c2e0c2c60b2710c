package ai

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
)

// MockClient returns deterministic replies for testing.
// The reply names the last user message's length and hash.
type MockClient struct {
	mu    sync.Mutex
	calls [][]Message
	Err   error
}

// NewMockClient creates a new mock completer
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Model returns the mock model name
func (m *MockClient) Model() string {
	return "mock"
}

// Complete records the conversation and returns a reply derived from it
func (m *MockClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.calls = append(m.calls, messages)
	err := m.Err
	m.mu.Unlock()
	if err != nil {
		return "", err
	}

	var last string
	for _, msg := range messages {
		if msg.Role == RoleUser {
			last = msg.Content
		}
	}

	h := fnv.New32a()
	h.Write([]byte(last))
	return fmt.Sprintf("mock reply: %d chars, fnv %08x", len(last), h.Sum32()), nil
}

// Calls returns the conversations received so far
func (m *MockClient) Calls() [][]Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]Message, len(m.calls))
	copy(out, m.calls)
	return out
}
