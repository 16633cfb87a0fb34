package model

import (
	"context"
	"fmt"
	"sync"
)

// Message is one turn of a conversation sent to a model.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Request captures the normalized model input.
type Request struct {
	// Instructions is the system prompt, typically the agent's runbook.
	Instructions string    `json:"instructions"`
	Messages     []Message `json:"messages"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final output of a completion call.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock"
}

// Model is the minimal interface a provider adapter implements.
type Model interface {
	// Complete performs a single-shot completion.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// It replays canned responses in order and records the requests it received.
type MockModel struct {
	mu        sync.Mutex
	name      string
	responses []string
	calls     []Request
	err       error
}

// NewMockModel creates a MockModel replaying the given responses.
func NewMockModel(name string, responses ...string) *MockModel {
	return &MockModel{name: name, responses: responses}
}

// FailWith makes every Complete call return err.
func (m *MockModel) FailWith(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Complete returns the next canned response.
func (m *MockModel) Complete(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("mock model %q has no responses left", m.name)
	}
	text := m.responses[0]
	m.responses = m.responses[1:]
	return &Response{Text: text, FinishReason: "stop"}, nil
}

// Info returns mock metadata.
func (m *MockModel) Info() Info {
	return Info{Name: m.name, Provider: "mock"}
}

// Calls returns the requests recorded so far.
func (m *MockModel) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request{}, m.calls...)
}
