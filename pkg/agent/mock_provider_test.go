package agent

import (
	"context"
	"sync"

	"github.com/sipeed/picoweather/pkg/providers"
)

type chatRequest struct {
	messages []providers.Message
	tools    []providers.ToolDefinition
	model    string
	opts     map[string]any
}

type mockProvider struct {
	mu            sync.Mutex
	callCount     int
	responses     []providers.LLMResponse
	responseIndex int
	err           error
	requests      []chatRequest
}

func (m *mockProvider) Chat(
	ctx context.Context,
	messages []providers.Message,
	tools []providers.ToolDefinition,
	model string,
	opts map[string]any,
) (*providers.LLMResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	snapshot := make([]providers.Message, len(messages))
	copy(snapshot, messages)
	m.requests = append(m.requests, chatRequest{messages: snapshot, tools: tools, model: model, opts: opts})

	if m.err != nil {
		return nil, m.err
	}

	// If responses are configured, return them in sequence
	if len(m.responses) > 0 {
		if m.responseIndex >= len(m.responses) {
			m.responseIndex = len(m.responses) - 1
		}
		resp := m.responses[m.responseIndex]
		m.responseIndex++
		return &resp, nil
	}

	return &providers.LLMResponse{Content: "Mock response"}, nil
}

func (m *mockProvider) GetDefaultModel() string {
	return "mock-model"
}
