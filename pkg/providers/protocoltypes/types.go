// Package protocoltypes holds the provider-neutral chat types shared by the
// provider adapters, the tool registry and the turn processor.
package protocoltypes

import (
	"encoding/json"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

type ToolCall struct {
	ID       string        `json:"id"`
	Type     string        `json:"type,omitempty"`
	Function *FunctionCall `json:"function,omitempty"`
	Name     string        `json:"name,omitempty"`
}

// FunctionCall carries the arguments exactly as the model serialized them.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolName returns the called tool's name, preferring the top-level field.
func (tc ToolCall) ToolName() string {
	if tc.Name != "" {
		return tc.Name
	}
	if tc.Function != nil {
		return tc.Function.Name
	}
	return ""
}

// RawArguments returns the serialized argument object, "{}" when absent.
func (tc ToolCall) RawArguments() string {
	if tc.Function == nil || strings.TrimSpace(tc.Function.Arguments) == "" {
		return "{}"
	}
	return tc.Function.Arguments
}

// ArgumentsMap decodes RawArguments into a generic map. Providers that need
// structured input (Anthropic tool_use blocks) use it; tools parse the raw
// string into typed structs instead.
func (tc ToolCall) ArgumentsMap() (map[string]any, error) {
	args := map[string]any{}
	if err := json.Unmarshal([]byte(tc.RawArguments()), &args); err != nil {
		return nil, err
	}
	return args, nil
}

type LLMResponse struct {
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	FinishReason string     `json:"finish_reason"`
	Usage        *UsageInfo `json:"usage,omitempty"`
}

type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Message is one entry of the conversation history. Content may be empty
// for assistant messages that only carry tool calls. ToolCallID and Name are
// set on tool-result messages.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

type ToolDefinition struct {
	Type     string                 `json:"type"`
	Function ToolFunctionDefinition `json:"function"`
}

type ToolFunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
