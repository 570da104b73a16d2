package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sipeed/picoweather/pkg/logger"
	"github.com/sipeed/picoweather/pkg/providers"
	"github.com/sipeed/picoweather/pkg/tools"
)

// Processor advances a conversation by one model round. It holds no
// conversation state of its own; callers pass the history in and get the
// extended history back.
type Processor struct {
	provider providers.LLMProvider
	registry *tools.ToolRegistry
	model    string
	options  map[string]any
	followUp FollowUpPolicy
}

type ProcessorConfig struct {
	Model       string
	FollowUp    FollowUpPolicy
	MaxTokens   int
	Temperature *float64
}

func NewProcessor(provider providers.LLMProvider, registry *tools.ToolRegistry, cfg ProcessorConfig) (*Processor, error) {
	if provider == nil {
		return nil, errors.New("provider is nil")
	}
	if registry == nil {
		return nil, errors.New("tool registry is nil")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = provider.GetDefaultModel()
	}

	options := map[string]any{}
	if cfg.MaxTokens > 0 {
		options["max_tokens"] = cfg.MaxTokens
	}
	if cfg.Temperature != nil {
		options["temperature"] = *cfg.Temperature
	}

	return &Processor{
		provider: provider,
		registry: registry,
		model:    model,
		options:  options,
		followUp: cfg.FollowUp,
	}, nil
}

func (p *Processor) Model() string { return p.model }

func (p *Processor) FollowUp() FollowUpPolicy { return p.followUp }

// Advance sends the history with the tool definitions, appends the reply as
// an assistant message and then one tool message per requested call, in the
// order the model listed them. It makes exactly one model request. A reply
// with neither text nor tool calls is not recorded, since both chat APIs
// reject an empty assistant message on the next request.
//
// On a provider failure the input history is returned unchanged with the
// error. The input slice is never modified.
func (p *Processor) Advance(ctx context.Context, history []providers.Message) ([]providers.Message, error) {
	defs := p.registry.Definitions()

	logger.DebugCF("agent", "LLM request",
		map[string]any{
			"model":          p.model,
			"messages_count": len(history),
			"tools_count":    len(defs),
		})

	resp, err := p.provider.Chat(ctx, history, defs, p.model, p.callOptions(nil))
	if err != nil {
		logger.ErrorCF("agent", "LLM call failed",
			map[string]any{
				"model": p.model,
				"error": err.Error(),
			})
		return history, fmt.Errorf("LLM call failed: %w", err)
	}

	next := make([]providers.Message, len(history), len(history)+1+len(resp.ToolCalls))
	copy(next, history)
	next = appendReply(next, resp, resp.ToolCalls)

	if len(resp.ToolCalls) == 0 {
		logger.InfoCF("agent", "LLM response without tool calls (direct answer)",
			map[string]any{
				"content_chars": len(resp.Content),
			})
		return next, nil
	}

	toolNames := make([]string, 0, len(resp.ToolCalls))
	for _, tc := range resp.ToolCalls {
		toolNames = append(toolNames, tc.ToolName())
	}
	logger.InfoCF("agent", "LLM requested tool calls",
		map[string]any{
			"tools": toolNames,
			"count": len(resp.ToolCalls),
		})

	for _, tc := range resp.ToolCalls {
		result := p.registry.Execute(ctx, tc)
		next = append(next, result.ToMessage())
	}

	return next, nil
}

// Process runs Advance and, under FollowUpOnce, one extra request when tool
// results were appended. Tools stay declared on that request but the model
// is told not to call them. A failed follow-up keeps the advanced history.
func (p *Processor) Process(ctx context.Context, history []providers.Message) ([]providers.Message, error) {
	next, err := p.Advance(ctx, history)
	if err != nil {
		return next, err
	}
	if p.followUp != FollowUpOnce || !endsWithToolResult(next) {
		return next, nil
	}

	resp, err := p.provider.Chat(ctx, next, p.registry.Definitions(), p.model,
		p.callOptions(map[string]any{"tool_choice": "none"}))
	if err != nil {
		logger.ErrorCF("agent", "Follow-up LLM call failed",
			map[string]any{
				"model": p.model,
				"error": err.Error(),
			})
		return next, fmt.Errorf("follow-up LLM call failed: %w", err)
	}
	if len(resp.ToolCalls) > 0 {
		// Without matching tool messages these calls would leave the
		// history unpaired for the next request.
		logger.WarnCF("agent", "Dropping tool calls from follow-up response",
			map[string]any{
				"count": len(resp.ToolCalls),
			})
	}

	return appendReply(next, resp, nil), nil
}

func (p *Processor) callOptions(extra map[string]any) map[string]any {
	opts := make(map[string]any, len(p.options)+len(extra))
	for k, v := range p.options {
		opts[k] = v
	}
	for k, v := range extra {
		opts[k] = v
	}
	return opts
}

func appendReply(history []providers.Message, resp *providers.LLMResponse, calls []providers.ToolCall) []providers.Message {
	if resp.Content == "" && len(calls) == 0 {
		logger.WarnCF("agent", "Skipping empty assistant reply",
			map[string]any{
				"finish_reason": resp.FinishReason,
			})
		return history
	}
	return append(history, providers.Message{
		Role:      "assistant",
		Content:   resp.Content,
		ToolCalls: calls,
	})
}

func endsWithToolResult(history []providers.Message) bool {
	return len(history) > 0 && history[len(history)-1].Role == "tool"
}

// LastAssistantText returns the content of the most recent assistant
// message, or "" when there is none or it only carried tool calls.
func LastAssistantText(history []providers.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "assistant" {
			return history[i].Content
		}
	}
	return ""
}
