package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/sipeed/picoweather/pkg/logger"
	"github.com/sipeed/picoweather/pkg/providers"
	"github.com/sipeed/picoweather/pkg/utils"
	"github.com/sipeed/picoweather/pkg/weather"
)

// ToolRegistry is the immutable dispatch table from ToolID to handler.
// It is built once by NewToolRegistry and only read afterwards.
type ToolRegistry struct {
	tools map[ToolID]Tool
	order []ToolID
}

// NewToolRegistry checks the given tools against AllToolIDs: each known ID
// needs exactly one handler and nothing outside the set is accepted.
func NewToolRegistry(tools ...Tool) (*ToolRegistry, error) {
	r := &ToolRegistry{tools: make(map[ToolID]Tool, len(tools))}

	for _, tool := range tools {
		if tool == nil {
			return nil, fmt.Errorf("nil tool")
		}
		id := tool.ID()
		if !id.Valid() {
			return nil, &UnknownToolError{Name: string(id)}
		}
		if _, dup := r.tools[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, id)
		}
		if def := tool.Definition(); def.Function.Name != string(id) {
			return nil, fmt.Errorf("tool %s declares schema name %q", id, def.Function.Name)
		}
		r.tools[id] = tool
	}

	var missing []ToolID
	for _, id := range AllToolIDs() {
		if _, ok := r.tools[id]; !ok {
			missing = append(missing, id)
			continue
		}
		r.order = append(r.order, id)
	}
	if len(missing) > 0 {
		return nil, &IncompleteRegistryError{Missing: missing}
	}

	return r, nil
}

func (r *ToolRegistry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[ToolID(name)]
	return tool, ok
}

// Definitions returns the schemas sent with every model request, in
// AllToolIDs order.
func (r *ToolRegistry) Definitions() []providers.ToolDefinition {
	defs := make([]providers.ToolDefinition, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.tools[id].Definition())
	}
	return defs
}

// List returns registered tool names in definition order.
func (r *ToolRegistry) List() []string {
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		names = append(names, string(id))
	}
	return names
}

// Execute runs one model-requested call. It never fails outright: unknown
// tools and bad arguments come back as an error result whose text is meant
// for the model, so every call still gets its answering tool message.
func (r *ToolRegistry) Execute(ctx context.Context, call providers.ToolCall) *ToolResult {
	name := call.ToolName()
	result := &ToolResult{CallID: call.ID, Name: name}

	logger.InfoCF("tool", "Tool execution started",
		map[string]any{
			"tool":    name,
			"call_id": call.ID,
			"args":    utils.Truncate(call.RawArguments(), 200),
		})

	tool, ok := r.Get(name)
	if !ok {
		err := &UnknownToolError{Name: name}
		logger.ErrorCF("tool", "Tool not found",
			map[string]any{
				"tool": name,
			})
		result.ForLLM = weather.ErrorText(err)
		return result.WithError(err)
	}

	start := time.Now()
	content, err := tool.Execute(ctx, call.RawArguments())
	duration := time.Since(start)

	if err != nil {
		logger.ErrorCF("tool", "Tool execution failed",
			map[string]any{
				"tool":     name,
				"duration": duration.Milliseconds(),
				"error":    err.Error(),
			})
		result.ForLLM = weather.ErrorText(err)
		return result.WithError(err)
	}

	result.ForLLM = content
	logger.InfoCF("tool", "Tool execution completed",
		map[string]any{
			"tool":          name,
			"duration_ms":   duration.Milliseconds(),
			"result_length": len(content),
		})
	return result
}
