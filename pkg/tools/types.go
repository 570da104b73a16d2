package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sipeed/picoweather/pkg/providers"
)

// ToolID names one member of the closed set of tools the assistant exposes.
type ToolID string

const (
	GetCurrentWeather  ToolID = "get_current_weather"
	GetWeatherForecast ToolID = "get_weather_forecast"
)

// AllToolIDs lists every tool a registry must provide, in the order their
// definitions are sent to the model.
func AllToolIDs() []ToolID {
	return []ToolID{GetCurrentWeather, GetWeatherForecast}
}

func (id ToolID) Valid() bool {
	for _, known := range AllToolIDs() {
		if id == known {
			return true
		}
	}
	return false
}

// Tool is a typed handler for one ToolID. Execute receives the argument
// object exactly as the model serialized it and returns the text handed
// back as the tool message. A non-nil error means the arguments were
// unusable; lookup failures are reported inside the returned text.
type Tool interface {
	ID() ToolID
	Definition() providers.ToolDefinition
	Execute(ctx context.Context, rawArgs string) (string, error)
}

// ToolResult is the outcome of one tool call.
type ToolResult struct {
	CallID  string
	Name    string
	ForLLM  string
	IsError bool
	Err     error
}

func (r *ToolResult) WithError(err error) *ToolResult {
	r.Err = err
	r.IsError = true
	return r
}

// ToMessage converts the result into the tool-role history entry that
// answers the originating call.
func (r *ToolResult) ToMessage() providers.Message {
	return providers.Message{
		Role:       "tool",
		Content:    r.ForLLM,
		ToolCallID: r.CallID,
		Name:       r.Name,
	}
}

// FlexibleInt accepts a JSON number or a numeric string, since models
// sometimes quote integers.
type FlexibleInt int

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	n := json.Number(raw)
	if i, err := n.Int64(); err == nil {
		*f = FlexibleInt(i)
		return nil
	}
	if fl, err := n.Float64(); err == nil && fl == float64(int64(fl)) {
		*f = FlexibleInt(int64(fl))
		return nil
	}
	return fmt.Errorf("%s is not an integer", string(data))
}

func functionDefinition(id ToolID, description string, properties map[string]any, required ...string) providers.ToolDefinition {
	params := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		params["required"] = required
	}
	return providers.ToolDefinition{
		Type: "function",
		Function: providers.ToolFunctionDefinition{
			Name:        string(id),
			Description: description,
			Parameters:  params,
		},
	}
}
