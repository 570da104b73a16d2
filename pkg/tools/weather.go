package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sipeed/picoweather/pkg/config"
	"github.com/sipeed/picoweather/pkg/logger"
	"github.com/sipeed/picoweather/pkg/providers"
	"github.com/sipeed/picoweather/pkg/weather"
)

// MaxForecastDays is the longest forecast the weather provider serves.
const MaxForecastDays = config.MaxForecastDays

// WeatherClient is the lookup surface the weather tools need; *weather.Client
// satisfies it.
type WeatherClient interface {
	Current(ctx context.Context, location string) (*weather.Snapshot, error)
	Forecast(ctx context.Context, location string, days int) (*weather.Forecast, error)
}

type CurrentWeatherArgs struct {
	Location string `json:"location"`
}

type ForecastArgs struct {
	Location string      `json:"location"`
	Days     FlexibleInt `json:"days"`
}

// NewWeatherRegistry wires both weather tools to client. defaultDays applies
// when the model omits the day count.
func NewWeatherRegistry(client WeatherClient, defaultDays int) (*ToolRegistry, error) {
	if client == nil {
		return nil, errors.New("weather client is nil")
	}
	return NewToolRegistry(
		NewCurrentWeatherTool(client),
		NewForecastTool(client, defaultDays),
	)
}

type CurrentWeatherTool struct {
	client WeatherClient
}

func NewCurrentWeatherTool(client WeatherClient) *CurrentWeatherTool {
	return &CurrentWeatherTool{client: client}
}

func (t *CurrentWeatherTool) ID() ToolID { return GetCurrentWeather }

func (t *CurrentWeatherTool) Definition() providers.ToolDefinition {
	return functionDefinition(GetCurrentWeather,
		"Get current weather for a location.",
		map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "City name, postcode or lat,lon, e.g. Paris or 48.85,2.35",
			},
		},
		"location",
	)
}

func (t *CurrentWeatherTool) Execute(ctx context.Context, rawArgs string) (string, error) {
	args, err := ParseCurrentWeatherArgs(rawArgs)
	if err != nil {
		return "", err
	}
	return t.Run(ctx, args), nil
}

// Run performs the lookup for already-validated arguments.
func (t *CurrentWeatherTool) Run(ctx context.Context, args CurrentWeatherArgs) string {
	snap, err := t.client.Current(ctx, args.Location)
	logLookupError(GetCurrentWeather, args.Location, err)
	return weather.ResultText(snap, err)
}

type ForecastTool struct {
	client      WeatherClient
	defaultDays int
}

func NewForecastTool(client WeatherClient, defaultDays int) *ForecastTool {
	if defaultDays <= 0 || defaultDays > MaxForecastDays {
		defaultDays = weather.DefaultForecastDays
	}
	return &ForecastTool{client: client, defaultDays: defaultDays}
}

func (t *ForecastTool) ID() ToolID { return GetWeatherForecast }

func (t *ForecastTool) Definition() providers.ToolDefinition {
	return functionDefinition(GetWeatherForecast,
		"Get weather forecast for a location.",
		map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "City name, postcode or lat,lon",
			},
			"days": map[string]any{
				"type":        "integer",
				"description": fmt.Sprintf("Number of days, 1-%d (default %d)", MaxForecastDays, t.defaultDays),
				"minimum":     1,
				"maximum":     MaxForecastDays,
			},
		},
		"location",
	)
}

func (t *ForecastTool) Execute(ctx context.Context, rawArgs string) (string, error) {
	args, err := ParseForecastArgs(rawArgs)
	if err != nil {
		return "", err
	}
	return t.Run(ctx, args), nil
}

func (t *ForecastTool) Run(ctx context.Context, args ForecastArgs) string {
	days := int(args.Days)
	if days == 0 {
		days = t.defaultDays
	}
	fc, err := t.client.Forecast(ctx, args.Location, days)
	logLookupError(GetWeatherForecast, args.Location, err)
	return weather.ResultText(fc, err)
}

func ParseCurrentWeatherArgs(raw string) (CurrentWeatherArgs, error) {
	var args CurrentWeatherArgs
	if err := decodeArgs(raw, &args); err != nil {
		return args, &ArgumentError{Tool: GetCurrentWeather, Err: err}
	}
	args.Location = strings.TrimSpace(args.Location)
	if args.Location == "" {
		return args, &ArgumentError{Tool: GetCurrentWeather, Err: weather.ErrEmptyLocation}
	}
	return args, nil
}

// ParseForecastArgs leaves Days at zero when omitted; the tool substitutes
// its default.
func ParseForecastArgs(raw string) (ForecastArgs, error) {
	var args ForecastArgs
	if err := decodeArgs(raw, &args); err != nil {
		return args, &ArgumentError{Tool: GetWeatherForecast, Err: err}
	}
	args.Location = strings.TrimSpace(args.Location)
	if args.Location == "" {
		return args, &ArgumentError{Tool: GetWeatherForecast, Err: weather.ErrEmptyLocation}
	}
	if args.Days < 0 || args.Days > MaxForecastDays {
		return args, &ArgumentError{
			Tool: GetWeatherForecast,
			Err:  fmt.Errorf("days must be between 1 and %d, got %d", MaxForecastDays, args.Days),
		}
	}
	return args, nil
}

func decodeArgs(raw string, out any) error {
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("malformed argument object: %w", err)
	}
	return nil
}

func logLookupError(id ToolID, location string, err error) {
	if err == nil {
		return
	}
	var pErr *weather.ProviderError
	if errors.As(err, &pErr) {
		logger.WarnCF("tool", "Weather provider rejected lookup",
			map[string]any{"tool": string(id), "location": location, "error": pErr.Message})
		return
	}
	logger.ErrorCF("tool", "Weather lookup failed",
		map[string]any{"tool": string(id), "location": location, "error": err.Error()})
}
