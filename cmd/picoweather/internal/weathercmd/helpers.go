package weathercmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sipeed/picoweather/cmd/picoweather/internal"
	"github.com/sipeed/picoweather/pkg/config"
	"github.com/sipeed/picoweather/pkg/tools"
	"github.com/sipeed/picoweather/pkg/weather"
)

// loadTools builds the weather tools from config. Only the weather key is
// required here.
var loadTools = func() (*tools.CurrentWeatherTool, *tools.ForecastTool, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := internal.SetupLogging(cfg, false); err != nil {
		return nil, nil, err
	}
	return newTools(cfg)
}

func newTools(cfg *config.Config) (*tools.CurrentWeatherTool, *tools.ForecastTool, error) {
	if err := cfg.ValidateWeather(); err != nil {
		return nil, nil, err
	}
	client := weather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL,
		weather.WithTimeout(cfg.Weather.RequestTimeout()))
	return tools.NewCurrentWeatherTool(client), tools.NewForecastTool(client, cfg.Weather.ForecastDays), nil
}

func currentCmd(cmd *cobra.Command, location string) error {
	current, _, err := loadTools()
	if err != nil {
		return err
	}
	args, err := tools.ParseCurrentWeatherArgs(rawArgs(map[string]any{"location": location}))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), current.Run(cmd.Context(), args))
	return nil
}

func forecastCmd(cmd *cobra.Command, location string, days int) error {
	_, forecast, err := loadTools()
	if err != nil {
		return err
	}
	args, err := tools.ParseForecastArgs(rawArgs(map[string]any{"location": location, "days": days}))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), forecast.Run(cmd.Context(), args))
	return nil
}

// rawArgs encodes command-line input the way the model would send it, so
// both paths share the same validation.
func rawArgs(v map[string]any) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func joinLocation(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
