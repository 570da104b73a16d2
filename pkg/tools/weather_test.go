package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipeed/picoweather/pkg/weather"
)

type fakeWeatherClient struct {
	snapshot  *weather.Snapshot
	forecast  *weather.Forecast
	err       error
	locations []string
	days      []int
}

func (f *fakeWeatherClient) Current(_ context.Context, location string) (*weather.Snapshot, error) {
	f.locations = append(f.locations, location)
	return f.snapshot, f.err
}

func (f *fakeWeatherClient) Forecast(_ context.Context, location string, days int) (*weather.Forecast, error) {
	f.locations = append(f.locations, location)
	f.days = append(f.days, days)
	return f.forecast, f.err
}

func TestCurrentWeatherTool_Success(t *testing.T) {
	client := &fakeWeatherClient{snapshot: &weather.Snapshot{
		Location:     "Paris",
		TemperatureC: 18,
		Condition:    "Sunny",
	}}
	r, err := NewWeatherRegistry(client, 3)
	require.NoError(t, err)

	result := r.Execute(t.Context(), call("call_1", "get_current_weather", `{"location":" Paris "}`))
	require.False(t, result.IsError)
	assert.Equal(t, []string{"Paris"}, client.locations)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.ForLLM), &got))
	assert.Equal(t, "Paris", got["location"])
	assert.EqualValues(t, 18, got["temperature_c"])
	assert.Equal(t, "Sunny", got["condition"])
}

func TestCurrentWeatherTool_ProviderError(t *testing.T) {
	client := &fakeWeatherClient{err: &weather.ProviderError{
		Code:    1006,
		Message: "No matching location found.",
	}}
	r, err := NewWeatherRegistry(client, 3)
	require.NoError(t, err)

	result := r.Execute(t.Context(), call("call_1", "get_current_weather", `{"location":"Nowhere"}`))

	// Lookup failures are data for the model, not tool errors.
	assert.False(t, result.IsError)
	assert.Equal(t, "Error: No matching location found.", result.ForLLM)
}

func TestCurrentWeatherTool_TransportError(t *testing.T) {
	client := &fakeWeatherClient{err: errors.New("dial tcp: connection refused")}
	tool := NewCurrentWeatherTool(client)

	out, err := tool.Execute(t.Context(), `{"location":"Paris"}`)
	require.NoError(t, err)
	assert.Equal(t, "Error: dial tcp: connection refused", out)
}

func TestCurrentWeatherTool_BadArguments(t *testing.T) {
	tool := NewCurrentWeatherTool(&fakeWeatherClient{})

	tests := []struct {
		name string
		args string
	}{
		{name: "malformed", args: `{"location":`},
		{name: "missing location", args: `{}`},
		{name: "blank location", args: `{"location":"  "}`},
		{name: "wrong type", args: `{"location":42}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Execute(t.Context(), tt.args)
			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr), "got %v", err)
			assert.Equal(t, GetCurrentWeather, argErr.Tool)
		})
	}
}

func TestForecastTool_DefaultDays(t *testing.T) {
	client := &fakeWeatherClient{forecast: &weather.Forecast{Location: "Oslo"}}
	tool := NewForecastTool(client, 3)

	_, err := tool.Execute(t.Context(), `{"location":"Oslo"}`)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, client.days)
}

func TestForecastTool_ExplicitDays(t *testing.T) {
	client := &fakeWeatherClient{forecast: &weather.Forecast{
		Location: "Oslo",
		Days: []weather.ForecastDay{
			{Date: "2026-10-16", MaxTempC: 9, MinTempC: 2, Condition: "Cloudy"},
			{Date: "2026-10-17", MaxTempC: 8, MinTempC: 1, Condition: "Light rain"},
		},
	}}
	tool := NewForecastTool(client, 3)

	out, err := tool.Execute(t.Context(), `{"location":"Oslo","days":"2"}`)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, client.days)

	var got weather.Forecast
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Oslo", got.Location)
	require.Len(t, got.Days, 2)
	assert.Equal(t, "Light rain", got.Days[1].Condition)
}

func TestForecastTool_DaysOutOfRange(t *testing.T) {
	tool := NewForecastTool(&fakeWeatherClient{}, 3)

	for _, args := range []string{`{"location":"Oslo","days":15}`, `{"location":"Oslo","days":-1}`} {
		_, err := tool.Execute(t.Context(), args)
		var argErr *ArgumentError
		require.True(t, errors.As(err, &argErr), "args %s", args)
		assert.Contains(t, argErr.Error(), "days must be between 1 and 14")
	}
}

func TestNewForecastTool_ClampsDefault(t *testing.T) {
	assert.Equal(t, weather.DefaultForecastDays, NewForecastTool(&fakeWeatherClient{}, 0).defaultDays)
	assert.Equal(t, weather.DefaultForecastDays, NewForecastTool(&fakeWeatherClient{}, 30).defaultDays)
	assert.Equal(t, 7, NewForecastTool(&fakeWeatherClient{}, 7).defaultDays)
}

func TestNewWeatherRegistry_NilClient(t *testing.T) {
	_, err := NewWeatherRegistry(nil, 3)
	assert.Error(t, err)
}

func TestWeatherRegistry_EndToEndAgainstStubServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") == "Nowhere" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"location":{"name":"Paris"},
			"current":{"temp_c":18.0,"condition":{"text":"Sunny"}}
		}`))
	}))
	defer server.Close()

	r, err := NewWeatherRegistry(weather.NewClient("test-key", server.URL), 3)
	require.NoError(t, err)

	ok := r.Execute(t.Context(), call("call_1", "get_current_weather", `{"location":"Paris"}`))
	assert.True(t, strings.HasPrefix(ok.ForLLM, "{"), ok.ForLLM)
	assert.Contains(t, ok.ForLLM, `"location":"Paris"`)

	miss := r.Execute(t.Context(), call("call_2", "get_current_weather", `{"location":"Nowhere"}`))
	assert.Equal(t, "Error: No matching location found.", miss.ForLLM)
}
