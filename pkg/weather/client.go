package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sipeed/picoweather/pkg/logger"
)

const (
	DefaultBaseURL      = "http://api.weatherapi.com"
	DefaultForecastDays = 3
)

var ErrEmptyLocation = errors.New("location is empty")

// Client talks to the weatherapi.com REST API. It performs exactly one
// request per call and never retries.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type clientOptions struct {
	httpClient *http.Client
	timeout    *time.Duration
}

type Option func(*clientOptions)

// WithHTTPClient supplies the transport. The client is copied, so a later
// WithTimeout never touches the caller's value.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithTimeout bounds each provider request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = &timeout
	}
}

func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	o := &clientOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	httpClient := &http.Client{}
	if o.httpClient != nil {
		owned := *o.httpClient
		httpClient = &owned
	}
	if o.timeout != nil {
		httpClient.Timeout = *o.timeout
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Current fetches current conditions for a free-text location.
func (c *Client) Current(ctx context.Context, location string) (*Snapshot, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}

	var body currentResponse
	if err := c.get(ctx, "current.json", url.Values{"q": {location}}, &body); err != nil {
		return nil, err
	}

	return &Snapshot{
		Location:     body.Location.Name,
		TemperatureC: body.Current.TempC,
		Condition:    body.Current.Condition.Text,
	}, nil
}

// Forecast fetches a daily forecast. days <= 0 selects DefaultForecastDays;
// the upper bound is left to the provider.
func (c *Client) Forecast(ctx context.Context, location string, days int) (*Forecast, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}
	if days <= 0 {
		days = DefaultForecastDays
	}

	var body forecastResponse
	params := url.Values{"q": {location}, "days": {strconv.Itoa(days)}}
	if err := c.get(ctx, "forecast.json", params, &body); err != nil {
		return nil, err
	}

	result := &Forecast{
		Location: body.Location.Name,
		Days:     make([]ForecastDay, 0, len(body.Forecast.ForecastDay)),
	}
	for _, d := range body.Forecast.ForecastDay {
		result.Days = append(result.Days, ForecastDay{
			Date:      d.Date,
			MaxTempC:  d.Day.MaxTempC,
			MinTempC:  d.Day.MinTempC,
			Condition: d.Day.Condition.Text,
		})
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	params.Set("aqi", "no")
	reqURL := fmt.Sprintf("%s/v1/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read weather response: %w", err)
	}

	logger.DebugCF("weather", "Provider response", map[string]any{
		"endpoint":    endpoint,
		"location":    params.Get("q"),
		"status":      resp.StatusCode,
		"bytes":       len(data),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	var envelope providerErrorBody
	if err := json.Unmarshal(data, &envelope); err != nil {
		return &DecodeError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	if envelope.Error != nil {
		return &ProviderError{
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
			StatusCode: resp.StatusCode,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}
