package weather

import "fmt"

// Snapshot is the current-conditions payload handed back to the model.
type Snapshot struct {
	Location     string  `json:"location"`
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
}

// Forecast keeps the provider's chronological day order.
type Forecast struct {
	Location string        `json:"location"`
	Days     []ForecastDay `json:"forecast"`
}

type ForecastDay struct {
	Date      string  `json:"date"`
	MaxTempC  float64 `json:"max_temp_c"`
	MinTempC  float64 `json:"min_temp_c"`
	Condition string  `json:"condition"`
}

// ProviderError is an error object reported by the weather provider itself,
// e.g. an unknown location or an invalid key.
type ProviderError struct {
	Code       int
	Message    string
	StatusCode int
}

func (e *ProviderError) Error() string {
	return e.Message
}

// DecodeError means the provider answered with something that is not the
// JSON document we expect.
type DecodeError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response (status %d): %v", e.Endpoint, e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type providerErrorBody struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type conditionBody struct {
	Text string `json:"text"`
}

type locationBody struct {
	Name string `json:"name"`
}

type currentResponse struct {
	Location locationBody `json:"location"`
	Current  struct {
		TempC     float64       `json:"temp_c"`
		Condition conditionBody `json:"condition"`
	} `json:"current"`
}

type forecastResponse struct {
	Location locationBody `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC  float64       `json:"maxtemp_c"`
				MinTempC  float64       `json:"mintemp_c"`
				Condition conditionBody `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}
