package weather

import (
	"encoding/json"
	"errors"
)

// ErrorPrefix marks tool output that reports a failure instead of data.
const ErrorPrefix = "Error: "

// ResultText renders a lookup result as tool output for the model: the JSON
// object on success, "Error: <message>" on any failure. Failures become text
// so the conversation continues and the model can explain the problem.
func ResultText(v any, err error) string {
	if err != nil {
		return ErrorText(err)
	}
	data, mErr := json.Marshal(v)
	if mErr != nil {
		return ErrorText(mErr)
	}
	return string(data)
}

// ErrorText formats err with ErrorPrefix. Provider-reported errors keep the
// provider's own wording.
func ErrorText(err error) string {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return ErrorPrefix + pErr.Message
	}
	return ErrorPrefix + err.Error()
}
