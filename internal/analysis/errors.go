package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnknownAction       = errors.New("unknown action")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrMalformedResponse   = errors.New("response is not a JSON object")
	ErrMissingField        = errors.New("response field missing")
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	// Detail is the backend's "detail" message when it sent one.
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// NewStatusError builds a StatusError, pulling "detail" out of a JSON body when present.
func NewStatusError(status int, body []byte) *StatusError {
	e := &StatusError{StatusCode: status}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return e
	}
	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		e.Detail = text
	} else {
		e.Detail = string(payload.Detail)
	}
	return e
}
