package analysis

import "encoding/json"

// Submission is the body of every analysis request.
type Submission struct {
	Code     string   `json:"code"`
	Language Language `json:"language"`
}

// Result is one action's extracted response field.
type Result struct {
	Action Action
	// Value is the field exactly as the backend sent it.
	Value json.RawMessage
}
