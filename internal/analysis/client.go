package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/darc-project/darc/internal/logger"
	"github.com/darc-project/darc/internal/requester"
	"go.uber.org/zap"
)

// Client submits code to the backend analysis endpoints.
type Client struct {
	executors map[Action]requester.RouteExecutor
}

// NewClient builds one route executor per action.
func NewClient(r *requester.HTTPRequester) (*Client, error) {
	c := &Client{executors: make(map[Action]requester.RouteExecutor, len(specs))}
	for _, s := range specs {
		executor, err := r.BuildRouteExecutor(&requester.RouteConfig{
			Path:        s.Path,
			Method:      "POST",
			Description: s.Title,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build executor for %s: %w", s.Action, err)
		}
		c.executors[s.Action] = executor
	}
	return c, nil
}

// Do posts sub to the action's endpoint and returns the raw response.
func (c *Client) Do(ctx context.Context, action Action, sub Submission) (*requester.Response, error) {
	executor, ok := c.executors[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return executor(ctx, sub)
}

// Submit posts sub to the action's endpoint and extracts the action's field.
func (c *Client) Submit(ctx context.Context, action Action, sub Submission) (*Result, error) {
	spec, err := Lookup(string(action))
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(ctx, action, sub)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", action, err)
	}
	value, err := ExtractField(resp, spec.Field)
	if err != nil {
		logger.Warn("unusable analysis response",
			zap.String("action", string(action)),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return &Result{Action: action, Value: value}, nil
}

// ExtractField returns field from a JSON object response.
func ExtractField(resp *requester.Response, field string) (json.RawMessage, error) {
	if !resp.IsSuccess() {
		return nil, NewStatusError(resp.StatusCode, resp.Body)
	}
	var object map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &object); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	value, ok := object[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingField, field)
	}
	return bytes.Clone(value), nil
}
