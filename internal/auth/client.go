// Package auth talks to the external account service: signup and login both
// return an access token that is kept in local storage.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/darc-project/darc/internal/analysis"
	"github.com/darc-project/darc/internal/config"
	"github.com/darc-project/darc/internal/logger"
	"github.com/darc-project/darc/internal/requester"
	"go.uber.org/zap"
)

var (
	ErrSignupURLMissing = errors.New("signup URL is not configured")
	ErrLoginURLMissing  = errors.New("login URL is not configured")
	ErrNoToken          = errors.New("response has no access_token")
)

// SignupRequest is the body posted to the signup endpoint.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body posted to the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken *string `json:"access_token"`
}

// TokenStore persists the access token.
type TokenStore interface {
	SetToken(token string) error
}

type Client struct {
	signup requester.RouteExecutor
	login  requester.RouteExecutor
	tokens TokenStore
}

// NewClient builds executors for the configured signup and login URLs.
// Relative URLs resolve against the backend base URL. Backend credentials are
// never sent to the account service.
func NewClient(cfg *config.AuthConfig, backend *config.EndpointConfig, tokens TokenStore) (*Client, error) {
	endpoint := &config.EndpointConfig{
		BaseURL:  backend.BaseURL,
		AuthType: config.AuthTypeNone,
		Timeout:  backend.Timeout,
	}
	r := requester.NewHTTPRequester(requester.HTTPRequesterParams{
		ServiceConfig: endpoint,
		AuthManager: requester.NewHTTPAuthManager(requester.HTTPAuthManagerParams{
			EndpointConfig: endpoint,
		}),
	})

	c := &Client{tokens: tokens}
	var err error
	if cfg.SignupURL != "" {
		if c.signup, err = r.BuildRouteExecutor(&requester.RouteConfig{Path: cfg.SignupURL, Method: "POST"}); err != nil {
			return nil, err
		}
	}
	if cfg.LoginURL != "" {
		if c.login, err = r.BuildRouteExecutor(&requester.RouteConfig{Path: cfg.LoginURL, Method: "POST"}); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Signup registers an account and stores the returned access token. A
// successful reply without a token (the account record only) still counts as
// signed up; nothing is stored and the token is empty.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (string, error) {
	var (
		token *string
		err   error
	)
	if c.signup == nil {
		err = ErrSignupURLMissing
	} else {
		token, err = c.exchange(ctx, c.signup, req)
	}
	if err != nil {
		logger.Error("Signup failed", zap.String("username", req.Username), zap.Error(err))
		return "", err
	}
	if token == nil {
		logger.Warn("Signup response has no access_token, nothing stored", zap.String("username", req.Username))
		return "", nil
	}
	return *token, nil
}

// Login authenticates and stores the returned access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	var (
		token *string
		err   error
	)
	if c.login == nil {
		err = ErrLoginURLMissing
	} else {
		token, err = c.exchange(ctx, c.login, req)
		if err == nil && token == nil {
			err = ErrNoToken
		}
	}
	if err != nil {
		logger.Error("Login failed", zap.String("username", req.Username), zap.Error(err))
		return "", err
	}
	return *token, nil
}

// exchange posts body and stores the access_token if the reply has one.
// A nil token with a nil error means the reply succeeded without a token.
func (c *Client) exchange(ctx context.Context, executor requester.RouteExecutor, body interface{}) (*string, error) {
	resp, err := executor(ctx, body)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, analysis.NewStatusError(resp.StatusCode, resp.Body)
	}

	var payload tokenResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrMalformedResponse, err)
	}
	if payload.AccessToken == nil {
		return nil, nil
	}

	if c.tokens != nil {
		if err := c.tokens.SetToken(*payload.AccessToken); err != nil {
			return nil, fmt.Errorf("failed to store token: %w", err)
		}
	}
	return payload.AccessToken, nil
}
