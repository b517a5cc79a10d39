package requester

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/darc-project/darc/internal/config"
	"github.com/darc-project/darc/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// HTTPRequester handles both request building and execution
type HTTPRequester struct {
	client     *http.Client
	serviceCfg *config.EndpointConfig
	authMgr    AuthManager
}

type HTTPRequesterParams struct {
	fx.In

	ServiceConfig *config.EndpointConfig
	AuthManager   AuthManager
}

// NewHTTPRequester creates a new HTTPRequester. The client timeout comes from
// the endpoint config; zero waits indefinitely.
func NewHTTPRequester(params HTTPRequesterParams) *HTTPRequester {
	return &HTTPRequester{
		client: &http.Client{
			Timeout: params.ServiceConfig.Timeout,
		},
		serviceCfg: params.ServiceConfig,
		authMgr:    params.AuthManager,
	}
}

// SetTimeout sets the timeout for the HTTP client
func (r *HTTPRequester) SetTimeout(timeout time.Duration) {
	r.client.Timeout = timeout
}

// BuildRouteExecutor creates a function that can execute requests for a specific route
func (r *HTTPRequester) BuildRouteExecutor(route *RouteConfig) (RouteExecutor, error) {
	if route == nil {
		return nil, fmt.Errorf("route config is nil")
	}
	builder := NewHTTPRequestBuilder(r.serviceCfg, r.authMgr, route)

	return func(ctx context.Context, body interface{}) (*Response, error) {
		if ctx == nil {
			ctx = context.Background()
		}
		req, err := builder.BuildRequest(ctx, body)
		if err != nil {
			return nil, err
		}
		logger.Info("request route", zap.String("method", req.Method), zap.String("url", req.URL))

		start := time.Now()
		resp, err := r.execute(req)
		if err != nil {
			logger.Error("failed to execute request", zap.String("url", req.URL), zap.Error(err))
			return nil, err
		}
		logger.Debug("route responded",
			zap.String("url", req.URL),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
		)

		return resp, nil
	}, nil
}

func (r *HTTPRequester) execute(req *Request) (resp *Response, err error) {
	httpResp, err := r.client.Do(req.HttpRequest)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       bodyBytes,
		Headers:    httpResp.Header,
	}, nil
}
