package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/darc-project/darc/internal/config"
)

// HTTPRequestBuilder turns a route and a body into an *http.Request
type HTTPRequestBuilder struct {
	serviceCfg  *config.EndpointConfig
	authMgr     AuthManager
	routeConfig *RouteConfig
}

// NewHTTPRequestBuilder creates a new HTTPRequestBuilder
func NewHTTPRequestBuilder(serviceCfg *config.EndpointConfig, authMgr AuthManager, routeConfig *RouteConfig) *HTTPRequestBuilder {
	return &HTTPRequestBuilder{
		serviceCfg:  serviceCfg,
		authMgr:     authMgr,
		routeConfig: routeConfig,
	}
}

// BuildRequest builds a request for the route; a non-nil body is sent as JSON
func (b *HTTPRequestBuilder) BuildRequest(ctx context.Context, body interface{}) (*Request, error) {
	if b.routeConfig == nil {
		return nil, fmt.Errorf("route config is nil")
	}
	method := b.routeConfig.Method
	if method == "" {
		method = http.MethodPost
	}
	url := b.buildURL(b.routeConfig.Path)

	reader, contentType, err := b.createRequestBody(method, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request body: %w", err)
	}

	headers := make(map[string]string)
	for k, v := range b.serviceCfg.Headers {
		headers[k] = v
	}
	for k, v := range b.routeConfig.Headers {
		headers[k] = v
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	if b.authMgr != nil {
		if err := b.authMgr.ApplyAuth(httpReq); err != nil {
			return nil, fmt.Errorf("failed to apply authentication: %w", err)
		}
	}

	return &Request{
		URL:         url,
		Method:      method,
		Body:        reader,
		Headers:     headers,
		ContentType: contentType,
		HttpRequest: httpReq,
	}, nil
}

func (b *HTTPRequestBuilder) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(b.serviceCfg.BaseURL, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (b *HTTPRequestBuilder) createRequestBody(method string, body interface{}) (io.Reader, string, error) {
	if method == http.MethodGet || body == nil {
		return nil, "", nil
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(jsonData), "application/json", nil
}
