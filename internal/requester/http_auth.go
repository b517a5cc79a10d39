package requester

import (
	"context"
	"fmt"
	"net/http"

	"github.com/darc-project/darc/internal/config"
	"go.uber.org/fx"
)

// AuthManager handles request authentication
type AuthManager interface {
	ApplyAuth(req *http.Request) error
}

// TokenSource yields the access token kept in local storage.
// An empty token with a nil error means no one is signed in.
type TokenSource interface {
	Token() (string, error)
}

type sessionTokenKey struct{}

// WithSessionToken attaches a token to ctx. For session auth it takes
// precedence over the TokenSource.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey{}, token)
}

func sessionToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionTokenKey{}).(string)
	return token, ok
}

// HTTPAuthManager implements the AuthManager interface
type HTTPAuthManager struct {
	authType   config.AuthType
	authConfig map[string]string
	tokens     TokenSource
}

type HTTPAuthManagerParams struct {
	fx.In

	EndpointConfig *config.EndpointConfig
	Tokens         TokenSource `optional:"true"`
}

// NewHTTPAuthManager creates a new HTTPAuthManager
func NewHTTPAuthManager(params HTTPAuthManagerParams) *HTTPAuthManager {
	return &HTTPAuthManager{
		authType:   params.EndpointConfig.AuthType,
		authConfig: params.EndpointConfig.AuthConfig,
		tokens:     params.Tokens,
	}
}

// ApplyAuth adds authentication to the request
func (a *HTTPAuthManager) ApplyAuth(req *http.Request) error {
	switch a.authType {
	case config.AuthTypeNone, "":
		return nil
	case config.AuthTypeBasic:
		req.SetBasicAuth(a.authConfig["username"], a.authConfig["password"])
	case config.AuthTypeBearer:
		req.Header.Set("Authorization", "Bearer "+a.authConfig["token"])
	case config.AuthTypeAPIKey:
		header := a.authConfig["header"]
		if header == "" {
			header = "X-API-Key"
		}
		req.Header.Set(header, a.authConfig["key"])
	case config.AuthTypeSession:
		if token, ok := sessionToken(req.Context()); ok {
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			return nil
		}
		if a.tokens == nil {
			return nil
		}
		token, err := a.tokens.Token()
		if err != nil {
			return fmt.Errorf("failed to read session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	default:
		return fmt.Errorf("unsupported auth type: %s", a.authType)
	}
	return nil
}
