package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/darc-project/darc/internal/analysis"
	"github.com/darc-project/darc/internal/auth"
	"github.com/darc-project/darc/internal/config"
	"github.com/darc-project/darc/internal/requester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendCall struct {
	path          string
	body          string
	authorization string
}

// fakeBackend answers every request with status and body and records the calls.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []backendCall
	status int
	body   string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, backendCall{path: r.URL.Path, body: string(body), authorization: r.Header.Get("Authorization")})
	status, respBody := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(respBody))
}

type fakeAccounts struct {
	token string
	err   error
	seen  []auth.SignupRequest
}

func (f *fakeAccounts) Signup(_ context.Context, req auth.SignupRequest) (string, error) {
	f.seen = append(f.seen, req)
	return f.token, f.err
}

func (f *fakeAccounts) Login(_ context.Context, req auth.LoginRequest) (string, error) {
	return f.token, f.err
}

func newTestServer(t *testing.T, backendURL string, authType config.AuthType, accounts Accounts) *Server {
	t.Helper()
	endpoint := &config.EndpointConfig{BaseURL: backendURL, AuthType: authType}
	r := requester.NewHTTPRequester(requester.HTTPRequesterParams{
		ServiceConfig: endpoint,
		AuthManager:   requester.NewHTTPAuthManager(requester.HTTPAuthManagerParams{EndpointConfig: endpoint}),
	})
	client, err := analysis.NewClient(r)
	require.NoError(t, err)

	if accounts == nil {
		accounts = &fakeAccounts{}
	}
	s, err := NewServer(&config.WebConfig{Host: "127.0.0.1", Port: 0}, client, accounts)
	require.NoError(t, err)
	return s
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func cookieValue(rec *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestProxy_ForwardsSubmission(t *testing.T) {
	backend := &fakeBackend{body: `{"complexity_score":3}`}
	upstream := httptest.NewServer(backend)
	defer upstream.Close()
	s := newTestServer(t, upstream.URL, config.AuthTypeNone, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/complexity", strings.NewReader(`{"code":"print(1)","language":"python"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(s, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"complexity_score":3}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	require.Len(t, backend.calls, 1)
	assert.Equal(t, "/api/complexity", backend.calls[0].path)
	assert.JSONEq(t, `{"code":"print(1)","language":"python"}`, backend.calls[0].body)
}

func TestProxy_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		backend    *fakeBackend
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unknown action",
			path:       "/api/lint",
			body:       `{"code":"x","language":"go"}`,
			backend:    &fakeBackend{},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"detail":"unknown action: \"lint\""}`,
		},
		{
			name:       "body is not an object",
			path:       "/api/analyze",
			body:       `print(1)`,
			backend:    &fakeBackend{},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"request body must be a JSON object with code and language"}`,
		},
		{
			name:       "backend status is relayed",
			path:       "/api/review",
			body:       `{"code":"x","language":"go"}`,
			backend:    &fakeBackend{status: http.StatusUnprocessableEntity, body: `{"detail":"unsupported language"}`},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"detail":"unsupported language"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(tt.backend)
			defer upstream.Close()
			s := newTestServer(t, upstream.URL, config.AuthTypeNone, nil)

			rec := do(s, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestProxy_BackendDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	backendURL := upstream.URL
	upstream.Close()
	s := newTestServer(t, backendURL, config.AuthTypeNone, nil)

	rec := do(s, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"code":"x","language":"go"}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"detail":"analysis backend unavailable"}`, rec.Body.String())
}

func TestProxy_Preflight(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1", config.AuthTypeNone, nil)

	rec := do(s, httptest.NewRequest(http.MethodOptions, "/api/analyze", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestProxy_SessionTokenFromCookie(t *testing.T) {
	backend := &fakeBackend{body: `{"suggestions":[]}`}
	upstream := httptest.NewServer(backend)
	defer upstream.Close()
	s := newTestServer(t, upstream.URL, config.AuthTypeSession, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"code":"x","language":"go"}`))
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: "tok123"})
	rec := do(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, backend.calls, 1)
	assert.Equal(t, "Bearer tok123", backend.calls[0].authorization)
}

func TestSignup_SetsCookieAndRedirects(t *testing.T) {
	accounts := &fakeAccounts{token: "tok123"}
	s := newTestServer(t, "http://127.0.0.1:1", config.AuthTypeNone, accounts)

	rec := do(s, postForm("/signup", url.Values{"username": {"a"}, "email": {"a@b.com"}, "password": {"pw"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	token, ok := cookieValue(rec, tokenCookie)
	require.True(t, ok)
	assert.Equal(t, "tok123", token)
	assert.Equal(t, []auth.SignupRequest{{Username: "a", Email: "a@b.com", Password: "pw"}}, accounts.seen)
}

func TestSignup_WithoutTokenStillRedirects(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1", config.AuthTypeNone, &fakeAccounts{})

	rec := do(s, postForm("/signup", url.Values{"username": {"a"}, "email": {"a@b.com"}, "password": {"pw"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	_, ok := cookieValue(rec, tokenCookie)
	assert.False(t, ok)
}

func TestSignup_FailureKeepsForm(t *testing.T) {
	accounts := &fakeAccounts{err: errors.New("connection refused")}
	s := newTestServer(t, "http://127.0.0.1:1", config.AuthTypeNone, accounts)

	rec := do(s, postForm("/signup", url.Values{"username": {"a"}, "email": {"a@b.com"}, "password": {"pw"}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	_, ok := cookieValue(rec, tokenCookie)
	assert.False(t, ok)

	body := rec.Body.String()
	assert.Contains(t, body, `value="a"`)
	assert.Contains(t, body, `value="a@b.com"`)
	assert.NotContains(t, body, "connection refused")
}

func TestLogin_RedirectsToDashboard(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1", config.AuthTypeNone, &fakeAccounts{token: "tok456"})

	rec := do(s, postForm("/login", url.Values{"username": {"a"}, "password": {"pw"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	token, _ := cookieValue(rec, tokenCookie)
	assert.Equal(t, "tok456", token)
}

func TestDashboard_RunAction(t *testing.T) {
	backend := &fakeBackend{body: `{"complexity_score":3}`}
	upstream := httptest.NewServer(backend)
	defer upstream.Close()
	s := newTestServer(t, upstream.URL, config.AuthTypeNone, nil)

	rec := do(s, postForm("/dashboard", url.Values{"code": {"print(1)"}, "language": {"python"}, "action": {"complexity"}}))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Code Complexity")
	assert.Contains(t, body, "<pre>3</pre>")
	assert.Contains(t, body, `<option value="python" selected>`)
	assert.JSONEq(t, `{"code":"print(1)","language":"python"}`, backend.calls[0].body)

	// the session remembers the form and the slot
	sessionID, ok := cookieValue(rec, sessionCookie)
	require.True(t, ok)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sessionID})
	rec = do(s, req)

	assert.Contains(t, rec.Body.String(), "<pre>3</pre>")
	assert.Contains(t, rec.Body.String(), "print(1)")
	_, reissued := cookieValue(rec, sessionCookie)
	assert.False(t, reissued)
}

func TestDashboard_FailureShowsBannerAndKeepsSlot(t *testing.T) {
	backend := &fakeBackend{body: `{"complexity_score":3}`}
	upstream := httptest.NewServer(backend)
	defer upstream.Close()
	s := newTestServer(t, upstream.URL, config.AuthTypeNone, nil)

	rec := do(s, postForm("/dashboard", url.Values{"code": {"x"}, "language": {"go"}, "action": {"complexity"}}))
	sessionID, _ := cookieValue(rec, sessionCookie)

	backend.mu.Lock()
	backend.body = `{"unexpected":true}`
	backend.mu.Unlock()

	req := postForm("/dashboard", url.Values{"code": {"x"}, "language": {"go"}, "action": {"complexity"}})
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sessionID})
	rec = do(s, req)

	body := rec.Body.String()
	assert.Contains(t, body, `class="error"`)
	assert.Contains(t, body, "Analyze Complexity failed")
	assert.Contains(t, body, "<pre>3</pre>")
}

func TestPages(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1", config.AuthTypeNone, nil)

	tests := []struct {
		path string
		want string
	}{
		{path: "/", want: "Welcome to the School Project By Fazin"},
		{path: "/signup", want: `name="email"`},
		{path: "/login", want: `action="/login"`},
		{path: "/dashboard", want: "Profile Code Performance"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(s, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1", config.AuthTypeNone, nil)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestLogout_ClearsCookie(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1", config.AuthTypeNone, nil)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokenCookie {
			assert.Negative(t, c.MaxAge)
		}
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1", config.AuthTypeNone, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
