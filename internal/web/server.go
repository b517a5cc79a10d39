// Package web serves the DARC pages as HTML and proxies the /api endpoints
// to the analysis backend.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/darc-project/darc/internal/analysis"
	"github.com/darc-project/darc/internal/auth"
	"github.com/darc-project/darc/internal/config"
	"github.com/darc-project/darc/internal/logger"
	"github.com/darc-project/darc/internal/requester"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
)

// Backend reaches the analysis endpoints
type Backend interface {
	Do(ctx context.Context, action analysis.Action, sub analysis.Submission) (*requester.Response, error)
	Submit(ctx context.Context, action analysis.Action, sub analysis.Submission) (*analysis.Result, error)
}

// Accounts signs users up and in
type Accounts interface {
	Signup(ctx context.Context, req auth.SignupRequest) (string, error)
	Login(ctx context.Context, req auth.LoginRequest) (string, error)
}

// Server is the web front end
type Server struct {
	config   *config.WebConfig
	backend  Backend
	accounts Accounts
	pages    pages
	sessions *sessions
	handler  http.Handler
}

func NewServer(cfg *config.WebConfig, backend Backend, accounts Accounts) (*Server, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:   cfg,
		backend:  backend,
		accounts: accounts,
		pages:    p,
		sessions: newSessions(),
	}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(withSessionToken)

	r.Get("/healthz", s.health)

	r.Get("/", s.landing)
	r.Get("/signup", s.signupForm)
	r.Post("/signup", s.signup)
	r.Get("/login", s.loginForm)
	r.Post("/login", s.login)
	r.Get("/logout", s.logout)
	r.Get("/dashboard", s.dashboard)
	r.Post("/dashboard", s.runAction)

	r.Route("/api", func(api chi.Router) {
		api.Use(cors)
		api.Post("/{action}", s.proxyAction)
	})

	r.NotFound(s.notFound)
	return r
}

// Handler returns the router with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// requestLogger logs each request through zap
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("web request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
		)
	})
}

// serve runs the server on ln until ctx is cancelled
func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel for server errors
	errChan := make(chan error, 1)

	go func() {
		logger.Info("Starting web server", zap.String("address", ln.Addr().String()))

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down web server", zap.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

type serverParams struct {
	fx.In

	Web      *config.WebConfig
	Auth     *config.AuthConfig
	Endpoint *config.EndpointConfig
	Backend  *analysis.Client
}

// newServer keeps tokens in browser cookies, so the account client gets no
// local token store.
func newServer(p serverParams) (*Server, error) {
	accounts, err := auth.NewClient(p.Auth, p.Endpoint, nil)
	if err != nil {
		return nil, err
	}
	return NewServer(p.Web, p.Backend, accounts)
}

func register(lc fx.Lifecycle, s *Server, shutdowner fx.Shutdowner) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", s.config.Addr())
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
			}
			go func() {
				defer close(done)
				if err := s.serve(ctx, ln); err != nil {
					logger.Error("Web server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

// Module provides the web server and runs it for the lifetime of the app
var Module = fx.Module("web",
	fx.Provide(newServer),
	fx.Invoke(register),
)
