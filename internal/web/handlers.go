package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/darc-project/darc/internal/analysis"
	"github.com/darc-project/darc/internal/auth"
	"github.com/darc-project/darc/internal/config"
	"github.com/darc-project/darc/internal/form"
	"github.com/darc-project/darc/internal/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxSubmissionBytes bounds the body accepted by the /api proxy
const maxSubmissionBytes = 1 << 20

func (s *Server) landing(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, pageLanding, nil)
}

func (s *Server) signupForm(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, pageSignup, credentialsView{})
}

// signup stores the token in a cookie, if the backend returned one, and moves
// on to login. A failure was already logged by the account client; the form is
// shown again as it was.
func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	view := credentialsView{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	token, err := s.accounts.Signup(r.Context(), auth.SignupRequest{
		Username: view.Username,
		Email:    view.Email,
		Password: view.Password,
	})
	if err != nil {
		s.pages.render(w, pageSignup, view)
		return
	}

	if token != "" {
		setTokenCookie(w, token)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, pageLogin, credentialsView{})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	view := credentialsView{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	token, err := s.accounts.Login(r.Context(), auth.LoginRequest{
		Username: view.Username,
		Password: view.Password,
	})
	if err != nil {
		s.pages.render(w, pageLogin, view)
		return
	}

	setTokenCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	clearTokenCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.identify(w, r)
	s.pages.render(w, pageDashboard, newDashboardView(s.sessions.get(id), ""))
}

// runAction submits the posted form. The input is saved before the request
// goes out; the result lands in its slot whenever it returns.
func (s *Server) runAction(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.identify(w, r)
	code := r.FormValue("code")
	language := analysis.Language(r.FormValue("language"))
	if language == "" {
		language = analysis.DefaultLanguage
	}

	state := s.sessions.update(id, func(st form.State) form.State {
		st.Code = code
		st.Language = language
		return st
	})

	spec, err := analysis.Lookup(r.FormValue("action"))
	if err != nil {
		s.pages.render(w, pageDashboard, newDashboardView(state, err.Error()))
		return
	}

	result, err := s.backend.Submit(r.Context(), spec.Action, state.Submission())
	if err != nil {
		logger.Error("Analysis failed", zap.String("action", string(spec.Action)), zap.Error(err))
		s.pages.render(w, pageDashboard, newDashboardView(s.sessions.get(id), fmt.Sprintf("%s failed: %v", spec.Button, err)))
		return
	}

	state = s.sessions.update(id, func(st form.State) form.State {
		return st.Apply(result)
	})
	s.pages.render(w, pageDashboard, newDashboardView(state, ""))
}

// proxyAction forwards a {code, language} body to the backend and relays the
// response untouched
func (s *Server) proxyAction(w http.ResponseWriter, r *http.Request) {
	spec, err := analysis.Lookup(chi.URLParam(r, "action"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSubmissionBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	var sub analysis.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object with code and language")
		return
	}

	resp, err := s.backend.Do(r.Context(), spec.Action, sub)
	if err != nil {
		logger.Error("Backend request failed", zap.String("action", string(spec.Action)), zap.Error(err))
		writeError(w, http.StatusBadGateway, "analysis backend unavailable")
		return
	}

	contentType := resp.Headers.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.GetVersionInfo(),
	})
}

// notFound answers unknown /api paths in JSON and everything else in text
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	http.NotFound(w, r)
}
