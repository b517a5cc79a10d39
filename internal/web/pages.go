package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/darc-project/darc/internal/analysis"
	"github.com/darc-project/darc/internal/form"
	"github.com/darc-project/darc/internal/logger"
	"github.com/darc-project/darc/internal/render"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLanding   = "landing"
	pageSignup    = "signup"
	pageLogin     = "login"
	pageDashboard = "dashboard"
)

type pages map[string]*template.Template

func loadPages() (pages, error) {
	p := make(pages)
	for _, name := range []string{pageLanding, pageSignup, pageLogin, pageDashboard} {
		t, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		p[name] = t
	}
	return p, nil
}

// render executes the page into a buffer so a template error never leaves a
// half written response
func (p pages) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := p[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Error("Failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

type credentialsView struct {
	Username string
	Email    string
	Password string
}

type panelView struct {
	Title string
	Body  string
}

type dashboardView struct {
	Code      string
	Language  analysis.Language
	Languages []analysis.Language
	Actions   []analysis.Spec
	Panels    []panelView
	Error     string
}

func newDashboardView(state form.State, errMsg string) dashboardView {
	view := dashboardView{
		Code:      state.Code,
		Language:  state.Language,
		Languages: analysis.Languages(),
		Actions:   analysis.Specs(),
		Error:     errMsg,
	}
	for _, p := range state.Panels() {
		view.Panels = append(view.Panels, panelView{
			Title: p.Spec.Title,
			Body:  render.Slot(p.Spec.Kind, p.Slot.Value),
		})
	}
	return view
}
