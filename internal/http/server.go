package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"sure/internal/cashflow"
	applog "sure/internal/log"
	"sure/internal/middleware/security"
	"sure/internal/middleware/trace"
	"sure/internal/releasenotes"
	"sure/internal/statements"
	appweb "sure/web"
)

// collaboratorTimeout bounds every call to the income statement and the
// release notes provider.
const collaboratorTimeout = 7 * time.Second

type Server struct {
	http.Server
	templates  *template.Template
	statement  statements.IncomeStatement
	families   statements.FamilyReader
	releases   releasenotes.Provider
	sankeyOpts cashflow.Options
	now        func() time.Time
	logger     *applog.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithSankeyOptions sets the palette and colors used by the cash-flow graph.
func WithSankeyOptions(o cashflow.Options) Option {
	return func(s *Server) { s.sankeyOpts = o }
}

// WithClock replaces time.Now, used for the fallback release date.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. Any collaborator may be nil: the pages then render empty data
// or the fallback release notes.
func NewServer(addr string, st statements.IncomeStatement, fr statements.FamilyReader, rp releasenotes.Provider, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		statement:  st,
		families:   fr,
		releases:   rp,
		sankeyOpts: cashflow.DefaultOptions(),
		now:        time.Now,
		logger:     applog.FromContext(context.Background()),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.WithComponent(applog.ComponentTemplate).Warn("Failed parsing templates",
			applog.FieldOperation, applog.OpParse,
			applog.FieldError, err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.WithComponent(applog.ComponentHTTP).Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.Handle("/", security.NoStore(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("/api/dashboard", security.NoStore(http.HandlerFunc(s.handleDashboardData)))
	mux.HandleFunc("/changelog", s.handleChangelog)
	mux.HandleFunc("/api/changelog", s.handleChangelogData)
	mux.HandleFunc("/feedback", s.handleFeedback)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.logger, security.NewClientIP().Extract)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// render executes a page template, answering 500 if templates are missing.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate)
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender,
			applog.FieldTemplate, name,
			applog.FieldError, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("templates not loaded"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
