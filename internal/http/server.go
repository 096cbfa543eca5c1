package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"relatoriomei/internal/core"
	"relatoriomei/internal/form"
	"relatoriomei/internal/log"
	"relatoriomei/internal/middleware/ratelimit"
	"relatoriomei/internal/middleware/security"
	"relatoriomei/internal/middleware/trace"
	"relatoriomei/internal/navigator"
	appweb "relatoriomei/web"
)

// ReportStore is the store surface used by the page and the JSON API.
type ReportStore interface {
	Profile() core.Profile
	SetProfile(ctx context.Context, patch core.ProfilePatch)
	Report(p core.Period) core.Report
	SetReport(ctx context.Context, p core.Period, patch core.ReportPatch) error
	HasData(p core.Period) bool
	Years() []int
	FilledReports() []core.PeriodReport
	FilledMonths(year int) int
	DeletePeriod(ctx context.Context, p core.Period) error
	DeleteYear(ctx context.Context, year int) []core.Period
}

// Deps wires the server to the application state. The page state (selected
// period, year window, pending confirmation) is process-wide: the app
// serves a single user.
type Deps struct {
	Store     ReportStore
	Navigator *navigator.Navigator
	Form      *form.Form
	Logger    *log.Logger

	// RateLimitPerMinute bounds mutating requests per client.
	RateLimitPerMinute int

	// Ready reports dependency health for /readyz. Nil means always ready.
	Ready func(ctx context.Context) error
}

type Server struct {
	http.Server
	templates *template.Template
	store     ReportStore
	nav       *navigator.Navigator
	form      *form.Form
	logger    *log.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	ready     func(ctx context.Context) error
}

// NewServer parses the embedded templates and builds the routed handler.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Store == nil || deps.Navigator == nil || deps.Form == nil {
		return nil, fmt.Errorf("http server requires store, navigator and form")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	cfg := ratelimit.DefaultConfig()
	if deps.RateLimitPerMinute > 0 {
		cfg.RequestsPerMinute = deps.RateLimitPerMinute
	}

	s := &Server{
		templates: t,
		store:     deps.Store,
		nav:       deps.Navigator,
		form:      deps.Form,
		logger:    logger.WithComponent(log.ComponentHTTP),
		limiter:   ratelimit.NewLimiter(cfg),
		detector:  security.NewDetector(),
		ready:     deps.Ready,
	}

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		s.limiter.Stop()
		return nil, err
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// UI partials
	mux.HandleFunc("GET /ui/form", s.handleFormPartial)
	mux.HandleFunc("POST /ui/field", s.handleFieldUpdate)
	mux.HandleFunc("POST /ui/signature-date", s.handleSignatureDate)

	mux.HandleFunc("GET /ui/navigator", s.handleNavigatorPartial)
	mux.HandleFunc("POST /ui/navigator/year", s.handleSelectYear)
	mux.HandleFunc("POST /ui/navigator/month", s.handleSelectMonth)
	mux.HandleFunc("POST /ui/navigator/scroll", s.handleScroll)
	mux.HandleFunc("POST /ui/navigator/resize", s.handleResize)
	mux.HandleFunc("POST /ui/navigator/delete/period", s.handleRequestDeletePeriod)
	mux.HandleFunc("POST /ui/navigator/delete/year", s.handleRequestDeleteYear)
	mux.HandleFunc("POST /ui/navigator/delete/confirm", s.handleConfirmDelete)
	mux.HandleFunc("POST /ui/navigator/delete/cancel", s.handleCancelDelete)

	// Commands
	mux.HandleFunc("POST /actions/sample", s.action(s.form.GenerateSampleData, s.sampleGenerated))
	mux.HandleFunc("POST /actions/reminder", s.action(s.form.AddMonthlyCalendarReminder))
	mux.HandleFunc("POST /actions/print", s.action(s.form.PrintReport))
	mux.HandleFunc("GET /export/csv", s.action(s.form.ExportCSV))
	mux.HandleFunc("GET /export/period.csv", s.action(s.form.ExportPeriodCSV))
	mux.HandleFunc("GET /export/xlsx", s.action(s.form.ExportWorkbook))
	mux.HandleFunc("GET /export/sheets", s.action(s.form.ExportToSpreadsheetService))

	// JSON API
	mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	mux.HandleFunc("PATCH /api/profile", s.handlePatchProfile)
	mux.HandleFunc("GET /api/reports", s.handleListReports)
	mux.HandleFunc("GET /api/reports/{period}", s.handleGetReport)
	mux.HandleFunc("PATCH /api/reports/{period}", s.handlePatchReport)
	mux.HandleFunc("DELETE /api/reports/{period}", s.handleDeleteReport)
	mux.HandleFunc("GET /api/years", s.handleListYears)
	mux.HandleFunc("DELETE /api/years/{year}", s.handleDeleteYear)
	return nil
}

// middleware wraps the mux, outermost first: tracing, security headers,
// suspicious request detection, then rate limiting of mutating requests.
func (s *Server) middleware(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
		TooManyRequestsError("Muitas requisições. Aguarde um instante e tente novamente.").Write(w)
	})(next)
	detected := s.detector.Middleware(s.logger)(limited)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(detected)
	return trace.NewMiddleware(s.logger, s.detector.ExtractClientIP).Middleware(headers)
}

// Shutdown stops the rate limiter and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

type pageData struct {
	Nav  navigator.View
	Form form.View
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, NewHTMXResponse(), "index", pageData{Nav: s.nav.View(), Form: s.form.View()})
}

// render executes a named template into the builder body. A template
// failure becomes a 500 without partial output.
func (s *Server) render(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Template render failed",
			log.FieldOperation, log.OpRender, "template", name, log.FieldError, err)
		InternalServerError("Erro ao montar a página").Write(w)
		return
	}
	b.Header("Content-Type", "text/html; charset=utf-8").Body(buf.Bytes()).Write(w)
}
