package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"expense-tracker/internal/cache"
	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
	appweb "expense-tracker/web"
)

// ExpenseRecorder is the part of the expense service the front end needs.
type ExpenseRecorder interface {
	Record(ctx context.Context, e core.Expense) error
	Summary(filter *core.Period) core.Summary
	Categories(ctx context.Context) []string
}

// Options tunes the server. Zero values select the defaults.
type Options struct {
	Currency  string
	CacheSize int
	CacheTTL  time.Duration
	// RateLimit is the number of POST requests a client may make per minute.
	RateLimit int
}

type Server struct {
	http.Server
	templates *template.Template
	svc       ExpenseRecorder
	logger    *applog.Logger
	currency  string

	summaries   *cache.LRUCache[core.Summary]
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	now         func() time.Time
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, svc ExpenseRecorder, logger *applog.Logger, opts Options) *Server {
	if logger == nil {
		logger = applog.Discard()
	}
	if opts.Currency == "" {
		opts.Currency = "EUR"
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 100
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 60
	}

	mux := http.NewServeMux()
	s := &Server{
		svc:         svc,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		currency:    opts.Currency,
		summaries:   cache.NewLRUCache[core.Summary](opts.CacheSize, opts.CacheTTL),
		rateLimiter: newRateLimiter(opts.RateLimit, time.Minute),
		metrics:     &securityMetrics{},
		now:         time.Now,
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Error("Failed parsing templates", "pattern", "templates/*.html", applog.FieldError, err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/expenses", s.handleCreateExpense)
	// UI partials
	mux.HandleFunc("/ui/summary", s.handleSummary)
	mux.HandleFunc("/charts/pie.svg", s.handlePieChart)
	mux.HandleFunc("/charts/bar.svg", s.handleBarChart)

	headers := NewHeadersMiddleware(DefaultHeadersConfig())
	var handler http.Handler = headers.Middleware(mux)
	handler = s.withRateLimit(handler)
	handler = applog.RequestLogging(s.logger, generateRequestID, extractClientIP)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Cleaners returns the periodic cleanups the server relies on, for
// registration with a cache.Manager.
func (s *Server) Cleaners() []cache.Cleaner {
	return []cache.Cleaner{s.summaries, s.rateLimiter}
}

// SecurityStats reports the rate limit hits and suspicious requests seen so far.
func (s *Server) SecurityStats() (rateLimitHits, suspicious int64) {
	return s.metrics.snapshot()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	hits, suspicious := s.SecurityStats()
	s.logger.InfoContext(ctx, "HTTP server shutting down",
		applog.FieldOperation, applog.OpShutdown,
		"rate_limit_hits", hits,
		"suspicious_requests", suspicious)
	return s.Server.Shutdown(ctx)
}

// withRateLimit limits POST requests per client and counts suspicious ones.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)
		if detectSuspiciousRequest(r, s.metrics) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				applog.NewFields().WithClientIP(clientIP).WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).ToSlice()...)
		}
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender, "template", name, applog.FieldError, err)
	}
}
