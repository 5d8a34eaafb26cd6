package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"cofrinho/internal/advice"
	"cofrinho/internal/core"
	"cofrinho/internal/log"
	"cofrinho/internal/metrics"
	appweb "cofrinho/web"
)

// Ledger is what the handlers need from the ledger service.
type Ledger interface {
	Append(ctx context.Context, e core.Entry) error
	Remove(ctx context.Context, id string) error
	Entries(ctx context.Context) ([]core.Entry, error)
	Ping(ctx context.Context) error
}

// Advisor produces the commentary for one month of entries.
type Advisor interface {
	Advise(ctx context.Context, entries []core.Entry, monthName string) string
}

type Options struct {
	Addr      string
	Ledger    Ledger
	Advisor   Advisor
	Tracker   *advice.Tracker
	Household core.Household
	Logger    *log.Logger
	Metrics   *metrics.Metrics
	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler
	// RateLimit is the number of POST requests allowed per client IP per minute.
	RateLimit int
	// AdviceTimeout bounds one advice request, zero means no bound.
	AdviceTimeout time.Duration
	Now           func() time.Time
}

type Server struct {
	http.Server
	templates     *template.Template
	ledger        Ledger
	advisor       Advisor
	tracker       *advice.Tracker
	household     core.Household
	logger        *log.Logger
	metrics       *metrics.Metrics
	rateLimiter   *rateLimiter
	adviceTimeout time.Duration
	now           func() time.Time
	startedAt     time.Time
	shutdownOnce  sync.Once
}

// NewServer parses the embedded templates and registers every route.
func NewServer(opts Options) (*Server, error) {
	if opts.Ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if opts.Advisor == nil {
		opts.Advisor = advice.New(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Tracker == nil {
		opts.Tracker = advice.NewTracker(core.MonthIndex(opts.Now()))
	}
	if opts.Logger == nil {
		opts.Logger = log.FromContext(context.Background())
	}
	if opts.Household == (core.Household{}) {
		opts.Household = core.DefaultHousehold()
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		templates:     t,
		ledger:        opts.Ledger,
		advisor:       opts.Advisor,
		tracker:       opts.Tracker,
		household:     opts.Household,
		logger:        opts.Logger.WithComponent(log.ComponentHTTP),
		metrics:       opts.Metrics,
		rateLimiter:   newRateLimiter(opts.RateLimit),
		adviceTimeout: opts.AdviceTimeout,
		now:           opts.Now,
		startedAt:     opts.Now(),
	}

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static files: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		static.ServeHTTP(w, r)
	}))

	mux.HandleFunc("GET /{$}", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("POST /entries", s.withSecurityHeaders(s.handleCreateEntry))
	mux.HandleFunc("POST /entries/{id}/delete", s.withSecurityHeaders(s.handleDeleteEntry))
	mux.HandleFunc("POST /advice", s.withSecurityHeaders(s.handleAdvice))
	mux.HandleFunc("GET /api/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}
	s.Handler = log.Middleware(s.logger, requestID)(mux)

	return s, nil
}

// Shutdown stops the rate limiter sweep and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// requestID reuses a well-formed incoming X-Request-ID or assigns a new one.
func requestID(r *http.Request) string {
	id := r.Header.Get("X-Request-ID")
	if id == "" || len(id) > 64 || sanitizeInput(id) != id {
		id = generateRequestID()
		r.Header.Set("X-Request-ID", id)
	}
	return id
}

// withSecurityHeaders rate limits POSTs, sets the security headers and logs
// the outcome with the request logger.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		ctx := r.Context()
		logger := log.FromContext(ctx)

		if isSuspiciousRequest(r) {
			logger.WarnContext(ctx, "Suspicious request",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}

		for name, value := range securityHeaders {
			w.Header().Set(name, value)
		}
		w.Header().Set("X-Request-ID", r.Header.Get("X-Request-ID"))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded", log.FieldClientIP, clientIP, log.FieldPath, r.URL.Path)
			TooManyRequestsError().Write(rw)
		} else {
			next(rw, r)
		}

		log.LogHTTPEnd(ctx, logger, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter records the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// renderTemplate executes name into a buffer so a failing template never
// leaves a half-written page.
func (s *Server) renderTemplate(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
