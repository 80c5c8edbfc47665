// Package server exposes sessions over HTTP: upload a file, read its
// profile, translate columns, build charts and download exports.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	kithttputil "github.com/rudderlabs/rudder-go-kit/httputil"
	"github.com/rudderlabs/rudder-go-kit/logger"

	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/session"
	"github.com/spektr-org/csvlens/table"
	"github.com/spektr-org/csvlens/translator"
)

// ============================================================================
// SERVER — HTTP shell over the session store
// ============================================================================
// Routes:
//   POST   /sessions                          multipart upload (field "file")
//   GET    /sessions/{id}/profile             profile, report, labels
//   POST   /sessions/{id}/translate           {"columns": [...], "target": "en"}
//   GET    /sessions/{id}/charts/{kind}       chart spec, columns as query params
//   GET    /sessions/{id}/export/{format}     csv | report | xlsx | sqlite
//   DELETE /sessions/{id}
//   GET    /languages
//   GET    /healthz
// ============================================================================

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Option configures the server via functional options pattern.
type Option func(*Server)

// WithLogger sets the logger. Default: logger.NOP.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithAnalyzerOptions sets the options used to profile uploads.
func WithAnalyzerOptions(opts schema.Options) Option {
	return func(s *Server) {
		s.analyzer = opts
	}
}

// WithLoadOptions sets the options used to parse uploads.
func WithLoadOptions(opts ...table.Option) Option {
	return func(s *Server) {
		s.loadOptions = opts
	}
}

// WithMaxUploadSize limits the request body of uploads. Default: 32 MiB.
func WithMaxUploadSize(n int64) Option {
	return func(s *Server) {
		s.maxUploadSize = n
	}
}

// WithDefaultLanguage sets the target used when a translate request has none.
// Default: "en".
func WithDefaultLanguage(code string) Option {
	return func(s *Server) {
		s.defaultLanguage = code
	}
}

// Server serves the HTTP API.
type Server struct {
	store      *session.Store
	translator *translator.Translator

	log             logger.Logger
	analyzer        schema.Options
	loadOptions     []table.Option
	maxUploadSize   int64
	defaultLanguage string
}

// New creates a server over store. tr may be a degraded translator.
func New(store *session.Store, tr *translator.Translator, opts ...Option) *Server {
	s := &Server{
		store:           store,
		translator:      tr,
		log:             logger.NOP,
		analyzer:        schema.DefaultOptions(),
		maxUploadSize:   32 << 20,
		defaultLanguage: "en",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.translator == nil {
		s.translator = translator.New(nil, translator.WithLogger(s.log))
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Get("/languages", s.languages)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.upload)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.deleteSession)
			r.Get("/profile", s.profile)
			r.Post("/translate", s.translate)
			r.Get("/charts/{kind}", s.chart)
			r.Get("/export/{format}", s.export)
		})
	})
	return r
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Infon("csvlens server listening", logger.NewStringField("addr", addr))
	return kithttputil.ListenAndServe(ctx, srv)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debugn("request served",
			logger.NewStringField("method", r.Method),
			logger.NewStringField("path", r.URL.Path),
			logger.NewStringField("ip", kithttputil.GetRequestIP(r)),
			logger.NewIntField("status", int64(ww.Status())),
			logger.NewDurationField("duration", time.Since(start)),
		)
	})
}
