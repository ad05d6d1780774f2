// Package server exposes the generator over JSON and serves the embedded form.
package server

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"thumbgenius/internal/brief"
	"thumbgenius/internal/generator"
	"thumbgenius/internal/history"
	"thumbgenius/internal/refimage"
)

//go:embed static/*
var staticFS embed.FS

const (
	defaultMaxUploadBytes = 10 << 20
	defaultRequestTimeout = 120 * time.Second
)

type Options struct {
	Generator *generator.Service
	History   *history.Store
	Drafts    *brief.Store
	Logger    *slog.Logger
	// ModelName is reported by /healthz.
	ModelName         string
	MaxUploadBytes    int64
	ImageMaxDimension int
	RequestTimeout    time.Duration
}

type Server struct {
	gen            *generator.Service
	history        *history.Store
	drafts         *brief.Store
	logger         *slog.Logger
	modelName      string
	maxUploadBytes int64
	imageMaxDim    int
	requestTimeout time.Duration
	handler        http.Handler
}

func New(opts Options) (*Server, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("server: generator is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	hist := opts.History
	if hist == nil {
		hist = history.NewStore(history.Options{})
	}
	drafts := opts.Drafts
	if drafts == nil {
		drafts = brief.NewStore(opts.Generator.Catalog())
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	maxDim := opts.ImageMaxDimension
	if maxDim <= 0 {
		maxDim = refimage.DefaultMaxDimension
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	s := &Server{
		gen:            opts.Generator,
		history:        hist,
		drafts:         drafts,
		logger:         logger,
		modelName:      opts.ModelName,
		maxUploadBytes: maxUpload,
		imageMaxDim:    maxDim,
		requestTimeout: timeout,
	}

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("server: static assets: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("POST /api/hook", s.handleHook)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/prompt", s.handlePrompt)
	mux.HandleFunc("GET /api/history", s.handleHistoryList)
	mux.HandleFunc("GET /api/history/{id}", s.handleHistoryGet)
	mux.HandleFunc("DELETE /api/history", s.handleHistoryClear)
	mux.HandleFunc("GET /api/settings", s.handleSettingsGet)
	mux.HandleFunc("PUT /api/settings", s.handleSettingsPut)
	mux.HandleFunc("DELETE /api/settings", s.handleSettingsReset)
	mux.Handle("GET /", withSecurityHeaders(http.FileServer(http.FS(staticSub))))

	s.handler = withLogging(withCORS(gzhttp.GzipHandler(mux)), logger)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// HTTPServer wraps the handler with the timeouts used in production.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.requestTimeout + 30*time.Second,
		IdleTimeout:       90 * time.Second,
	}
}
