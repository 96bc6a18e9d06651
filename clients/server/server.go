// Package server provides the weatherart HTTP render API and a small web page
// for trying it out.
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xob0t/weatherart/pkg/art"
	"github.com/xob0t/weatherart/pkg/dataset"
	"github.com/xob0t/weatherart/pkg/generator"
	"github.com/xob0t/weatherart/pkg/observability"
)

//go:embed web/*
var webContent embed.FS

// maxBodyBytes bounds POST /api/render bodies.
const maxBodyBytes = 1 << 20

// Renderer draws a sample. *art.Generator implements it.
type Renderer interface {
	RenderWithSeed(s art.Sample, seed uint64) (*image.RGBA, art.Stats, error)
}

// Lookup resolves a month and year. *dataset.Dataset implements it.
type Lookup interface {
	Lookup(month, year int) (art.Sample, error)
}

// Server exposes the render API plus /healthz and /metrics.
type Server struct {
	httpServer *http.Server
	renderer   Renderer
	data       Lookup
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer wires the routes. data may be nil, in which case the dataset
// routes answer 503. metrics may be nil.
func NewServer(addr string, renderer Renderer, data Lookup, logger *slog.Logger, metrics *observability.Metrics) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	webFS, err := fs.Sub(webContent, "web")
	if err != nil {
		return nil, fmt.Errorf("embed web: %w", err)
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		renderer: renderer,
		data:     data,
		logger:   logger,
		metrics:  metrics,
	}

	// API routes.
	mux.HandleFunc("GET /api/render", s.instrument("render", s.handleRenderQuery))
	mux.HandleFunc("POST /api/render", s.instrument("render", s.handleRenderJSON))
	mux.HandleFunc("GET /api/render/{year}/{month}", s.instrument("render_month", s.handleRenderMonth))
	mux.HandleFunc("GET /api/lookup", s.instrument("lookup", s.handleLookup))

	// Operations.
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Static files.
	mux.Handle("GET /", http.FileServer(http.FS(webFS)))

	return s, nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts down within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.Start()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("shutdown complete")
	return nil
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// ── Render ──

type renderRequest struct {
	Temperature *float64 `json:"temperature"`
	Rainfall    *float64 `json:"rainfall"`
	Seed        uint64   `json:"seed"`
	Format      string   `json:"format"`
}

func (s *Server) handleRenderQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	temp, err := parseFloatParam(q.Get("temp"), "temp")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rain, err := parseFloatParam(q.Get("rain"), "rain")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	seed, err := parseSeed(q.Get("seed"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.render(w, art.Sample{Temperature: temp, Rainfall: rain}, seed, q.Get("format"))
}

func (s *Server) handleRenderJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var req renderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "decode request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Temperature == nil || req.Rainfall == nil {
		http.Error(w, "temperature and rainfall are required", http.StatusBadRequest)
		return
	}

	s.render(w, art.Sample{Temperature: *req.Temperature, Rainfall: *req.Rainfall}, req.Seed, req.Format)
}

func (s *Server) handleRenderMonth(w http.ResponseWriter, r *http.Request) {
	sample, ok := s.lookup(w, r.PathValue("month"), r.PathValue("year"))
	if !ok {
		return
	}
	seed, err := parseSeed(r.URL.Query().Get("seed"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.render(w, sample, seed, r.URL.Query().Get("format"))
}

func (s *Server) render(w http.ResponseWriter, sample art.Sample, seed uint64, format string) {
	if format == "" {
		format = "png"
	}
	if !generator.Supported(format) {
		http.Error(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
		return
	}

	img, stats, err := s.renderer.RenderWithSeed(sample, seed)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, art.ErrInput) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	var buf bytes.Buffer
	if err := generator.Encode(&buf, format, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", generator.ContentType(format))
	w.Header().Set("X-Weatherart-Seed", strconv.FormatUint(stats.Seed, 10))
	w.Header().Set("X-Weatherart-Band", stats.Band.String())
	w.Write(buf.Bytes())
}

// ── Lookup ──

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sample, ok := s.lookup(w, q.Get("month"), q.Get("year"))
	if !ok {
		return
	}
	band, _ := art.SelectBand(sample.Temperature)
	writeJSON(w, http.StatusOK, map[string]any{
		"temperature": sample.Temperature,
		"rainfall":    sample.Rainfall,
		"band":        band.String(),
	})
}

// lookup resolves month and year strings, writing the error response itself
// when it fails.
func (s *Server) lookup(w http.ResponseWriter, monthStr, yearStr string) (art.Sample, bool) {
	if s.data == nil {
		http.Error(w, "no dataset loaded", http.StatusServiceUnavailable)
		return art.Sample{}, false
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid month %q", monthStr), http.StatusBadRequest)
		return art.Sample{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid year %q", yearStr), http.StatusBadRequest)
		return art.Sample{}, false
	}

	sample, err := s.data.Lookup(month, year)
	switch {
	case err == nil:
		return sample, true
	case errors.Is(err, dataset.ErrInvalidMonth):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, dataset.ErrNotFound), errors.Is(err, dataset.ErrMissingValues):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error("lookup failed", "month", month, "year", year, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
	return art.Sample{}, false
}

// ── Helpers ──

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)

		s.logger.Debug("http request", "route", route, "method", r.Method, "path", r.URL.Path, "code", rec.code)
		if s.metrics != nil {
			s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		}
	}
}

func parseFloatParam(v, name string) (float64, error) {
	if strings.TrimSpace(v) == "" {
		return 0, fmt.Errorf("missing %s parameter", name)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return f, nil
}

func parseSeed(v string) (uint64, error) {
	if v == "" {
		return 0, nil
	}
	seed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q", v)
	}
	return seed, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
