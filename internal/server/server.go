// Package server serves the landing page and the forecast widget API.
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/ai-business-solutions/internal/config"
	"github.com/iwvelando/ai-business-solutions/internal/demo"
	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"github.com/iwvelando/ai-business-solutions/pkg/constants"
	"go.uber.org/zap"
)

//go:embed static/* templates/*
var assets embed.FS

var errMalformedBody = errors.New("failed to decode request")

// Options configures the handler. Zero values fall back to defaults.
type Options struct {
	Version     string
	MaxBodySize int64
	Site        config.SiteConfig
	History     []forecast.HistoricalPoint
	Delay       time.Duration
	Generator   *forecast.Generator

	// Background is the parent context of asynchronous generations started
	// through the session API. Cancelling it aborts them.
	Background context.Context

	// Seed draws the jitter seed of each forecast generated by the page, so
	// its download links can reproduce it. Defaults to a random non-zero seed.
	Seed func() uint64

	Now func() time.Time
}

type handler struct {
	logger      *zap.Logger
	registry    *demo.Registry
	generator   *forecast.Generator
	site        config.SiteConfig
	history     []forecast.HistoricalPoint
	delay       time.Duration
	maxBodySize int64
	version     string
	background  context.Context
	seed        func() uint64
	now         func() time.Time
	page        *template.Template
}

// NewHandler constructs the HTTP handler that serves the landing page and the
// forecast API. A nil registry is replaced with one that never expires sessions.
func NewHandler(logger *zap.Logger, registry *demo.Registry, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	generator := opts.Generator
	if generator == nil {
		generator = forecast.NewGenerator(logger, nil)
	}

	history := opts.History
	if len(history) == 0 {
		history = forecast.DefaultHistory()
	}

	if registry == nil {
		registry = demo.NewRegistry(logger, generator, demo.Options{Delay: opts.Delay, History: history})
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	site := opts.Site
	if site.CompanyName == "" {
		site.CompanyName = constants.DefaultCompanyName
	}
	if site.Tagline == "" {
		site.Tagline = constants.DefaultTagline
	}

	background := opts.Background
	if background == nil {
		background = context.Background()
	}

	seed := opts.Seed
	if seed == nil {
		seed = randomSeed
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	h := &handler{
		logger:      logger,
		registry:    registry,
		generator:   generator,
		site:        site,
		history:     history,
		delay:       opts.Delay,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		background:  background,
		seed:        seed,
		now:         now,
		page:        template.Must(template.New("index.html").Funcs(templateFuncs).ParseFS(assets, "templates/index.html")),
	}

	mux := http.NewServeMux()

	// Landing page
	mux.HandleFunc("/", h.handlePage)

	// Stateless forecast API
	mux.HandleFunc("/api/forecast", h.handleForecast)
	mux.HandleFunc("/api/forecast/export", h.handleExport)

	// Widget sessions
	mux.HandleFunc("/api/demo/sessions", h.handleSessions)
	mux.HandleFunc("/api/demo/sessions/{id}", h.handleSession)
	mux.HandleFunc("/api/demo/sessions/{id}/parameters", h.handleSessionParameters)
	mux.HandleFunc("/api/demo/sessions/{id}/generate", h.handleSessionGenerate)

	// Metadata
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/healthz", h.handleHealth)

	// Stylesheets
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	return mux
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody decodes a size-limited JSON body into dst. An empty body leaves
// dst untouched.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds limit of %d bytes", h.maxBodySize)
		}
		return http.StatusBadRequest, fmt.Errorf("failed to decode request: %v", err)
	}
	return 0, nil
}

// decodeStrict decodes a body that was already read, rejecting unknown fields.
func decodeStrict(raw json.RawMessage, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, demo.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errMalformedBody),
		errors.Is(err, forecast.ErrUnknownMarket),
		errors.Is(err, forecast.ErrUnknownSeason),
		errors.Is(err, forecast.ErrInvalidGrowth),
		errors.Is(err, forecast.ErrGrowthOutOfRange),
		errors.Is(err, forecast.ErrEmptyHistory):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Info("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
