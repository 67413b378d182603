package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/ai-business-solutions/internal/demo"
	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"github.com/iwvelando/ai-business-solutions/pkg/constants"
	"github.com/iwvelando/ai-business-solutions/pkg/output"
	"github.com/iwvelando/ai-business-solutions/pkg/validation"
	"go.uber.org/zap"
)

type forecastRequest struct {
	forecast.Parameters
	History []forecast.HistoricalPoint `json:"history,omitempty"`
	Seed    uint64                     `json:"seed,omitempty"`
}

type forecastResponse struct {
	Parameters forecast.Parameters      `json:"parameters"`
	Series     []forecast.CombinedPoint `json:"series"`
	Forecast   []forecast.ForecastPoint `json:"forecast"`
	Summary    forecast.Summary         `json:"summary"`
	Insights   []string                 `json:"insights"`
	CSV        string                   `json:"csv"`
	Warnings   []string                 `json:"warnings,omitempty"`
	Duration   string                   `json:"duration"`
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	start := time.Now()
	req := forecastRequest{Parameters: forecast.DefaultParameters()}
	if status, err := h.decodeBody(w, r, &req); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	if err := req.Parameters.Validate(); err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	history := h.history
	var warnings []string
	if len(req.History) > 0 {
		history = req.History
		periods := make([]string, 0, len(history))
		values := make([]float64, 0, len(history))
		for _, point := range history {
			periods = append(periods, point.Period)
			values = append(values, point.Actual)
		}
		warnings = validation.ValidateHistory(periods, values)
	}

	result, err := h.generatorFor(req.Seed).Generate(history, req.Parameters)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), fmt.Sprintf("failed to compute forecast: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, forecastResponse{
		Parameters: result.Parameters,
		Series:     result.Series,
		Forecast:   result.Forecast,
		Summary:    forecast.Summarize(result),
		Insights:   forecast.Insights(result),
		CSV:        output.CsvString(result),
		Warnings:   warnings,
		Duration:   time.Since(start).String(),
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	exportFormat := strings.ToLower(strings.TrimSpace(query.Get("format")))
	if exportFormat == "" {
		exportFormat = constants.OutputFormatCSV
	}
	if err := validation.ValidateExportFormat(exportFormat); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	params, err := forecast.ParseParameters(query.Get("market"), query.Get("season"), query.Get("growth"))
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	var seed uint64
	if raw := strings.TrimSpace(query.Get(paramSeed)); raw != "" {
		seed, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid seed %q", raw), op)
			return
		}
	}

	result, err := h.generatorFor(seed).Generate(h.history, params)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), fmt.Sprintf("failed to compute forecast: %v", err), op)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	switch exportFormat {
	case constants.OutputFormatCSV:
		err = output.CsvFormat(&buf, result)
	case constants.OutputFormatXLSX:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = output.XLSXFormat(&buf, result)
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode %s export: %v", exportFormat, err), op)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "forecast."+exportFormat))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write export",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// generatorFor returns the shared generator, or a reproducible one for a
// non-zero seed.
func (h *handler) generatorFor(seed uint64) *forecast.Generator {
	return h.generator.WithSeed(seed)
}

func randomSeed() uint64 {
	for {
		if seed := rand.Uint64(); seed != 0 {
			return seed
		}
	}
}

type openSessionRequest struct {
	Name string `json:"name"`
}

func (h *handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSessions"
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req openSessionRequest
	if status, err := h.decodeBody(w, r, &req); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	session := h.registry.Open(req.Name)
	w.Header().Set("Location", "/api/demo/sessions/"+session.ID())
	h.writeJSON(w, http.StatusCreated, session.Snapshot())
}

func (h *handler) handleSession(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSession"
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		session, err := h.registry.Get(id)
		if err != nil {
			h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
			return
		}
		h.writeJSON(w, http.StatusOK, session.Snapshot())
	case http.MethodDelete:
		if err := h.registry.Close(id); err != nil {
			h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		h.methodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

func (h *handler) handleSessionParameters(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSessionParameters"
	if r.Method != http.MethodPut {
		h.methodNotAllowed(w, http.MethodPut)
		return
	}

	session, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	var body json.RawMessage
	if status, err := h.decodeBody(w, r, &body); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	// Fields missing from the body keep their current values.
	err = session.UpdateParameters(func(params *forecast.Parameters) error {
		if len(body) == 0 {
			return nil
		}
		return decodeStrict(body, params)
	})
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, session.Snapshot())
}

func (h *handler) handleSessionGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSessionGenerate"
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	session, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	done := session.Trigger(h.background)
	go func(id string) {
		err := <-done
		switch {
		case err == nil:
			h.logger.Debug("forecast generated",
				zap.String("op", op),
				zap.String("session", id),
			)
		case errors.Is(err, demo.ErrSuperseded):
			// A newer trigger owns the result.
		default:
			h.logger.Warn("forecast generation failed",
				zap.String("op", op),
				zap.String("session", id),
				zap.Error(err),
			)
		}
	}(session.ID())

	h.writeJSON(w, http.StatusAccepted, session.Snapshot())
}
