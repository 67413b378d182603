package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/ai-business-solutions/internal/demo"
	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"github.com/iwvelando/ai-business-solutions/pkg/output"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func neutralGenerator() *forecast.Generator {
	return forecast.NewGenerator(zap.NewNop(), forecast.FixedJitter(1))
}

func newTestHandler(t *testing.T, delay time.Duration) (http.Handler, *demo.Registry) {
	t.Helper()
	gen := neutralGenerator()
	registry := demo.NewRegistry(zap.NewNop(), gen, demo.Options{Delay: delay})
	handler := NewHandler(zap.NewNop(), registry, Options{
		Version:   "1.2.3",
		Generator: gen,
	})
	return handler, registry
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleForecastSuccess(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodPost, "/api/forecast",
		`{"marketCondition":"declining","seasonality":"low","growthRatePercent":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp forecastResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Series) != 12 {
		t.Fatalf("expected 12 series rows, got %d", len(resp.Series))
	}
	if len(resp.Forecast) != 6 {
		t.Fatalf("expected 6 forecast points, got %d", len(resp.Forecast))
	}
	if resp.Forecast[0].Period != "Jul" || resp.Forecast[0].Projected != 136000 {
		t.Fatalf("expected first projection Jul=136000, got %+v", resp.Forecast[0])
	}
	if len(resp.Insights) != 4 {
		t.Fatalf("expected 4 insights, got %d", len(resp.Insights))
	}
	if resp.Summary.FirstPeriod != "Jan" || resp.Summary.LastPeriod != "Dec" {
		t.Fatalf("unexpected summary periods: %+v", resp.Summary)
	}
	if !strings.HasPrefix(resp.CSV, "period,actual,forecast\n") {
		t.Fatalf("expected CSV data in response, got %q", resp.CSV)
	}
	if resp.Duration == "" {
		t.Fatal("expected duration in response")
	}
	if len(resp.Warnings) != 0 {
		t.Fatalf("expected no warnings for the seed series, got %v", resp.Warnings)
	}
}

func TestHandleForecastEmptyBodyUsesDefaults(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodPost, "/api/forecast", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp forecastResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Parameters != forecast.DefaultParameters() {
		t.Fatalf("expected default parameters, got %+v", resp.Parameters)
	}
}

func TestHandleForecastCustomHistory(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodPost, "/api/forecast",
		`{"marketCondition":"stable","seasonality":"normal","growthRatePercent":0,
		  "history":[{"period":"Oct","actualValue":100000},{"period":"Dec","actualValue":0}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp forecastResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Forecast[0].Period != "Jan" {
		t.Fatalf("expected forecast to follow Dec, got %s", resp.Forecast[0].Period)
	}
	if len(resp.Warnings) != 2 {
		t.Fatalf("expected gap and zero-value warnings, got %v", resp.Warnings)
	}
}

func TestHandleForecastRejectsInvalidInput(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "growth above range", body: `{"growthRatePercent":80}`, want: http.StatusBadRequest},
		{name: "growth below range", body: `{"growthRatePercent":-25}`, want: http.StatusBadRequest},
		{name: "unknown market", body: `{"marketCondition":"sideways"}`, want: http.StatusBadRequest},
		{name: "unknown season", body: `{"seasonality":"monsoon"}`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"currency":"EUR"}`, want: http.StatusBadRequest},
		{name: "malformed", body: `{"marketCondition":`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(handler, http.MethodPost, "/api/forecast", tt.body)
			if rr.Code != tt.want {
				t.Fatalf("expected status %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
			var payload map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
				t.Fatalf("expected JSON error body: %v", err)
			}
			if payload["error"] == "" {
				t.Fatal("expected error message")
			}
		})
	}
}

func TestHandleForecastBodyTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, Options{MaxBodySize: 32, Generator: neutralGenerator()})

	body := `{"marketCondition":"stable","seasonality":"normal","growthRatePercent":5}`
	rr := serve(handler, http.MethodPost, "/api/forecast", body)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleForecastMethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodGet, "/api/forecast", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
	if rr.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("expected Allow header POST, got %q", rr.Header().Get("Allow"))
	}
}

func TestHandleExportCSV(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodGet, "/api/forecast/export?format=csv&market=declining&season=low&growth=0", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected CSV content type, got %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "forecast.csv") {
		t.Fatalf("expected attachment filename, got %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 13 {
		t.Fatalf("expected header plus 12 rows, got %d lines", len(lines))
	}
	if lines[7] != "Jul,,136000" {
		t.Fatalf("expected first forecast row Jul,,136000, got %q", lines[7])
	}
}

func TestHandleExportDefaultsToCSV(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodGet, "/api/forecast/export", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.HasPrefix(rr.Body.String(), "period,actual,forecast") {
		t.Fatalf("expected CSV body, got %q", rr.Body.String())
	}
}

func TestHandleExportXLSX(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodGet, "/api/forecast/export?format=xlsx&market=stable&season=normal&growth=0", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(output.SheetName)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 13 {
		t.Fatalf("expected 13 rows, got %d", len(rows))
	}
	if rows[0][0] != "period" {
		t.Fatalf("expected header row, got %v", rows[0])
	}
}

func TestHandleExportRejectsInvalidInput(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	for _, target := range []string{
		"/api/forecast/export?format=pdf",
		"/api/forecast/export?growth=99",
		"/api/forecast/export?market=sideways",
		"/api/forecast/export?growth=abc",
		"/api/forecast/export?seed=-1",
	} {
		rr := serve(handler, http.MethodGet, target, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", target, rr.Code)
		}
	}
}

func TestHandleExportSeedIsReproducible(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, Options{})

	first := serve(handler, http.MethodGet, "/api/forecast/export?seed=42", "")
	second := serve(handler, http.MethodGet, "/api/forecast/export?seed=42", "")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d and %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("expected identical exports for the same seed")
	}
}

func decodeSnapshot(t *testing.T, rr *httptest.ResponseRecorder) demo.Snapshot {
	t.Helper()
	var snap demo.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v (%s)", err, rr.Body.String())
	}
	return snap
}

func TestSessionLifecycle(t *testing.T) {
	handler, registry := newTestHandler(t, 30*time.Millisecond)

	rr := serve(handler, http.MethodPost, "/api/demo/sessions", `{"name":"Ada"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	created := decodeSnapshot(t, rr)
	if created.ID == "" || created.Name != "Ada" {
		t.Fatalf("unexpected session: %+v", created)
	}
	if rr.Header().Get("Location") != "/api/demo/sessions/"+created.ID {
		t.Fatalf("unexpected Location header %q", rr.Header().Get("Location"))
	}
	base := "/api/demo/sessions/" + created.ID

	rr = serve(handler, http.MethodPut, base+"/parameters", `{"marketCondition":"declining","seasonality":"low","growthRatePercent":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decodeSnapshot(t, rr).Parameters.Market; got != forecast.MarketDeclining {
		t.Fatalf("expected declining market, got %s", got)
	}

	rr = serve(handler, http.MethodPut, base+"/parameters", `{"growthRatePercent":75}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	rr = serve(handler, http.MethodPost, base+"/generate", "")
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", rr.Code, rr.Body.String())
	}
	if !decodeSnapshot(t, rr).InProgress {
		t.Fatal("expected generation in progress")
	}

	var snap demo.Snapshot
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap = decodeSnapshot(t, serve(handler, http.MethodGet, base, ""))
		if snap.Result != nil && !snap.InProgress {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if snap.Result == nil {
		t.Fatal("expected a generated result")
	}
	if snap.Result.Forecast[0].Projected != 136000 {
		t.Fatalf("expected first projection 136000, got %v", snap.Result.Forecast[0].Projected)
	}
	if len(snap.Insights) != 4 || snap.Summary == nil {
		t.Fatalf("expected insights and summary, got %+v", snap)
	}

	rr = serve(handler, http.MethodDelete, base, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected registry to be empty, got %d", registry.Len())
	}

	rr = serve(handler, http.MethodGet, base, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestSessionOpenWithoutBody(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodPost, "/api/demo/sessions", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if name := decodeSnapshot(t, rr).Name; name != "User" {
		t.Fatalf("expected default display name, got %q", name)
	}
}

func TestSessionRoutesUnknownID(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	tests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/api/demo/sessions/missing", ""},
		{http.MethodDelete, "/api/demo/sessions/missing", ""},
		{http.MethodPut, "/api/demo/sessions/missing/parameters", `{"growthRatePercent":1}`},
		{http.MethodPost, "/api/demo/sessions/missing/generate", ""},
	}

	for _, tt := range tests {
		rr := serve(handler, tt.method, tt.target, tt.body)
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected status 404, got %d", tt.method, tt.target, rr.Code)
		}
	}
}

func TestSessionRoutesMethodNotAllowed(t *testing.T) {
	handler, registry := newTestHandler(t, 0)
	id := registry.Open("Ada").ID()

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/demo/sessions"},
		{http.MethodPost, "/api/demo/sessions/" + id},
		{http.MethodGet, "/api/demo/sessions/" + id + "/parameters"},
		{http.MethodGet, "/api/demo/sessions/" + id + "/generate"},
	}

	for _, tt := range tests {
		rr := serve(handler, tt.method, tt.target, "")
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected status 405, got %d", tt.method, tt.target, rr.Code)
		}
	}
}

func TestHandleVersion(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodGet, "/api/version", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["version"] != "1.2.3" {
		t.Fatalf("expected version 1.2.3, got %q", payload["version"])
	}
}

func TestHandleVersionDefaultsToDev(t *testing.T) {
	handler := NewHandler(nil, nil, Options{Version: "  "})

	rr := serve(handler, http.MethodGet, "/api/version", "")
	if !strings.Contains(rr.Body.String(), `"dev"`) {
		t.Fatalf("expected dev version, got %s", rr.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	rr = serve(handler, http.MethodPost, "/healthz", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodGet, "/static/style.css", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "--indigo") {
		t.Fatal("expected stylesheet contents")
	}
}

func TestEnumsAreCaseInsensitiveEverywhere(t *testing.T) {
	handler, _ := newTestHandler(t, 0)

	rr := serve(handler, http.MethodPost, "/api/forecast",
		`{"marketCondition":"Declining","seasonality":"LOW","growthRatePercent":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp forecastResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Parameters.Market != forecast.MarketDeclining || resp.Forecast[0].Projected != 136000 {
		t.Fatalf("unexpected forecast: %+v", resp.Parameters)
	}

	created := decodeSnapshot(t, serve(handler, http.MethodPost, "/api/demo/sessions", ""))
	rr = serve(handler, http.MethodPut, "/api/demo/sessions/"+created.ID+"/parameters", `{"marketCondition":"Stable"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decodeSnapshot(t, rr).Parameters.Market; got != forecast.MarketStable {
		t.Fatalf("expected stable market, got %s", got)
	}
}

func TestSessionParametersRejectsUnknownFields(t *testing.T) {
	handler, _ := newTestHandler(t, 0)
	created := decodeSnapshot(t, serve(handler, http.MethodPost, "/api/demo/sessions", ""))
	base := "/api/demo/sessions/" + created.ID

	for _, body := range []string{`{"market":"booming"}`, `{"marketCondition":"sideways"}`, `{"growthRatePercent":`} {
		rr := serve(handler, http.MethodPut, base+"/parameters", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("PUT %s: expected status 400, got %d", body, rr.Code)
		}
	}
	if got := decodeSnapshot(t, serve(handler, http.MethodGet, base, "")).Parameters; got != forecast.DefaultParameters() {
		t.Fatalf("expected rejected updates to leave defaults, got %+v", got)
	}
}

func TestSessionParametersConcurrentPartialUpdates(t *testing.T) {
	handler, _ := newTestHandler(t, 0)
	created := decodeSnapshot(t, serve(handler, http.MethodPost, "/api/demo/sessions", ""))
	target := "/api/demo/sessions/" + created.ID + "/parameters"

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, body := range []string{`{"marketCondition":"booming"}`, `{"seasonality":"peak"}`} {
			wg.Add(1)
			go func(body string) {
				defer wg.Done()
				if rr := serve(handler, http.MethodPut, target, body); rr.Code != http.StatusOK {
					t.Errorf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
				}
			}(body)
		}
	}
	wg.Wait()

	got := decodeSnapshot(t, serve(handler, http.MethodGet, "/api/demo/sessions/"+created.ID, "")).Parameters
	if got.Market != forecast.MarketBooming || got.Season != forecast.SeasonPeak {
		t.Fatalf("expected both partial updates to survive, got %+v", got)
	}
}
