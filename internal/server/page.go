package server

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/iwvelando/ai-business-solutions/internal/chart"
	"github.com/iwvelando/ai-business-solutions/internal/demo"
	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"github.com/iwvelando/ai-business-solutions/internal/landing"
	"github.com/iwvelando/ai-business-solutions/pkg/constants"
	"github.com/iwvelando/ai-business-solutions/pkg/format"
	"go.uber.org/zap"
)

// Query parameters of the forecast widget form.
const (
	paramMarket   = "market"
	paramSeason   = "season"
	paramGrowth   = "growth"
	paramGenerate = "generate"
	paramSeed     = "seed"
)

var templateFuncs = template.FuncMap{
	"currency": format.Currency,
	"percent":  format.Percent,
	"number":   format.Number,
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Content       landing.Content
	State         landing.PageState
	BusinessSizes []option
	Interests     []option
	ContactHidden []landing.Field
	Demo          *demoView
	Version       string
}

type demoView struct {
	Title      string
	Name       string
	Markets    []option
	Seasons    []option
	Growth     string
	GrowthMin  float64
	GrowthMax  float64
	Hidden     []landing.Field
	CloseLink  string
	Error      string
	Generated  bool
	Chart      template.HTML
	Summary    forecast.Summary
	Insights   []string
	ExportCSV  string
	ExportXLSX string
}

func (h *handler) handlePage(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePage"
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}

	query := r.URL.Query()
	state := landing.StateFromValues(query)

	data := pageData{
		Content:       landing.NewContent(h.site.CompanyName, h.site.Tagline, h.now()),
		State:         state,
		BusinessSizes: stringOptions(landing.BusinessSizes(), state.Contact.BusinessSize),
		Interests:     interestOptions(state.Contact.InterestedIn),
		ContactHidden: state.HiddenFields(landing.ParamContact, landing.ParamDemo,
			landing.ParamName, landing.ParamEmail, landing.ParamSize, landing.ParamInterest),
		Version: h.version,
	}
	if state.ShowDemo {
		data.Demo = h.buildDemo(r, state, query)
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.logger.Error("failed to render page",
			zap.String("op", op),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write page",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// buildDemo prepares the widget. When the form was submitted with generate
// set, it runs one generation for this page view, waiting out the demo delay.
// The generation is seeded and the seed travels in the download links, so the
// files match what the page shows.
func (h *handler) buildDemo(r *http.Request, state landing.PageState, query url.Values) *demoView {
	const op = "server.buildDemo"

	seed := h.seed()
	session := demo.NewSession(h.logger, h.generatorFor(seed), demo.SessionOptions{
		Name:    state.Contact.Name,
		History: h.history,
		Delay:   h.delay,
		Now:     h.now,
	})

	view := &demoView{
		Title:     state.DemoTitle(),
		Name:      session.Name(),
		GrowthMin: constants.MinGrowthRatePercent,
		GrowthMax: constants.MaxGrowthRatePercent,
		Hidden:    state.HiddenFields(),
		CloseLink: state.CloseDemoLink(),
	}

	params, err := forecast.ParseParameters(query.Get(paramMarket), query.Get(paramSeason), query.Get(paramGrowth))
	if err == nil {
		err = session.SetParameters(params)
	}
	if err != nil {
		view.Error = err.Error()
		params = session.Snapshot().Parameters
	}
	view.Markets = marketOptions(params.Market)
	view.Seasons = seasonOptions(params.Season)
	view.Growth = format.Number(params.GrowthRatePercent)
	if raw := strings.TrimSpace(query.Get(paramGrowth)); raw != "" && view.Error != "" {
		view.Growth = raw
	}

	series := forecast.Combine(h.history, nil)
	if view.Error == "" && parseFlag(query.Get(paramGenerate)) {
		result, err := session.Generate(r.Context())
		if err != nil {
			h.logger.Warn("forecast generation failed",
				zap.String("op", op),
				zap.Error(err),
			)
			view.Error = "Forecast generation failed, please try again."
		} else {
			series = result.Series
			view.Generated = true
			view.Summary = forecast.Summarize(result)
			view.Insights = forecast.Insights(result)
			view.ExportCSV = exportLink(constants.OutputFormatCSV, params, seed)
			view.ExportXLSX = exportLink(constants.OutputFormatXLSX, params, seed)
		}
	}

	// chart.Render escapes every label it writes.
	svg, err := chart.Render(series, chart.DefaultOptions())
	if err != nil {
		h.logger.Warn("failed to render chart",
			zap.String("op", op),
			zap.Error(err),
		)
	}
	view.Chart = template.HTML(svg)
	return view
}

func exportLink(exportFormat string, params forecast.Parameters, seed uint64) string {
	v := url.Values{}
	v.Set("format", exportFormat)
	v.Set(paramMarket, string(params.Market))
	v.Set(paramSeason, string(params.Season))
	v.Set(paramGrowth, format.Number(params.GrowthRatePercent))
	if seed != 0 {
		v.Set(paramSeed, strconv.FormatUint(seed, 10))
	}
	return "/api/forecast/export?" + v.Encode()
}

func marketOptions(selected forecast.MarketCondition) []option {
	markets := forecast.MarketConditions()
	opts := make([]option, 0, len(markets))
	for _, m := range markets {
		opts = append(opts, option{Value: string(m), Label: m.Label(), Selected: m == selected})
	}
	return opts
}

func seasonOptions(selected forecast.Seasonality) []option {
	seasons := forecast.Seasonalities()
	opts := make([]option, 0, len(seasons))
	for _, s := range seasons {
		opts = append(opts, option{Value: string(s), Label: s.Label(), Selected: s == selected})
	}
	return opts
}

func interestOptions(selected string) []option {
	services := landing.Services()
	titles := make([]string, 0, len(services))
	for _, s := range services {
		titles = append(titles, s.Title)
	}
	return stringOptions(titles, selected)
}

func stringOptions(values []string, selected string) []option {
	opts := make([]option, 0, len(values))
	for _, v := range values {
		opts = append(opts, option{Value: v, Label: v, Selected: v == selected})
	}
	return opts
}

func parseFlag(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}
