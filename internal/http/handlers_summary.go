package http

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"expense-tracker/internal/chart"
	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/present"
)

type summaryRow struct {
	Name       string
	Amount     string
	Share      string
	Emphasized bool
}

// MsgChartUnavailable replaces a chart that could not be drawn.
const MsgChartUnavailable = "The chart could not be drawn for this period."

type summaryView struct {
	Heading   string
	NoData    string
	ChartNote string
	BarURL  template.URL
	PieURL  template.URL
	Total   string
	Rows    []summaryRow
	Bar     template.HTML
	Pie     template.HTML
}

// summary returns the summary for filter, serving repeated views from the
// cache until the next recorded expense.
func (s *Server) summary(r *http.Request, filter *core.Period) core.Summary {
	key := viewKey(filter)
	if sum, ok := s.summaries.Get(key); ok {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Summary cache hit", "view", key)
		return sum
	}
	sum := s.svc.Summary(filter)
	s.summaries.Set(key, sum)
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Summary computed",
		applog.NewFields().WithOperation(applog.OpSummarize).WithPeriod(filter).ToSlice()...)
	return sum
}

// handleSummary renders the summary partial: table, bar chart and pie chart.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	filter, err := ParseViewParams(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	sum := s.summary(r, filter)

	view := summaryView{
		Heading: present.Heading(sum),
		BarURL:  chartURL("/charts/bar.svg", filter),
		PieURL:  chartURL("/charts/pie.svg", filter),
	}
	if sum.Empty() {
		view.NoData = present.NoDataMessage
		s.render(w, r, "summary.html", view)
		return
	}

	view.Total = core.FormatAmount(sum.Total, s.currency)
	for i, c := range sum.ByCategory {
		view.Rows = append(view.Rows, summaryRow{
			Name:       c.Name,
			Amount:     core.FormatAmount(c.Amount, s.currency),
			Share:      sum.Share(i).StringFixed(1) + "%",
			Emphasized: sum.Emphasized(i),
		})
	}
	// The chart package escapes every piece of text it emits.
	for _, c := range []struct {
		draw func(core.Summary) ([]byte, error)
		dst  *template.HTML
	}{
		{chart.Bar, &view.Bar},
		{chart.Pie, &view.Pie},
	} {
		svg, err := c.draw(sum)
		if err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Chart rendering failed",
				applog.FieldOperation, applog.OpRender, applog.FieldError, err)
			view.ChartNote = MsgChartUnavailable
			continue
		}
		*c.dst = template.HTML(svg)
	}
	s.render(w, r, "summary.html", view)
}

// chartURL links to the standalone chart of the same view.
func chartURL(path string, filter *core.Period) template.URL {
	q := url.Values{"view": {ViewOverall}}
	if filter != nil {
		q.Set("view", ViewMonthly)
		q.Set("year", strconv.Itoa(filter.Year))
		q.Set("month", strconv.Itoa(filter.Month))
	}
	return template.URL(path + "?" + q.Encode())
}

func (s *Server) handlePieChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, chart.Pie)
}

func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, chart.Bar)
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, draw func(core.Summary) ([]byte, error)) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	filter, err := ParseViewParams(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	svg, err := draw(s.summary(r, filter))
	if errors.Is(err, chart.ErrNoData) {
		NotFoundError(present.NoDataMessage).Write(w)
		return
	}
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Chart rendering failed",
			applog.FieldOperation, applog.OpRender, applog.FieldError, err)
		InternalServerError("The chart could not be drawn.").Write(w)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(svg)
}
