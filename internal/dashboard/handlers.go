package dashboard

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/KaramelBytes/cancerlens/internal/analysis"
	"github.com/KaramelBytes/cancerlens/internal/dataset"
	"github.com/KaramelBytes/cancerlens/internal/pipeline"
)

// pairHint is shown when the pair explorer cannot draw the selected fields.
const pairHint = "Try selecting a different field for the pair plot to explore new relationships between variables."

type pageView struct {
	Error    string
	RenderID string
	Source   string

	Intro   template.HTML
	Columns []string
	Preview [][]float64

	SummaryHeaders []string
	Summary        []analysis.SummaryRow
	StatsNote      template.HTML

	AgeHist      *analysis.Histogram
	AgeHistMax   int
	AgeBoxes     []analysis.BoxStats
	GenderCount  []analysis.ValueCount
	GenderMax    int
	GenderNote   template.HTML
	Severity     *analysis.CountTable
	SeverityMax  int
	SeverityHue  []string
	SeverityNote template.HTML

	Fields   []string
	PairX    string
	PairY    string
	Pair     *analysis.PairView
	Points   []point
	PairHint string
}

// point is a scatter marker in the 0..100 SVG viewbox.
type point struct{ X, Y float64 }

// scatter scales the pair onto the viewbox, y growing upward.
func scatter(p analysis.PairView) []point {
	if len(p.XValues) == 0 {
		return nil
	}
	xlo, xhi := floats.Min(p.XValues), floats.Max(p.XValues)
	ylo, yhi := floats.Min(p.YValues), floats.Max(p.YValues)
	scale := func(v, lo, hi float64) float64 {
		if hi == lo {
			return 50
		}
		return 5 + 90*(v-lo)/(hi-lo)
	}
	out := make([]point, len(p.XValues))
	for i := range p.XValues {
		out[i] = point{X: scale(p.XValues[i], xlo, xhi), Y: 100 - scale(p.YValues[i], ylo, yhi)}
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := pageView{}
	rep, err := s.build(r)
	if err != nil {
		view.Error = pipeline.UserMessage(err)
		s.render(w, r, view)
		return
	}
	logger := zerolog.Ctx(r.Context())
	sev := rep.Encoding.Column

	view.RenderID = rep.ID.String()
	view.Source = rep.Source
	view.Intro = renderMarkdown(introText(rep, s.opt.Pipeline.Schema.IDColumn))
	view.Columns = rep.Frame.Columns
	view.Preview = rep.Preview
	view.SummaryHeaders = analysis.SummaryHeaders
	view.Summary = rep.Summary
	view.StatsNote = renderMarkdown(statsText(rep))

	if ages, err := rep.Frame.Column("Age"); err == nil {
		h := analysis.BuildHistogram("Age", ages, s.opt.HistogramBins)
		view.AgeHist = &h
		view.AgeHistMax = maxInt(h.Counts)
	} else {
		logger.Debug().Err(err).Msg("age histogram skipped")
	}
	if boxes, err := analysis.GroupBox(rep.Frame, "Gender", "Age"); err == nil {
		view.AgeBoxes = boxes
	} else {
		logger.Debug().Err(err).Msg("age boxes skipped")
	}
	if genders, err := rep.Frame.Column("Gender"); err == nil {
		view.GenderCount = analysis.ValueCounts(genders)
		for _, c := range view.GenderCount {
			view.GenderMax = max(view.GenderMax, c.Count)
		}
		view.GenderNote = renderMarkdown(countsText("Gender", view.GenderCount))
	}
	if ct, err := analysis.CrossTab(rep.Frame, "Gender", sev); err == nil {
		view.Severity = &ct
		for _, row := range ct.Counts {
			view.SeverityMax = max(view.SeverityMax, maxInt(row))
		}
		for _, h := range ct.Hues {
			label := analysis.FormatStat(h)
			if l, ok := rep.Encoding.Label(int(h)); ok {
				label = l + " (" + label + ")"
			}
			view.SeverityHue = append(view.SeverityHue, label)
		}
		view.SeverityNote = renderMarkdown(crossTabText(ct, rep.Encoding))
	}

	view.Fields = rep.Frame.Columns
	view.PairX, view.PairY = r.URL.Query().Get("x"), r.URL.Query().Get("y")
	if view.PairX == "" && len(view.Fields) > 0 {
		view.PairX = view.Fields[0]
	}
	if view.PairY == "" && len(view.Fields) > 1 {
		view.PairY = view.Fields[1]
	}
	p, err := analysis.Pair(rep.Frame, view.PairX, view.PairY)
	switch {
	case err == nil:
		view.Pair = &p
		view.Points = scatter(p)
	case errors.Is(err, analysis.ErrSameField):
		// Plot the field against itself, then explain why that says nothing.
		if vals, cerr := rep.Frame.Column(view.PairX); cerr == nil {
			view.Points = scatter(analysis.PairView{X: view.PairX, Y: view.PairY, XValues: vals, YValues: vals})
		}
		view.PairHint = pairHint
	default:
		view.PairHint = pairHint
	}
	s.render(w, r, view)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, view pageView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", view); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("template error")
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"render_id": rep.ID,
		"source":    rep.Source,
		"rows":      rep.Frame.NumRows(),
		"summary":   rep.Summary,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	n := s.opt.Pipeline.PreviewRows
	if q := r.URL.Query().Get("rows"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "rows must be a non-negative integer")
			return
		}
		n = v
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"columns": rep.Frame.Columns,
		"rows":    rep.Frame.Head(n),
	})
}

func (s *Server) handleEncoding(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"column":  rep.Encoding.Column,
		"labels":  rep.Encoding.Labels,
		"mapping": rep.Encoding.Mapping(),
	})
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	field, ok := requireParam(w, r, "field")
	if !ok {
		return
	}
	bins := s.opt.HistogramBins
	if q := r.URL.Query().Get("bins"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, "bins must be a positive integer")
			return
		}
		bins = v
	}
	rep, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	vals, err := rep.Frame.Column(field)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis.BuildHistogram(field, vals, bins))
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	field, ok := requireParam(w, r, "field")
	if !ok {
		return
	}
	rep, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	vals, err := rep.Frame.Column(field)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"field": field, "counts": analysis.ValueCounts(vals)})
}

func (s *Server) handleBox(w http.ResponseWriter, r *http.Request) {
	group, ok := requireParam(w, r, "group")
	if !ok {
		return
	}
	value, ok := requireParam(w, r, "value")
	if !ok {
		return
	}
	rep, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	boxes, err := analysis.GroupBox(rep.Frame, group, value)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"group": group, "value": value, "boxes": boxes})
}

func (s *Server) handleCrossTab(w http.ResponseWriter, r *http.Request) {
	row, ok := requireParam(w, r, "row")
	if !ok {
		return
	}
	hue, ok := requireParam(w, r, "hue")
	if !ok {
		return
	}
	rep, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	ct, err := analysis.CrossTab(rep.Frame, row, hue)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

func (s *Server) handlePair(w http.ResponseWriter, r *http.Request) {
	x, ok := requireParam(w, r, "x")
	if !ok {
		return
	}
	y, ok := requireParam(w, r, "y")
	if !ok {
		return
	}
	rep, ok := s.buildOrFail(w, r)
	if !ok {
		return
	}
	p, err := analysis.Pair(rep.Frame, x, y)
	if err != nil {
		if errors.Is(err, analysis.ErrSameField) {
			writeError(w, http.StatusBadRequest, pairHint)
			return
		}
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// buildOrFail writes the error response itself when the render fails.
func (s *Server) buildOrFail(w http.ResponseWriter, r *http.Request) (*pipeline.Report, bool) {
	rep, err := s.build(r)
	if err != nil {
		writeError(w, statusFor(err), pipeline.UserMessage(err))
		return nil, false
	}
	return rep, true
}

func statusFor(err error) int {
	var nf *dataset.NotFoundError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case dataset.IsLoadFailure(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter: "+name)
		return "", false
	}
	return v, true
}

// writeQueryError reports an unknown column named by the query.
func writeQueryError(w http.ResponseWriter, err error) {
	var se *dataset.SchemaError
	if errors.As(err, &se) {
		writeError(w, http.StatusBadRequest, se.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func maxInt(vals []int) int {
	m := 0
	for _, v := range vals {
		m = max(m, v)
	}
	return m
}
