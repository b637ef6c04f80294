package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/cancerlens/internal/dataset"
	"github.com/KaramelBytes/cancerlens/internal/pipeline"
)

const patientsCSV = `Patient Id,Age,Gender,Smoking,Level
P1,33,1,3,Low
P10,17,1,2,Medium
P100,35,1,2,High
P1000,37,1,7,High
P101,46,1,8,High
P102,35,2,1,Low
P103,52,2,1,Medium
`

func newTestServer(t *testing.T, path string) *Server {
	t.Helper()
	s, err := New(Options{
		Pipeline: pipeline.Options{
			Path:        path,
			Schema:      dataset.DefaultSchema(),
			PreviewRows: 5,
		},
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	return s
}

func writeDataset(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "patients.csv")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestIndexRendersSections(t *testing.T) {
	s := newTestServer(t, writeDataset(t, patientsCSV))
	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"Introduction", "Data Preview", "Summary Statistics", "Age Distribution",
		"Age by Gender", "Gender Distribution", "Severity by Gender", "Pair Explorer",
		"High = 0, Low = 1, Medium = 2", "patients.csv",
	} {
		assert.Contains(t, body, want)
	}
	assert.Contains(t, body, "#00c0f2")
	assert.Contains(t, body, "<th>Lower whisker</th>")
	assert.Contains(t, body, "<th>Upper whisker</th>")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestIndexMissingDataset(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "missing.xlsx"))
	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The dataset file was not found. Please check the file path.")
	assert.NotContains(t, body, "Summary Statistics")
	assert.NotContains(t, body, "Data Preview")
}

func TestIndexPairSameField(t *testing.T) {
	s := newTestServer(t, writeDataset(t, patientsCSV))
	rec := get(t, s, "/?x=Age&y=Age")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, pairHint)
	assert.Equal(t, 7, strings.Count(body, "<circle"))
	assert.NotContains(t, body, "Pearson r")

	rec = get(t, s, "/?x=Age&y=Smoking")
	assert.NotContains(t, rec.Body.String(), pairHint)
	assert.Contains(t, rec.Body.String(), "Pearson r")
}

func TestIndexRereadsDataset(t *testing.T) {
	p := writeDataset(t, patientsCSV)
	s := newTestServer(t, p)
	require.Contains(t, get(t, s, "/").Body.String(), "<strong>7</strong>")

	require.NoError(t, os.WriteFile(p, []byte("Patient Id,Age,Gender,Smoking,Level\nP1,33,1,3,Low\n"), 0o644))
	assert.Contains(t, get(t, s, "/").Body.String(), "<strong>1</strong>")
}

func TestSummaryAPI(t *testing.T) {
	s := newTestServer(t, writeDataset(t, patientsCSV))
	rec := get(t, s, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out struct {
		Source  string `json:"source"`
		Rows    int    `json:"rows"`
		Summary []struct {
			Label string   `json:"label"`
			Count int      `json:"count"`
			Mean  *float64 `json:"mean"`
			Min   *float64 `json:"min"`
		} `json:"summary"`
	}
	decode(t, rec, &out)
	assert.Equal(t, "patients.csv", out.Source)
	assert.Equal(t, 7, out.Rows)
	require.Len(t, out.Summary, 4)
	assert.Equal(t, "Age", out.Summary[0].Label)
	require.NotNil(t, out.Summary[0].Min)
	assert.Equal(t, 17.0, *out.Summary[0].Min)
}

func TestSummaryAPIEmptyDatasetUsesNull(t *testing.T) {
	s := newTestServer(t, writeDataset(t, "Patient Id,Age,Level\n"))
	rec := get(t, s, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mean":null`)
}

func TestAPIErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"schema", "Age,Level\n3,Low\n", http.StatusUnprocessableEntity},
		{"load", "Patient Id,Age,Level\nP1,old,Low\n", http.StatusUnprocessableEntity},
		{"blank label", "Patient Id,Age,Level\nP1,30,High\nP2,40,\n", http.StatusUnprocessableEntity},
		{"non-finite", "Patient Id,Age,Level\nP1,NaN,Low\n", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, writeDataset(t, tt.body))
			rec := get(t, s, "/api/summary")
			assert.Equal(t, tt.status, rec.Code)
			var out map[string]string
			decode(t, rec, &out)
			assert.True(t, strings.HasPrefix(out["error"], "An error occurred: "), out["error"])
		})
	}

	s := newTestServer(t, filepath.Join(t.TempDir(), "missing.csv"))
	rec := get(t, s, "/api/encoding")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var out map[string]string
	decode(t, rec, &out)
	assert.Equal(t, "The dataset file was not found. Please check the file path.", out["error"])
}

func TestAPILabelMismatchIsServerError(t *testing.T) {
	s, err := New(Options{
		Pipeline: pipeline.Options{
			Path:   writeDataset(t, patientsCSV),
			Schema: dataset.DefaultSchema(),
			Labels: []string{"Age"},
		},
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	rec := get(t, s, "/api/summary")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "label list has 1 entries")
}

func TestPreviewAndEncodingAPI(t *testing.T) {
	s := newTestServer(t, writeDataset(t, patientsCSV))

	var prev struct {
		Columns []string    `json:"columns"`
		Rows    [][]float64 `json:"rows"`
	}
	rec := get(t, s, "/api/preview?rows=2")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &prev)
	assert.Equal(t, []string{"Age", "Gender", "Smoking", "Level"}, prev.Columns)
	assert.Equal(t, [][]float64{{33, 1, 3, 1}, {17, 1, 2, 2}}, prev.Rows)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/preview?rows=x").Code)

	var enc struct {
		Column  string         `json:"column"`
		Labels  []string       `json:"labels"`
		Mapping map[string]int `json:"mapping"`
	}
	decode(t, get(t, s, "/api/encoding"), &enc)
	assert.Equal(t, "Level", enc.Column)
	assert.Equal(t, []string{"High", "Low", "Medium"}, enc.Labels)
	assert.Equal(t, map[string]int{"High": 0, "Low": 1, "Medium": 2}, enc.Mapping)
}

func TestChartAPIs(t *testing.T) {
	s := newTestServer(t, writeDataset(t, patientsCSV))

	var hist struct {
		Edges  []float64 `json:"edges"`
		Counts []int     `json:"counts"`
	}
	rec := get(t, s, "/api/charts/histogram?field=Age&bins=5")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &hist)
	require.Len(t, hist.Counts, 5)
	require.Len(t, hist.Edges, 6)
	total := 0
	for _, c := range hist.Counts {
		total += c
	}
	assert.Equal(t, 7, total)
	assert.Equal(t, 17.0, hist.Edges[0])
	assert.Equal(t, 52.0, hist.Edges[5])

	var counts struct {
		Counts []struct {
			Value float64 `json:"value"`
			Count int     `json:"count"`
		} `json:"counts"`
	}
	decode(t, get(t, s, "/api/charts/counts?field=Gender"), &counts)
	require.Len(t, counts.Counts, 2)
	assert.Equal(t, 1.0, counts.Counts[0].Value)
	assert.Equal(t, 5, counts.Counts[0].Count)

	var ct struct {
		Rows   []float64 `json:"rows"`
		Hues   []float64 `json:"hues"`
		Counts [][]int   `json:"counts"`
	}
	decode(t, get(t, s, "/api/charts/crosstab?row=Gender&hue=Level"), &ct)
	assert.Equal(t, []float64{1, 2}, ct.Rows)
	assert.Equal(t, []float64{0, 1, 2}, ct.Hues)
	assert.Equal(t, [][]int{{3, 1, 1}, {0, 1, 1}}, ct.Counts)

	var box struct {
		Boxes []struct {
			Group float64 `json:"group"`
			N     int     `json:"n"`
		} `json:"boxes"`
	}
	decode(t, get(t, s, "/api/charts/box?group=Gender&value=Age"), &box)
	require.Len(t, box.Boxes, 2)
	assert.Equal(t, 5, box.Boxes[0].N)
	assert.Equal(t, 2, box.Boxes[1].N)

	var pair struct {
		X       string    `json:"x"`
		XValues []float64 `json:"x_values"`
	}
	decode(t, get(t, s, "/api/charts/pair?x=Age&y=Smoking"), &pair)
	assert.Equal(t, "Age", pair.X)
	assert.Len(t, pair.XValues, 7)
}

func TestChartAPIBadRequests(t *testing.T) {
	s := newTestServer(t, writeDataset(t, patientsCSV))
	for _, target := range []string{
		"/api/charts/histogram",
		"/api/charts/histogram?field=Nope",
		"/api/charts/histogram?field=Age&bins=0",
		"/api/charts/counts?field=Patient%20Id",
		"/api/charts/box?group=Gender",
		"/api/charts/crosstab?row=Gender&hue=Nope",
		"/api/charts/pair?x=Age&y=Age",
	} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	var out map[string]string
	decode(t, get(t, s, "/api/charts/pair?x=Age&y=Age"), &out)
	assert.Equal(t, pairHint, out["error"])
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, writeDataset(t, patientsCSV))
	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	get(t, s, "/api/summary")
	metrics := get(t, s, "/metrics").Body.String()
	assert.Contains(t, metrics, `cancerlens_renders_total{outcome="ok"} 1`)
	assert.Contains(t, metrics, "cancerlens_render_duration_seconds")
}

func TestPaletteRender(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "#ff4b4b", p.Color("red-70"))
	assert.Equal(t, "#000000", p.Color("no-such-color"))

	out := string(p.Render(Heading{Label: "A <b>", Accent: "green-70", Description: "caption"}))
	assert.Contains(t, out, "A &lt;b&gt;")
	assert.Contains(t, out, "#21c354")
	assert.Contains(t, out, `<p class="caption">caption</p>`)
	assert.NotContains(t, string(p.Render(Heading{Label: "x"})), "caption")
}
