package analysis

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/KaramelBytes/cancerlens/internal/dataset"
)

func sampleFrame() *dataset.Frame {
	return &dataset.Frame{
		Columns: []string{"Age", "Gender", "Smoking", "Level"},
		Data: [][]float64{
			{20, 30, 40, 50, 25, 35, 90},
			{1, 1, 1, 1, 2, 2, 1},
			{1, 2, 3, 4, 5, 6, 7},
			{0, 1, 2, 0, 1, 1, 0},
		},
	}
}

func TestBuildHistogramSkipsNonFinite(t *testing.T) {
	h := BuildHistogram("Age", []float64{1, math.NaN(), 2, math.Inf(1), 3, math.Inf(-1)}, 2)
	if !reflect.DeepEqual(h.Edges, []float64{1, 2, 3}) {
		t.Fatalf("edges: %v", h.Edges)
	}
	if !reflect.DeepEqual(h.Counts, []int{1, 2}) {
		t.Fatalf("counts: %v", h.Counts)
	}

	empty := BuildHistogram("Age", []float64{math.NaN()}, 3)
	if empty.Edges != nil || !reflect.DeepEqual(empty.Counts, []int{0, 0, 0}) {
		t.Fatalf("all-NaN input: %+v", empty)
	}
}

func TestBuildHistogram(t *testing.T) {
	h := BuildHistogram("Age", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	if !reflect.DeepEqual(h.Edges, []float64{0, 2, 4, 6, 8, 10}) {
		t.Fatalf("edges: %v", h.Edges)
	}
	// last bin is closed on the right
	if !reflect.DeepEqual(h.Counts, []int{2, 2, 2, 2, 3}) {
		t.Fatalf("counts: %v", h.Counts)
	}
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	if total != 11 {
		t.Fatalf("histogram dropped values: %d", total)
	}
}

func TestBuildHistogramDegenerate(t *testing.T) {
	h := BuildHistogram("x", []float64{5, 5, 5}, 0)
	if len(h.Counts) != 10 || h.Edges[0] != 4.5 || h.Edges[10] != 5.5 {
		t.Fatalf("unexpected degenerate histogram: %+v", h)
	}
	sum := 0
	for _, c := range h.Counts {
		sum += c
	}
	if sum != 3 {
		t.Fatalf("expected 3 values binned, got %d", sum)
	}
	empty := BuildHistogram("x", nil, 4)
	if len(empty.Counts) != 4 || empty.Edges != nil {
		t.Fatalf("unexpected empty histogram: %+v", empty)
	}
}

func TestValueCounts(t *testing.T) {
	got := ValueCounts([]float64{1, 2, 1, 3, 2, 1})
	want := []ValueCount{
		{Value: 1, Count: 3, Share: 0.5},
		{Value: 2, Count: 2, Share: 2.0 / 6},
		{Value: 3, Count: 1, Share: 1.0 / 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
	tie := ValueCounts([]float64{2, 1})
	if tie[0].Value != 1 {
		t.Fatalf("ties should order by value: %+v", tie)
	}
}

func TestGroupBox(t *testing.T) {
	boxes, err := GroupBox(sampleFrame(), "Gender", "Age")
	if err != nil {
		t.Fatalf("GroupBox: %v", err)
	}
	if len(boxes) != 2 || boxes[0].Group != 1 || boxes[1].Group != 2 {
		t.Fatalf("groups: %+v", boxes)
	}
	m := boxes[0]
	// ages for gender 1: 20,30,40,50,90 -> q1 30, q3 50, fences 0..80
	if m.N != 5 || m.Q1 != 30 || m.Median != 40 || m.Q3 != 50 || m.Max != 90 {
		t.Fatalf("male box: %+v", m)
	}
	if m.UpperWhisker != 50 || m.LowerWhisker != 20 || !reflect.DeepEqual(m.Outliers, []float64{90}) {
		t.Fatalf("whiskers/outliers: %+v", m)
	}
	f := boxes[1]
	if f.N != 2 || f.Min != 25 || f.Max != 35 || len(f.Outliers) != 0 {
		t.Fatalf("female box: %+v", f)
	}

	if _, err := GroupBox(sampleFrame(), "Sex", "Age"); err == nil {
		t.Fatalf("expected schema error")
	}
}

func TestCrossTab(t *testing.T) {
	ct, err := CrossTab(sampleFrame(), "Gender", "Level")
	if err != nil {
		t.Fatalf("CrossTab: %v", err)
	}
	if !reflect.DeepEqual(ct.Rows, []float64{1, 2}) || !reflect.DeepEqual(ct.Hues, []float64{0, 1, 2}) {
		t.Fatalf("axes: %+v", ct)
	}
	want := [][]int{{3, 1, 1}, {0, 2, 0}}
	if !reflect.DeepEqual(ct.Counts, want) {
		t.Fatalf("counts: %v want %v", ct.Counts, want)
	}
}

func TestPair(t *testing.T) {
	p, err := Pair(sampleFrame(), "Smoking", "Age")
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if len(p.XValues) != 7 || p.Pearson <= 0 || p.Pearson > 1 {
		t.Fatalf("unexpected pair: %+v", p)
	}
	line := &dataset.Frame{Columns: []string{"a", "b", "c"}, Data: [][]float64{{1, 2, 3}, {2, 4, 6}, {1, 1, 1}}}
	p, err = Pair(line, "a", "b")
	if err != nil || math.Abs(p.Pearson-1) > 1e-12 {
		t.Fatalf("perfect correlation: %+v %v", p, err)
	}
	p, err = Pair(line, "a", "c")
	if err != nil || !math.IsNaN(p.Pearson) {
		t.Fatalf("constant field should give NaN: %+v %v", p, err)
	}
	if _, err := Pair(line, "a", "a"); !errors.Is(err, ErrSameField) {
		t.Fatalf("expected ErrSameField, got %v", err)
	}
	var se *dataset.SchemaError
	if _, err := Pair(line, "a", "z"); !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}
