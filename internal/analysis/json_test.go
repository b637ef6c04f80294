package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestSummaryRowJSONNaN(t *testing.T) {
	b, err := json.Marshal(SummaryRow{Label: "Age", Mean: math.NaN(), Max: 73})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"mean":null`) || !strings.Contains(s, `"max":73`) || !strings.Contains(s, `"label":"Age"`) {
		t.Fatalf("unexpected json: %s", s)
	}
}

func TestPairViewJSON(t *testing.T) {
	b, err := json.Marshal(PairView{X: "a", Y: "b", Pearson: math.NaN()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"pearson":null`) || !strings.Contains(s, `"x":"a"`) {
		t.Fatalf("unexpected json: %s", s)
	}
	if strings.Count(s, "pearson") != 1 {
		t.Fatalf("pearson encoded twice: %s", s)
	}
}
