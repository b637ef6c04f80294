package analysis

import (
	"encoding/json"
	"math"
)

// jsonFloat encodes NaN and ±Inf as null, which encoding/json rejects otherwise.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (r SummaryRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label    string    `json:"label"`
		Column   string    `json:"column"`
		Count    int       `json:"count"`
		Mean     jsonFloat `json:"mean"`
		Median   jsonFloat `json:"median"`
		Mode     jsonFloat `json:"mode"`
		StdDev   jsonFloat `json:"std_dev"`
		Variance jsonFloat `json:"variance"`
		Min      jsonFloat `json:"min"`
		Max      jsonFloat `json:"max"`
		Range    jsonFloat `json:"range"`
		P25      jsonFloat `json:"p25"`
		P50      jsonFloat `json:"p50"`
		P75      jsonFloat `json:"p75"`
	}{
		r.Label, r.Column, r.Count,
		jsonFloat(r.Mean), jsonFloat(r.Median), jsonFloat(r.Mode), jsonFloat(r.StdDev), jsonFloat(r.Variance),
		jsonFloat(r.Min), jsonFloat(r.Max), jsonFloat(r.Range), jsonFloat(r.P25), jsonFloat(r.P50), jsonFloat(r.P75),
	})
}

func (p PairView) MarshalJSON() ([]byte, error) {
	type plain PairView
	return json.Marshal(struct {
		plain
		Pearson jsonFloat `json:"pearson"`
	}{plain(p), jsonFloat(p.Pearson)})
}
