package core

import (
	"math/rand"
	"sort"
	"time"
)

// Prediction is one month's entry on the forecast chart. Historical months
// carry the actual spend; the trailing synthetic month carries only a
// projection. The "model" is a jittered echo of the observed value, not
// real forecasting.
type Prediction struct {
	Month      string  `json:"month"`
	Actual     *Money  `json:"actual,omitempty"`
	Predicted  float64 `json:"predicted"`
	Confidence int     `json:"confidence"`
}

// Predictor generates pseudo-predictions from monthly history. The random
// source is injected so tests can pin the jitter.
type Predictor struct {
	rng *rand.Rand
}

func NewPredictor(rng *rand.Rand) *Predictor {
	return &Predictor{rng: rng}
}

// predictMonthKey renders YYYY-MM, the key format of the forecast chart
// (one-based month, unlike the stats key).
func predictMonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Predict returns one entry per observed month in chronological order, each
// predicted as actual*(0.9..1.1) with confidence 70..99, plus a synthetic
// next-month entry projected from the historical mean with confidence
// 75..94. Empty history yields nil.
func (p *Predictor) Predict(expenses []Expense, now time.Time) []Prediction {
	monthly := make(map[string]Money)
	for _, e := range expenses {
		key := predictMonthKey(e.Date.Time)
		monthly[key] = monthly[key].Add(e.Amount)
	}
	if len(monthly) == 0 {
		return nil
	}

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)

	predictions := make([]Prediction, 0, len(months)+1)
	var totalCents int64
	for _, m := range months {
		actual := monthly[m]
		totalCents += actual.Cents
		predictions = append(predictions, Prediction{
			Month:      m,
			Actual:     &actual,
			Predicted:  actual.Float64() * p.jitter(),
			Confidence: 70 + p.rng.Intn(30),
		})
	}

	avg := float64(totalCents) / float64(len(months)) / 100.0
	predictions = append(predictions, Prediction{
		Month:      predictMonthKey(now.AddDate(0, 1, 0)),
		Predicted:  avg * p.jitter(),
		Confidence: 75 + p.rng.Intn(20),
	})

	return predictions
}

// jitter returns a factor in [0.9, 1.1).
func (p *Predictor) jitter() float64 {
	return 0.9 + p.rng.Float64()*0.2
}
