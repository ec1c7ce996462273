package alerts

import (
	"github.com/itsjoyciee/gas-monitoring/internal/models"
)

// DefaultThreshold is the gas level above which an alert is recorded.
const DefaultThreshold = 100

// Evaluator decides whether an incoming reading must produce an alert
// notification. Evaluation is pure: no clock, no storage, no state.
type Evaluator struct {
	threshold float64
}

// NewEvaluator returns an evaluator with the given threshold. A
// non-positive threshold falls back to DefaultThreshold.
func NewEvaluator(threshold float64) *Evaluator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Evaluator{threshold: threshold}
}

// Threshold returns the configured alert threshold.
func (e *Evaluator) Threshold() float64 { return e.threshold }

// ShouldAlert reports whether the payload crosses the threshold.
// Comparison is strict: a reading exactly at the threshold does not
// alert. A payload without gas_value never alerts; metadata-only
// transmissions must not fail ingestion.
func (e *Evaluator) ShouldAlert(p *models.ReadingPayload) bool {
	return p.GasValue != nil && *p.GasValue > e.threshold
}
