package alerts_test

import (
	"testing"

	"github.com/itsjoyciee/gas-monitoring/internal/alerts"
	"github.com/itsjoyciee/gas-monitoring/internal/models"
)

func f(v float64) *float64 { return &v }

func TestShouldAlert(t *testing.T) {
	e := alerts.NewEvaluator(100)

	tests := []struct {
		name     string
		gasValue *float64
		want     bool
	}{
		{"above threshold", f(150), true},
		{"just above threshold", f(100.01), true},
		{"exactly at threshold", f(100), false},
		{"below threshold", f(10), false},
		{"zero", f(0), false},
		{"absent gas value", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.ReadingPayload{SensorID: "s1", GasValue: tt.gasValue}
			if got := e.ShouldAlert(p); got != tt.want {
				t.Errorf("ShouldAlert() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvaluator_DefaultThreshold(t *testing.T) {
	e := alerts.NewEvaluator(0)
	if e.Threshold() != alerts.DefaultThreshold {
		t.Errorf("expected default threshold %v, got %v", float64(alerts.DefaultThreshold), e.Threshold())
	}

	if e.ShouldAlert(&models.ReadingPayload{GasValue: f(101)}) != true {
		t.Error("expected alert above default threshold")
	}
}

func TestShouldAlert_CustomThreshold(t *testing.T) {
	e := alerts.NewEvaluator(250)

	if e.ShouldAlert(&models.ReadingPayload{GasValue: f(150)}) {
		t.Error("150 should not alert with threshold 250")
	}
	if !e.ShouldAlert(&models.ReadingPayload{GasValue: f(251)}) {
		t.Error("251 should alert with threshold 250")
	}
}
