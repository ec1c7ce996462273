package models

import (
	"strings"
)

// UnknownValue is substituted for sensor identity fields a device did
// not report.
const UnknownValue = "unknown"

// ReadingPayload is the typed form of an inbound telemetry payload.
// Every field is optional on the wire; which storage writes happen is
// gated on which fields are present, not on validation of the rest.
type ReadingPayload struct {
	SensorID        string   `json:"sensor_id,omitempty"`
	GasValue        *float64 `json:"gas_value,omitempty"`
	FirmwareVersion string   `json:"firmware_version,omitempty"`

	CO     *float64 `json:"co,omitempty"`
	CO2    *float64 `json:"co2,omitempty"`
	SO2    *float64 `json:"so2,omitempty"`
	CH4    *float64 `json:"ch4,omitempty"`
	Butane *float64 `json:"butane,omitempty"`
	LPG    *float64 `json:"lpg,omitempty"`
	Smoke  *float64 `json:"smoke,omitempty"`
}

// Normalize trims identity fields in place. It does not fill defaults:
// the presence of sensor_id gates the metadata upsert, so the raw
// absent/present distinction must survive normalization.
func (p *ReadingPayload) Normalize() {
	p.SensorID = strings.TrimSpace(p.SensorID)
	p.FirmwareVersion = strings.TrimSpace(p.FirmwareVersion)
}

// HasSensorID reports whether the device identified itself.
func (p *ReadingPayload) HasSensorID() bool { return p.SensorID != "" }

// HasGasValue reports whether the payload carries the primary gas
// measurement. Payloads without it are metadata-only.
func (p *ReadingPayload) HasGasValue() bool { return p.GasValue != nil }

// SensorIDOrUnknown returns the sensor id, defaulting to "unknown".
func (p *ReadingPayload) SensorIDOrUnknown() string {
	if p.SensorID == "" {
		return UnknownValue
	}
	return p.SensorID
}

// FirmwareOrUnknown returns the firmware version, defaulting to "unknown".
func (p *ReadingPayload) FirmwareOrUnknown() string {
	if p.FirmwareVersion == "" {
		return UnknownValue
	}
	return p.FirmwareVersion
}

// Reading builds the row to persist for this payload. The timestamp is
// left zero so the store stamps it at write time; client timestamps are
// never trusted.
func (p *ReadingPayload) Reading(clientIP string) *Reading {
	return &Reading{
		SensorID:  p.SensorIDOrUnknown(),
		GasValue:  *p.GasValue,
		IPAddress: clientIP,
		CO:        p.CO,
		CO2:       p.CO2,
		SO2:       p.SO2,
		CH4:       p.CH4,
		Butane:    p.Butane,
		LPG:       p.LPG,
		Smoke:     p.Smoke,
	}
}

// Notification builds the alert row for a payload that crossed the
// threshold.
func (p *ReadingPayload) Notification() *Notification {
	return &Notification{
		SensorID:   p.SensorIDOrUnknown(),
		AlertType:  AlertTypeGas,
		AlertValue: *p.GasValue,
	}
}
