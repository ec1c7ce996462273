package models

import (
	"time"
)

// AlertTypeGas is the alert type recorded for threshold breaches.
// It is the only alert type the server currently emits.
const AlertTypeGas = "gas_alert"

// Reading is one stored sensor sample. Rows are immutable once written;
// there is no update or delete path.
type Reading struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SensorID  string    `gorm:"size:64;not null;index" json:"sensor_id"`
	GasValue  float64   `gorm:"not null" json:"gas_value"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`

	// Optional gas channels; a nil pointer means the sensor did not
	// report that channel and the column stays NULL.
	CO     *float64 `gorm:"column:co" json:"co,omitempty"`
	CO2    *float64 `gorm:"column:co2" json:"co2,omitempty"`
	SO2    *float64 `gorm:"column:so2" json:"so2,omitempty"`
	CH4    *float64 `gorm:"column:ch4" json:"ch4,omitempty"`
	Butane *float64 `gorm:"column:butane" json:"butane,omitempty"`
	LPG    *float64 `gorm:"column:lpg" json:"lpg,omitempty"`
	Smoke  *float64 `gorm:"column:smoke" json:"smoke,omitempty"`
}

// TableName maps Reading onto the gas_readings table.
func (Reading) TableName() string { return "gas_readings" }

// Notification is one derived alert event, written when a reading
// crosses the configured gas threshold.
type Notification struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SensorID   string    `gorm:"size:64;not null;index" json:"sensor_id"`
	AlertType  string    `gorm:"size:32;not null" json:"alert_type"`
	AlertValue float64   `gorm:"not null" json:"alert_value"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName maps Notification onto the notifications table.
func (Notification) TableName() string { return "notifications" }

// SensorMetadata is one row per distinct sensor. last_seen and
// ip_address are refreshed on every ingestion from that sensor;
// firmware_version is set on first contact only.
type SensorMetadata struct {
	SensorID        string    `gorm:"primaryKey;size:64" json:"sensor_id"`
	LastSeen        time.Time `gorm:"not null" json:"last_seen"`
	IPAddress       string    `gorm:"size:45" json:"ip_address"`
	FirmwareVersion string    `gorm:"size:32" json:"firmware_version"`
}

// TableName maps SensorMetadata onto the sensor_metadata table.
func (SensorMetadata) TableName() string { return "sensor_metadata" }

// HistoryEntry is the fixed projection served by the history endpoint.
// Channel fields serialize as null when absent, matching the wire
// format the dashboard expects.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	CO        *float64  `json:"co"`
	CO2       *float64  `json:"co2"`
	SO2       *float64  `json:"so2"`
	CH4       *float64  `json:"ch4"`
	Butane    *float64  `json:"butane"`
	LPG       *float64  `json:"lpg"`
	Smoke     *float64  `json:"smoke"`
}

// HistoryEntry projects the reading into the history wire format.
func (r *Reading) HistoryEntry() HistoryEntry {
	return HistoryEntry{
		Timestamp: r.Timestamp,
		CO:        r.CO,
		CO2:       r.CO2,
		SO2:       r.SO2,
		CH4:       r.CH4,
		Butane:    r.Butane,
		LPG:       r.LPG,
		Smoke:     r.Smoke,
	}
}
