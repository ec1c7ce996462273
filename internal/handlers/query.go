package handlers

import (
	"net/http"
	"time"

	"github.com/itsjoyciee/gas-monitoring/internal/config"
	"github.com/itsjoyciee/gas-monitoring/internal/logger"
	"github.com/itsjoyciee/gas-monitoring/internal/models"
	"github.com/itsjoyciee/gas-monitoring/internal/storage"
)

// QueryHandler serves the combined dashboard view on GET /api/data:
// recent readings, notifications inside the trailing window, and the
// full sensor listing.
type QueryHandler struct {
	store  storage.Store
	window time.Duration
	limit  int
}

// NewQueryHandler creates a query handler with the configured recent
// limit and notification window.
func NewQueryHandler(store storage.Store, cfg config.AlertingConfig) *QueryHandler {
	return &QueryHandler{
		store:  store,
		window: cfg.NotificationWindow,
		limit:  cfg.RecentLimit,
	}
}

// QueryResponse is the combined dashboard payload.
type QueryResponse struct {
	GasReadings    []models.Reading        `json:"gas_readings"`
	Notifications  []models.Notification   `json:"notifications"`
	SensorMetadata []models.SensorMetadata `json:"sensor_metadata"`
	ServerStatus   string                  `json:"server_status"`
}

func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	readings, err := h.store.RecentReadings(r.Context(), h.limit)
	if err != nil {
		queryFailed(w, err)
		return
	}

	notifications, err := h.store.ActiveNotifications(r.Context(), h.window)
	if err != nil {
		queryFailed(w, err)
		return
	}

	sensors, err := h.store.ListSensorMetadata(r.Context())
	if err != nil {
		queryFailed(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		GasReadings:    emptyIfNilReadings(readings),
		Notifications:  emptyIfNilNotifications(notifications),
		SensorMetadata: emptyIfNilSensors(sensors),
		ServerStatus:   "running",
	})
}

func queryFailed(w http.ResponseWriter, err error) {
	log := logger.WithComponent("query")
	log.Error().Err(err).Msg("failed to retrieve data")
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"status":  "error",
		"message": "Failed to retrieve data",
		"error":   err.Error(),
	})
}

// HistoryHandler serves the per-date reading history on
// GET /api/history?date=YYYY-MM-DD, projected into the fixed channel
// order the dashboard chart expects.
type HistoryHandler struct {
	store storage.Store
}

// NewHistoryHandler creates a history handler.
func NewHistoryHandler(store storage.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// HistoryResponse wraps the projected readings for one calendar date.
type HistoryResponse struct {
	Readings []models.HistoryEntry `json:"readings"`
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}

	readings, err := h.store.ReadingsByDate(r.Context(), date)
	if err != nil {
		queryFailed(w, err)
		return
	}

	// A date with no readings is an empty list, not an error.
	entries := make([]models.HistoryEntry, 0, len(readings))
	for i := range readings {
		entries = append(entries, readings[i].HistoryEntry())
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Readings: entries})
}

func emptyIfNilReadings(rs []models.Reading) []models.Reading {
	if rs == nil {
		return []models.Reading{}
	}
	return rs
}

func emptyIfNilNotifications(ns []models.Notification) []models.Notification {
	if ns == nil {
		return []models.Notification{}
	}
	return ns
}

func emptyIfNilSensors(ss []models.SensorMetadata) []models.SensorMetadata {
	if ss == nil {
		return []models.SensorMetadata{}
	}
	return ss
}
