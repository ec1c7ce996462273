package handlers

import (
	"net/http"

	"github.com/itsjoyciee/gas-monitoring/internal/logger"
	"github.com/itsjoyciee/gas-monitoring/internal/storage"
)

// HealthHandler reports liveness plus aggregate table counts on
// GET /api/health. Health is all-or-nothing: if any count fails the
// whole check fails, never partial counts.
type HealthHandler struct {
	store    storage.Store
	serverIP string
}

// NewHealthHandler creates a health handler. serverIP is the address
// resolved once at startup.
func NewHealthHandler(store storage.Store, serverIP string) *HealthHandler {
	return &HealthHandler{store: store, serverIP: serverIP}
}

// DatabaseStats holds the per-table row counts.
type DatabaseStats struct {
	GasReadings    int64 `json:"gas_readings"`
	Notifications  int64 `json:"notifications"`
	SensorMetadata int64 `json:"sensor_metadata"`
}

// HealthResponse is the successful health payload.
type HealthResponse struct {
	Status        string            `json:"status"`
	ServerIP      string            `json:"server_ip"`
	ClientIP      string            `json:"client_ip"`
	DatabaseStats DatabaseStats     `json:"database_stats"`
	Endpoints     map[string]string `json:"endpoints"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	readings, err := h.store.CountReadings(r.Context())
	if err != nil {
		healthFailed(w, err)
		return
	}

	notifications, err := h.store.CountNotifications(r.Context())
	if err != nil {
		healthFailed(w, err)
		return
	}

	sensors, err := h.store.CountSensors(r.Context())
	if err != nil {
		healthFailed(w, err)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		ServerIP: h.serverIP,
		ClientIP: clientIP(r),
		DatabaseStats: DatabaseStats{
			GasReadings:    readings,
			Notifications:  notifications,
			SensorMetadata: sensors,
		},
		Endpoints: map[string]string{
			"post_data": "/api/data (POST)",
			"get_data":  "/api/data (GET)",
		},
	})
}

func healthFailed(w http.ResponseWriter, err error) {
	log := logger.WithComponent("health")
	log.Error().Err(err).Msg("health check failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"status": "database_error",
		"error":  err.Error(),
	})
}
