package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/itsjoyciee/gas-monitoring/internal/alerts"
	"github.com/itsjoyciee/gas-monitoring/internal/logger"
	"github.com/itsjoyciee/gas-monitoring/internal/metrics"
	"github.com/itsjoyciee/gas-monitoring/internal/models"
	"github.com/itsjoyciee/gas-monitoring/internal/storage"
)

// AlertPublisher is the optional fan-out for committed alerts.
type AlertPublisher interface {
	Publish(ctx context.Context, n *models.Notification) error
}

// IngestHandler accepts telemetry payloads on POST /api/data.
//
// Which writes happen is gated purely on field presence: a reading row
// needs gas_value, a notification additionally needs the threshold
// breach, the metadata upsert needs sensor_id. All writes for one
// payload commit in a single transaction.
type IngestHandler struct {
	store     storage.Store
	evaluator *alerts.Evaluator
	publisher AlertPublisher // nil when Kafka is not configured

	// Max body size (default 1MB)
	maxBodySize int64
}

// NewIngestHandler creates an ingest handler. publisher may be nil.
func NewIngestHandler(store storage.Store, evaluator *alerts.Evaluator, publisher AlertPublisher) *IngestHandler {
	return &IngestHandler{
		store:       store,
		evaluator:   evaluator,
		publisher:   publisher,
		maxBodySize: 1 << 20,
	}
}

// AckResponse acknowledges a stored payload, echoing what was received.
type AckResponse struct {
	Status         string                 `json:"status"`
	ClientIP       string                 `json:"client_ip"`
	Received       *models.ReadingPayload `json:"received"`
	DatabaseStatus string                 `json:"database_status"`
}

// ServeHTTP handles the ingest HTTP request
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	log := logger.WithComponent("ingest")
	ip := clientIP(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
		return
	}

	var payload models.ReadingPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Warn().Str("client_ip", ip).Msg("received non-JSON data")
		metrics.PayloadsRejectedTotal.WithLabelValues("invalid_json").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Request must be JSON"})
		return
	}
	payload.Normalize()

	var alert *models.Notification

	// Each transmission is a distinct event; identical payloads store
	// distinct rows. Timestamps are stamped server-side at write.
	err = h.store.Transact(r.Context(), func(tx storage.Store) error {
		if payload.HasGasValue() {
			if err := tx.SaveReading(r.Context(), payload.Reading(ip)); err != nil {
				return err
			}
			if h.evaluator.ShouldAlert(&payload) {
				alert = payload.Notification()
				if err := tx.SaveNotification(r.Context(), alert); err != nil {
					return err
				}
			}
		}
		if payload.HasSensorID() {
			if err := tx.UpsertSensorMetadata(r.Context(), payload.SensorID, ip, payload.FirmwareOrUnknown()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("client_ip", ip).Msg("failed to store data")
		metrics.PayloadsRejectedTotal.WithLabelValues("storage_error").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Failed to store data in database",
			"error":   err.Error(),
		})
		return
	}

	if payload.HasGasValue() {
		metrics.ReadingsStoredTotal.Inc()
	}
	if alert != nil {
		metrics.AlertsTriggeredTotal.Inc()
		log.Warn().
			Str("sensor_id", alert.SensorID).
			Float64("alert_value", alert.AlertValue).
			Msg("gas alert recorded")
		h.fanOut(alert)
	}

	log.Info().
		Str("sensor_id", payload.SensorIDOrUnknown()).
		Str("client_ip", ip).
		Msg("data stored")

	writeJSON(w, http.StatusOK, AckResponse{
		Status:         "success",
		ClientIP:       ip,
		Received:       &payload,
		DatabaseStatus: "stored",
	})
}

// fanOut publishes a committed alert in the background. The row is
// already durable; a publish failure is logged and nothing more.
func (h *IngestHandler) fanOut(alert *models.Notification) {
	if h.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.publisher.Publish(ctx, alert); err != nil {
			log := logger.WithComponent("ingest")
			log.Error().
				Err(err).
				Str("sensor_id", alert.SensorID).
				Msg("alert fan-out failed")
		}
	}()
}
