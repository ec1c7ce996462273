package storage

import (
	"context"
	"errors"
	"time"

	"github.com/itsjoyciee/gas-monitoring/internal/models"
)

// ErrUnavailable is returned when a connection to the storage engine
// could not be established.
var ErrUnavailable = errors.New("storage unavailable")

// Error wraps a failed query with the operation that issued it. Query
// failures (constraint violations included) always surface to the
// caller; the store performs no retries.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Store persists readings, notifications, and sensor metadata.
//
// Readings and notifications are immutable once written. Sensor
// metadata is keyed by sensor_id: the first insert fixes
// firmware_version, later upserts touch only last_seen and ip_address.
type Store interface {
	// SaveReading writes one reading row. A zero timestamp is stamped
	// with the current server time at write.
	SaveReading(ctx context.Context, r *models.Reading) error

	// SaveNotification writes one alert row, stamping a zero timestamp
	// the same way.
	SaveNotification(ctx context.Context, n *models.Notification) error

	// UpsertSensorMetadata inserts the sensor row on first contact; on
	// conflict it updates last_seen and ip_address only.
	UpsertSensorMetadata(ctx context.Context, sensorID, ipAddress, firmwareVersion string) error

	// ReadingsByDate returns all readings on the given calendar date
	// (UTC), ascending by timestamp.
	ReadingsByDate(ctx context.Context, date time.Time) ([]models.Reading, error)

	// RecentReadings returns the most recent readings, newest first.
	RecentReadings(ctx context.Context, limit int) ([]models.Reading, error)

	// ActiveNotifications returns notifications inside the trailing
	// window, newest first.
	ActiveNotifications(ctx context.Context, window time.Duration) ([]models.Notification, error)

	// ListSensorMetadata returns every known sensor.
	ListSensorMetadata(ctx context.Context) ([]models.SensorMetadata, error)

	CountReadings(ctx context.Context) (int64, error)
	CountNotifications(ctx context.Context) (int64, error)
	CountSensors(ctx context.Context) (int64, error)

	// Transact runs fn against a transactional view of the store.
	// Either every write inside fn commits or none are visible.
	Transact(ctx context.Context, fn func(Store) error) error

	Close() error
}
