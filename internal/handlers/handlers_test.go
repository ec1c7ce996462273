package handlers_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"

	"github.com/itsjoyciee/gas-monitoring/internal/logger"
	"github.com/itsjoyciee/gas-monitoring/internal/models"
	"github.com/itsjoyciee/gas-monitoring/internal/storage"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	logger.Init("disabled")

	store, err := storage.OpenDialector(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// brokenStore fails every operation, standing in for an unreachable
// database.
type brokenStore struct{}

var errBroken = errors.New("connection refused")

func (brokenStore) SaveReading(context.Context, *models.Reading) error          { return errBroken }
func (brokenStore) SaveNotification(context.Context, *models.Notification) error { return errBroken }
func (brokenStore) UpsertSensorMetadata(context.Context, string, string, string) error {
	return errBroken
}
func (brokenStore) ReadingsByDate(context.Context, time.Time) ([]models.Reading, error) {
	return nil, errBroken
}
func (brokenStore) RecentReadings(context.Context, int) ([]models.Reading, error) {
	return nil, errBroken
}
func (brokenStore) ActiveNotifications(context.Context, time.Duration) ([]models.Notification, error) {
	return nil, errBroken
}
func (brokenStore) ListSensorMetadata(context.Context) ([]models.SensorMetadata, error) {
	return nil, errBroken
}
func (brokenStore) CountReadings(context.Context) (int64, error)      { return 0, errBroken }
func (brokenStore) CountNotifications(context.Context) (int64, error) { return 0, errBroken }
func (brokenStore) CountSensors(context.Context) (int64, error)       { return 0, errBroken }
func (brokenStore) Transact(ctx context.Context, fn func(storage.Store) error) error {
	return errBroken
}
func (brokenStore) Close() error { return nil }
