package storage_test

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

func TestSaveReading_StampsZeroTimestamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := &models.Reading{SensorID: "s1", GasValue: 42}
	if err := store.SaveReading(ctx, r); err != nil {
		t.Fatalf("save reading: %v", err)
	}

	if r.Timestamp.IsZero() {
		t.Error("expected server-assigned timestamp, got zero")
	}
}

func TestSaveReading_KeepsExplicitTimestamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := &models.Reading{SensorID: "s1", GasValue: 42, Timestamp: ts}
	if err := store.SaveReading(ctx, r); err != nil {
		t.Fatalf("save reading: %v", err)
	}

	if !r.Timestamp.Equal(ts) {
		t.Errorf("timestamp overwritten: got %v, want %v", r.Timestamp, ts)
	}
}

func TestReadingsByDate_AscendingAndBounded(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	co := 1.5

	// Insert out of order, plus one reading on the next day.
	stamps := []time.Time{
		day.Add(15 * time.Hour),
		day.Add(2 * time.Hour),
		day.Add(9 * time.Hour),
		day.AddDate(0, 0, 1).Add(time.Hour),
	}
	for i, ts := range stamps {
		r := &models.Reading{SensorID: "s1", GasValue: float64(i), Timestamp: ts, CO: &co}
		if err := store.SaveReading(ctx, r); err != nil {
			t.Fatalf("save reading %d: %v", i, err)
		}
	}

	readings, err := store.ReadingsByDate(ctx, day)
	if err != nil {
		t.Fatalf("readings by date: %v", err)
	}

	if len(readings) != 3 {
		t.Fatalf("expected 3 readings on %v, got %d", day, len(readings))
	}
	for i := 1; i < len(readings); i++ {
		if readings[i].Timestamp.Before(readings[i-1].Timestamp) {
			t.Errorf("readings not ascending at index %d", i)
		}
	}
	if readings[0].CO == nil || *readings[0].CO != co {
		t.Errorf("channel value not preserved: %+v", readings[0].CO)
	}
}

func TestReadingsByDate_EmptyDate(t *testing.T) {
	store := newTestStore(t)

	readings, err := store.ReadingsByDate(context.Background(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected empty result, got error: %v", err)
	}
	if len(readings) != 0 {
		t.Errorf("expected no readings, got %d", len(readings))
	}
}

func TestRecentReadings_DescendingWithLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		r := &models.Reading{SensorID: "s1", GasValue: float64(i), Timestamp: base.Add(time.Duration(i) * time.Minute)}
		if err := store.SaveReading(ctx, r); err != nil {
			t.Fatalf("save reading %d: %v", i, err)
		}
	}

	readings, err := store.RecentReadings(ctx, 3)
	if err != nil {
		t.Fatalf("recent readings: %v", err)
	}

	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}
	if readings[0].GasValue != 4 {
		t.Errorf("expected newest reading first, got gas_value %v", readings[0].GasValue)
	}
	for i := 1; i < len(readings); i++ {
		if readings[i].Timestamp.After(readings[i-1].Timestamp) {
			t.Errorf("readings not descending at index %d", i)
		}
	}
}

func TestActiveNotifications_TrailingWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	cases := []struct {
		age    time.Duration
		inside bool
	}{
		{1 * time.Hour, true},
		{23 * time.Hour, true},
		{25 * time.Hour, false},
	}
	for i, tc := range cases {
		n := &models.Notification{
			SensorID:   "s1",
			AlertType:  models.AlertTypeGas,
			AlertValue: 150,
			Timestamp:  now.Add(-tc.age),
		}
		if err := store.SaveNotification(ctx, n); err != nil {
			t.Fatalf("save notification %d: %v", i, err)
		}
	}

	active, err := store.ActiveNotifications(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("active notifications: %v", err)
	}

	if len(active) != 2 {
		t.Fatalf("expected 2 active notifications, got %d", len(active))
	}
	if active[0].Timestamp.Before(active[1].Timestamp) {
		t.Error("notifications not descending")
	}
}

func TestUpsertSensorMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertSensorMetadata(ctx, "s1", "10.0.0.1", "v1.0"); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := store.UpsertSensorMetadata(ctx, "s1", "10.0.0.2", "v2.0"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	sensors, err := store.ListSensorMetadata(ctx)
	if err != nil {
		t.Fatalf("list sensors: %v", err)
	}
	if len(sensors) != 1 {
		t.Fatalf("expected exactly one row for s1, got %d", len(sensors))
	}

	got := sensors[0]
	if got.IPAddress != "10.0.0.2" {
		t.Errorf("ip_address not updated: got %q", got.IPAddress)
	}
	if got.FirmwareVersion != "v1.0" {
		t.Errorf("firmware_version overwritten on conflict: got %q", got.FirmwareVersion)
	}
}

func TestCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveReading(ctx, &models.Reading{SensorID: "s1", GasValue: 1}); err != nil {
		t.Fatalf("save reading: %v", err)
	}
	if err := store.SaveNotification(ctx, &models.Notification{SensorID: "s1", AlertType: models.AlertTypeGas, AlertValue: 150}); err != nil {
		t.Fatalf("save notification: %v", err)
	}
	if err := store.UpsertSensorMetadata(ctx, "s1", "10.0.0.1", "v1.0"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	checks := []struct {
		name  string
		count func(context.Context) (int64, error)
		want  int64
	}{
		{"readings", store.CountReadings, 1},
		{"notifications", store.CountNotifications, 1},
		{"sensors", store.CountSensors, 1},
	}
	for _, c := range checks {
		got, err := c.count(ctx)
		if err != nil {
			t.Fatalf("count %s: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("count %s: got %d, want %d", c.name, got, c.want)
		}
	}
}

func TestTransact_RollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.Transact(ctx, func(tx storage.Store) error {
		if err := tx.SaveReading(ctx, &models.Reading{SensorID: "s1", GasValue: 1}); err != nil {
			return err
		}
		if err := tx.UpsertSensorMetadata(ctx, "s1", "10.0.0.1", "v1.0"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected transaction error, got %v", err)
	}

	n, err := store.CountReadings(ctx)
	if err != nil {
		t.Fatalf("count readings: %v", err)
	}
	if n != 0 {
		t.Errorf("reading visible after rollback: count %d", n)
	}

	m, err := store.CountSensors(ctx)
	if err != nil {
		t.Fatalf("count sensors: %v", err)
	}
	if m != 0 {
		t.Errorf("metadata visible after rollback: count %d", m)
	}
}

func TestTransact_CommitsAllWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Transact(ctx, func(tx storage.Store) error {
		if err := tx.SaveReading(ctx, &models.Reading{SensorID: "s1", GasValue: 150}); err != nil {
			return err
		}
		if err := tx.SaveNotification(ctx, &models.Notification{SensorID: "s1", AlertType: models.AlertTypeGas, AlertValue: 150}); err != nil {
			return err
		}
		return tx.UpsertSensorMetadata(ctx, "s1", "10.0.0.1", "v1.0")
	})
	if err != nil {
		t.Fatalf("transact: %v", err)
	}

	for _, c := range []struct {
		name  string
		count func(context.Context) (int64, error)
	}{
		{"readings", store.CountReadings},
		{"notifications", store.CountNotifications},
		{"sensors", store.CountSensors},
	} {
		n, err := c.count(ctx)
		if err != nil {
			t.Fatalf("count %s: %v", c.name, err)
		}
		if n != 1 {
			t.Errorf("count %s: got %d, want 1", c.name, n)
		}
	}
}
