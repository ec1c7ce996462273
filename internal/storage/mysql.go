package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/itsjoyciee/gas-monitoring/internal/config"
	"github.com/itsjoyciee/gas-monitoring/internal/logger"
	"github.com/itsjoyciee/gas-monitoring/internal/metrics"
	"github.com/itsjoyciee/gas-monitoring/internal/models"
)

// DB is the GORM-backed Store implementation. All operations draw from
// a shared connection pool; there is no per-request connect/disconnect.
type DB struct {
	db *gorm.DB
}

// Open connects to MySQL with the given configuration, applies pool
// limits, and migrates the three tables.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	g, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	sqlDB, err := g.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return migrate(g)
}

// OpenDialector builds a store over an arbitrary GORM dialector. Tests
// use it with an in-memory SQLite database.
func OpenDialector(d gorm.Dialector) (*DB, error) {
	g, err := gorm.Open(d, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return migrate(g)
}

func migrate(g *gorm.DB) (*DB, error) {
	err := g.AutoMigrate(
		&models.Reading{},
		&models.Notification{},
		&models.SensorMetadata{},
	)
	if err != nil {
		return nil, &Error{Op: "migrate", Err: err}
	}

	log := logger.WithComponent("storage")
	log.Info().Msg("database schema ready")

	return &DB{db: g}, nil
}

// finish records the query outcome and wraps any error with the
// operation name.
func finish(op string, start time.Time, err error) error {
	metrics.StorageQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StorageErrorsTotal.WithLabelValues(op).Inc()
		return &Error{Op: op, Err: err}
	}
	return nil
}

func (d *DB) SaveReading(ctx context.Context, r *models.Reading) error {
	start := time.Now()
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	err := d.db.WithContext(ctx).Create(r).Error
	return finish("save_reading", start, err)
}

func (d *DB) SaveNotification(ctx context.Context, n *models.Notification) error {
	start := time.Now()
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	err := d.db.WithContext(ctx).Create(n).Error
	return finish("save_notification", start, err)
}

func (d *DB) UpsertSensorMetadata(ctx context.Context, sensorID, ipAddress, firmwareVersion string) error {
	start := time.Now()
	row := models.SensorMetadata{
		SensorID:        sensorID,
		LastSeen:        time.Now().UTC(),
		IPAddress:       ipAddress,
		FirmwareVersion: firmwareVersion,
	}
	// firmware_version is deliberately absent from the update list: it
	// is fixed at first contact.
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sensor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_seen", "ip_address"}),
	}).Create(&row).Error
	return finish("upsert_sensor_metadata", start, err)
}

func (d *DB) ReadingsByDate(ctx context.Context, date time.Time) ([]models.Reading, error) {
	start := time.Now()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	var readings []models.Reading
	err := d.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", day, next).
		Order("timestamp ASC").
		Find(&readings).Error
	if err := finish("readings_by_date", start, err); err != nil {
		return nil, err
	}
	return readings, nil
}

func (d *DB) RecentReadings(ctx context.Context, limit int) ([]models.Reading, error) {
	start := time.Now()
	var readings []models.Reading
	err := d.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&readings).Error
	if err := finish("recent_readings", start, err); err != nil {
		return nil, err
	}
	return readings, nil
}

func (d *DB) ActiveNotifications(ctx context.Context, window time.Duration) ([]models.Notification, error) {
	start := time.Now()
	cutoff := time.Now().UTC().Add(-window)

	var notifications []models.Notification
	err := d.db.WithContext(ctx).
		Where("timestamp > ?", cutoff).
		Order("timestamp DESC").
		Find(&notifications).Error
	if err := finish("active_notifications", start, err); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (d *DB) ListSensorMetadata(ctx context.Context) ([]models.SensorMetadata, error) {
	start := time.Now()
	var sensors []models.SensorMetadata
	err := d.db.WithContext(ctx).Find(&sensors).Error
	if err := finish("list_sensor_metadata", start, err); err != nil {
		return nil, err
	}
	return sensors, nil
}

func (d *DB) CountReadings(ctx context.Context) (int64, error) {
	return d.count(ctx, "count_readings", &models.Reading{})
}

func (d *DB) CountNotifications(ctx context.Context) (int64, error) {
	return d.count(ctx, "count_notifications", &models.Notification{})
}

func (d *DB) CountSensors(ctx context.Context) (int64, error) {
	return d.count(ctx, "count_sensors", &models.SensorMetadata{})
}

func (d *DB) count(ctx context.Context, op string, model interface{}) (int64, error) {
	start := time.Now()
	var n int64
	err := d.db.WithContext(ctx).Model(model).Count(&n).Error
	if err := finish(op, start, err); err != nil {
		return 0, err
	}
	return n, nil
}

// Transact runs fn inside a database transaction. The Store handed to
// fn shares the transaction; errors from fn roll everything back.
func (d *DB) Transact(ctx context.Context, fn func(Store) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DB{db: tx})
	})
}

func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
