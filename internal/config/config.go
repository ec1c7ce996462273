package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the server. It is loaded once
// at process start and passed down explicitly; nothing reads the
// environment after Load returns.
type Config struct {
	// HTTPAddr is the listen address for the API server.
	HTTPAddr string
	// LogLevel is the zerolog level name.
	LogLevel string

	Database DatabaseConfig
	Alerting AlertingConfig
	Kafka    KafkaConfig
}

// DatabaseConfig holds the MySQL connection parameters.
type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int

	// Pool sizing for the shared connection pool.
	MaxOpenConns int
	MaxIdleConns int
}

// DSN renders the go-sql-driver DSN for this configuration.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// AlertingConfig holds the alert evaluation parameters.
type AlertingConfig struct {
	// GasThreshold is the fixed alert threshold: readings strictly
	// above it produce a notification.
	GasThreshold float64
	// NotificationWindow is the trailing window for "active"
	// notifications on the query endpoint.
	NotificationWindow time.Duration
	// RecentLimit bounds the recent-readings query.
	RecentLimit int
}

// KafkaConfig holds the optional alert fan-out settings. An empty
// broker list disables publishing entirely.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("MYSQL_HOST", "localhost")
	v.SetDefault("MYSQL_USER", "root")
	v.SetDefault("MYSQL_PASSWORD", "")
	v.SetDefault("MYSQL_DATABASE", "gas_monitoring")
	v.SetDefault("MYSQL_PORT", 3306)
	v.SetDefault("MYSQL_MAX_OPEN_CONNS", 10)
	v.SetDefault("MYSQL_MAX_IDLE_CONNS", 5)

	v.SetDefault("GAS_ALERT_THRESHOLD", 100.0)
	v.SetDefault("NOTIFICATION_WINDOW", "24h")
	v.SetDefault("RECENT_READINGS_LIMIT", 100)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_ALERT_TOPIC", "gas-alerts")

	return &Config{
		HTTPAddr: v.GetString("HTTP_ADDR"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Database: DatabaseConfig{
			Host:         v.GetString("MYSQL_HOST"),
			User:         v.GetString("MYSQL_USER"),
			Password:     v.GetString("MYSQL_PASSWORD"),
			Name:         v.GetString("MYSQL_DATABASE"),
			Port:         v.GetInt("MYSQL_PORT"),
			MaxOpenConns: v.GetInt("MYSQL_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("MYSQL_MAX_IDLE_CONNS"),
		},
		Alerting: AlertingConfig{
			GasThreshold:       v.GetFloat64("GAS_ALERT_THRESHOLD"),
			NotificationWindow: v.GetDuration("NOTIFICATION_WINDOW"),
			RecentLimit:        v.GetInt("RECENT_READINGS_LIMIT"),
		},
		Kafka: KafkaConfig{
			Brokers: splitBrokers(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_ALERT_TOPIC"),
		},
	}
}

func splitBrokers(csv string) []string {
	var brokers []string
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
