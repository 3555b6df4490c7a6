/*
config.go - Process configuration

PURPOSE:
  Collects everything cmd/server needs to wire the directory: listen port,
  logging, initial scenario, export sink driver and notification bus.

SOURCES (later wins):
  1. Defaults
  2. YAML file (optional, -config flag)
  3. Environment, including a .env file in the working directory

SEE ALSO:
  - cmd/server/main.go: Consumes Config
  - sink/: Export sink drivers selected by Export.Sink
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/warp/employee-directory/export"
	"github.com/warp/employee-directory/sink"
	"github.com/warp/employee-directory/sink/s3"
)

type Config struct {
	Port     int    `yaml:"port"`
	Scenario string `yaml:"scenario"`
	Log      Log    `yaml:"log"`
	Export   Export `yaml:"export"`
	Kafka    Kafka  `yaml:"kafka"`
}

type Log struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Pretty bool   `yaml:"pretty"`
}

type Export struct {
	Sink        string    `yaml:"sink"`
	Legacy      bool      `yaml:"legacy_csv"`
	FSRoot      string    `yaml:"fs_root"`
	SQLitePath  string    `yaml:"sqlite_path"`
	PostgresDSN string    `yaml:"postgres_dsn"`
	S3          s3.Config `yaml:"s3"`

	// SnapshotInterval > 0 enables periodic full-directory snapshots.
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	SnapshotFormat   string        `yaml:"snapshot_format"`
}

// Kafka publishing is enabled when Brokers is non-empty.
type Kafka struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	ClientID string   `yaml:"client_id"`
}

func Default() Config {
	return Config{
		Port:     8080,
		Scenario: "sample",
		Log:      Log{Level: "info"},
		Export: Export{
			Sink:       string(sink.DriverMemory),
			FSRoot:     "./data/exports",
			SQLitePath: "./data/exports.db",

			SnapshotFormat: string(export.FormatCSV),
		},
		Kafka: Kafka{Topic: "directory.notifications", ClientID: "employee-directory"},
	}
}

// Load reads .env (if present), then path (if non-empty), then applies
// environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnvInt("DIRECTORY_PORT", cfg.Port)
	cfg.Scenario = getEnvString("DIRECTORY_SCENARIO", cfg.Scenario)
	cfg.Log.Level = getEnvString("DIRECTORY_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnvString("DIRECTORY_LOG_FILE", cfg.Log.File)
	cfg.Log.Pretty = getEnvBool("DIRECTORY_LOG_PRETTY", cfg.Log.Pretty)

	cfg.Export.Sink = getEnvString("EXPORT_SINK", cfg.Export.Sink)
	cfg.Export.Legacy = getEnvBool("EXPORT_LEGACY_CSV", cfg.Export.Legacy)
	cfg.Export.FSRoot = getEnvString("EXPORT_FS_ROOT", cfg.Export.FSRoot)
	cfg.Export.SQLitePath = getEnvString("EXPORT_SQLITE_PATH", cfg.Export.SQLitePath)
	cfg.Export.PostgresDSN = getEnvString("EXPORT_POSTGRES_DSN", cfg.Export.PostgresDSN)
	cfg.Export.S3.Bucket = getEnvString("EXPORT_S3_BUCKET", cfg.Export.S3.Bucket)
	cfg.Export.S3.Region = getEnvString("EXPORT_S3_REGION", cfg.Export.S3.Region)
	cfg.Export.S3.Endpoint = getEnvString("EXPORT_S3_ENDPOINT", cfg.Export.S3.Endpoint)
	cfg.Export.S3.AccessKeyID = getEnvString("EXPORT_S3_ACCESS_KEY_ID", cfg.Export.S3.AccessKeyID)
	cfg.Export.S3.SecretAccessKey = getEnvString("EXPORT_S3_SECRET_ACCESS_KEY", cfg.Export.S3.SecretAccessKey)
	cfg.Export.S3.PathStyle = getEnvBool("EXPORT_S3_PATH_STYLE", cfg.Export.S3.PathStyle)
	cfg.Export.SnapshotInterval = getEnvDuration("EXPORT_SNAPSHOT_INTERVAL", cfg.Export.SnapshotInterval)
	cfg.Export.SnapshotFormat = getEnvString("EXPORT_SNAPSHOT_FORMAT", cfg.Export.SnapshotFormat)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}
	cfg.Kafka.Topic = getEnvString("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.ClientID = getEnvString("KAFKA_CLIENT_ID", cfg.Kafka.ClientID)
}

// Validate rejects settings cmd/server cannot wire.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	driver, err := sink.ParseDriver(c.Export.Sink)
	if err != nil {
		return err
	}
	switch driver {
	case sink.DriverS3:
		if c.Export.S3.Bucket == "" {
			return errors.New("export sink s3 requires a bucket")
		}
	case sink.DriverPostgres:
		if c.Export.PostgresDSN == "" {
			return errors.New("export sink postgres requires a dsn")
		}
	}
	if c.Export.SnapshotInterval < 0 {
		return fmt.Errorf("invalid snapshot interval %s", c.Export.SnapshotInterval)
	}
	if _, err := export.ParseFormat(c.Export.SnapshotFormat); err != nil {
		return err
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("kafka topic required when brokers are set")
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
