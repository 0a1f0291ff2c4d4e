package healthenc

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Config carries the edge client settings.
type Config struct {
	ServerURL     string        // base URL of the aggregation server
	SensorID      string        // sent as sensor_id, omitted when empty
	UploadTimeout time.Duration // per request, key fetch and each upload
	Workers       int           // concurrent encryptions and uploads
	LogLevel      slog.Level
}

func DefaultConfig() Config {
	return Config{
		ServerURL:     "http://127.0.0.1:5000",
		SensorID:      "console-manual",
		UploadTimeout: 3 * time.Second,
		Workers:       3,
		LogLevel:      slog.LevelInfo,
	}
}

// LoadConfig reads SERVER_URL, SENSOR_ID, UPLOAD_TIMEOUT, WORKERS and
// LOG_LEVEL through getenv (usually os.Getenv). Unset variables keep their
// defaults.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	if v := getenv("SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := getenv("SENSOR_ID"); v != "" {
		cfg.SensorID = v
	}
	if v := getenv("UPLOAD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("UPLOAD_TIMEOUT: invalid duration %q", v)
		}
		cfg.UploadTimeout = d
	}
	if v := getenv("WORKERS"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil || w < 1 {
			return cfg, fmt.Errorf("WORKERS: invalid count %q", v)
		}
		cfg.Workers = w
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	return cfg, nil
}

func (c Config) PubKeyURL() string {
	return strings.TrimRight(c.ServerURL, "/") + "/pubkey"
}

func (c Config) UploadURL() string {
	return strings.TrimRight(c.ServerURL, "/") + "/upload"
}
