package config

import (
	"os"
	"regexp"
	"time"

	"github.com/pairtalk/pairtalk/pkg/helper"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// RelayConfig is the top-level configuration for the relay process
	RelayConfig struct {
		Port      int             `yaml:"port"`
		PID       string          `yaml:"pid"`
		WebSocket WebSocketConfig `yaml:"websocket"`
		Logger    LoggerConfig    `yaml:"logger"`
		Auth      AuthConfig      `yaml:"auth"`
		Storage   StorageConfig   `yaml:"storage"`
		Metrics   MetricsConfig   `yaml:"metrics"`
		Tracing   TracingConfig   `yaml:"tracing"`
	}

	// WebSocketConfig tunes the per-connection transport
	WebSocketConfig struct {
		ReadBufferSize  int           `yaml:"read_buffer_size"`
		WriteBufferSize int           `yaml:"write_buffer_size"`
		MaxMessageSize  int64         `yaml:"max_message_size"`
		SendQueueSize   int           `yaml:"send_queue_size"`
		WriteWait       time.Duration `yaml:"write_wait"`
		PongWait        time.Duration `yaml:"pong_wait"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`    // whether to compress backup files
		Color      bool   `yaml:"color"`       // whether to use color in console output
		Stacktrace bool   `yaml:"stacktrace"`  // whether to include stacktrace in error logs
		TimeZone   string `yaml:"time_zone"`   // time zone for log timestamps, e.g., "UTC"
		TimeFormat string `yaml:"time_format"` // time format for log timestamps
	}

	// AuthConfig defines how inbound connection credentials are validated
	AuthConfig struct {
		JWT JWTConfig `yaml:"jwt"`
	}

	// JWTConfig represents the JWT validation configuration
	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// StorageConfig selects the message store backend
	StorageConfig struct {
		Database DatabaseConfig `yaml:"database"`
	}

	// DatabaseConfig represents the database configuration
	DatabaseConfig struct {
		Type     string `yaml:"type"` // sqlite, mysql or postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		SSLMode  string `yaml:"sslmode"`
	}

	// MetricsConfig represents the Prometheus metrics configuration
	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	// TracingConfig represents the OpenTelemetry tracing configuration
	TracingConfig struct {
		Enabled     bool    `yaml:"enabled"`
		ServiceName string  `yaml:"service_name"`
		Endpoint    string  `yaml:"endpoint"` // e.g. localhost:4317 or http://localhost:4318
		Protocol    string  `yaml:"protocol"` // grpc or http
		Insecure    bool    `yaml:"insecure"`
		SamplerRate float64 `yaml:"sampler_rate"` // 0.0~1.0
		Environment string  `yaml:"environment"`
	}
)

// LoadConfig loads configuration from a YAML file with environment variable support
func LoadConfig(filename string) (*RelayConfig, string, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfgPath := helper.GetCfgPath(filename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, err
	}

	data = resolveEnv(data)
	var cfg RelayConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cfgPath, err
	}
	setDefaults(&cfg)

	return &cfg, cfgPath, nil
}

func setDefaults(cfg *RelayConfig) {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	ws := &cfg.WebSocket
	if ws.ReadBufferSize == 0 {
		ws.ReadBufferSize = 1024
	}
	if ws.WriteBufferSize == 0 {
		ws.WriteBufferSize = 1024
	}
	if ws.MaxMessageSize == 0 {
		ws.MaxMessageSize = 64 * 1024
	}
	if ws.SendQueueSize == 0 {
		ws.SendQueueSize = 256
	}
	if ws.WriteWait == 0 {
		ws.WriteWait = 10 * time.Second
	}
	if ws.PongWait == 0 {
		ws.PongWait = 60 * time.Second
	}
	if cfg.Auth.JWT.Duration == 0 {
		cfg.Auth.JWT.Duration = 24 * time.Hour
	}
}

// resolveEnv replaces environment variable placeholders in YAML content
func resolveEnv(content []byte) []byte {
	regex := regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

	return regex.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := regex.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string

		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}
