package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Mail        MailConfig
	Outbox      OutboxConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type MongoConfig struct {
	URI         string
	Database    string
	MaxPoolSize int
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	SessionTTL time.Duration
}

type MailConfig struct {
	MailgunDomain string
	MailgunAPIKey string
	From          string
	LinkBase      string
	TokenTTL      time.Duration
}

type OutboxConfig struct {
	Path         string
	SyncInterval time.Duration
	MaxRetry     int
	Retention    time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "focusflow-backend"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Mongo: MongoConfig{
			URI:         getString("MONGO_URI", "mongodb://localhost:27017"),
			Database:    getString("MONGO_DATABASE", "focusflow"),
			MaxPoolSize: getInt("MONGO_MAX_POOL_SIZE", 25),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     os.Getenv("JWT_SECRET"),
			Issuer:     getString("JWT_ISSUER", "focusflow-backend"),
			SessionTTL: getDuration("SESSION_TTL", 24*time.Hour),
		},
		Mail: MailConfig{
			MailgunDomain: os.Getenv("MAILGUN_DOMAIN"),
			MailgunAPIKey: os.Getenv("MAILGUN_API_KEY"),
			From:          getString("MAIL_FROM", "Focus Flow <no-reply@focusflow.dev>"),
			LinkBase:      getString("MAIL_LINK_BASE", "http://localhost:8080"),
			TokenTTL:      getDuration("ACCOUNT_TOKEN_TTL", 24*time.Hour),
		},
		Outbox: OutboxConfig{
			Path:         getString("OUTBOX_PATH", "./data/outbox.db"),
			SyncInterval: getDuration("OUTBOX_SYNC_INTERVAL", 30*time.Second),
			MaxRetry:     getInt("OUTBOX_MAX_RETRY", 3),
			Retention:    getDuration("OUTBOX_RETENTION", 24*time.Hour),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
