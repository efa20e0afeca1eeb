package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"refind/money"
)

// ConfigPath is read when Load is given an empty path.
const ConfigPath = "config.yaml"

// EventsConfig selects where the outbox relay publishes.
type EventsConfig struct {
	Driver        string        `yaml:"driver"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisStream   string        `yaml:"redisStream"`
	RedisMaxLen   int64         `yaml:"redisMaxLen"`
	AMQPURL       string        `yaml:"amqpURL"`
	AMQPExchange  string        `yaml:"amqpExchange"`
	RelayInterval time.Duration `yaml:"relayInterval"`
	RelayBatch    int           `yaml:"relayBatch"`
	MaxAttempts   int           `yaml:"maxAttempts"`
}

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port               string        `yaml:"port"`
	LogLevel           string        `yaml:"logLevel"`
	DatabaseURL        string        `yaml:"databaseURL"`
	MaxConns           int32         `yaml:"maxConns"`
	LockTimeout        time.Duration `yaml:"lockTimeout"`
	JWTSecret          string        `yaml:"jwtSecret"`
	TokenTTL           time.Duration `yaml:"tokenTTL"`
	TaxRateBasisPoints int64         `yaml:"taxRateBasisPoints"`
	ShippingCents      int64         `yaml:"shippingCents"`
	ShutdownTimeout    time.Duration `yaml:"shutdownTimeout"`
	Events             EventsConfig  `yaml:"events"`
}

const (
	DriverNone  = "none"
	DriverRedis = "redis"
	DriverAMQP  = "amqp"
)

func defaults() FileConfig {
	return FileConfig{
		Port:               "8080",
		LogLevel:           "info",
		MaxConns:           10,
		LockTimeout:        5 * time.Second,
		TokenTTL:           24 * time.Hour,
		TaxRateBasisPoints: 800,
		ShippingCents:      999,
		ShutdownTimeout:    10 * time.Second,
		Events: EventsConfig{
			Driver:        DriverNone,
			RedisStream:   "refind:events",
			AMQPExchange:  "refind.events",
			RelayInterval: time.Second,
			RelayBatch:    50,
			MaxAttempts:   10,
		},
	}
}

// Load reads config from path (defaults to config.yaml). A .env file in the
// working directory is loaded first when present. Environment variables
// override file values.
func Load(path string) (FileConfig, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && os.Getenv("REFIND_CONFIG_OPTIONAL") == "true":
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *FileConfig) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("REFIND_TAX_BPS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: REFIND_TAX_BPS: %w", err)
		}
		cfg.TaxRateBasisPoints = n
	}
	if v := os.Getenv("REFIND_SHIPPING_CENTS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: REFIND_SHIPPING_CENTS: %w", err)
		}
		cfg.ShippingCents = n
	}
	if v := os.Getenv("REFIND_LOCK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: REFIND_LOCK_TIMEOUT: %w", err)
		}
		cfg.LockTimeout = d
	}
	if v := os.Getenv("EVENTS_DRIVER"); v != "" {
		cfg.Events.Driver = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Events.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Events.RedisPassword = v
	}
	if v := os.Getenv("AMQP_URL"); v != "" {
		cfg.Events.AMQPURL = v
	}
	return nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml or PORT)")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
	}
	if cfg.JWTSecret == "" {
		return errors.New("config: jwtSecret is required (set in config.yaml or JWT_SECRET)")
	}
	if cfg.MaxConns <= 0 {
		return errors.New("config: maxConns must be > 0")
	}
	if cfg.TokenTTL <= 0 {
		return errors.New("config: tokenTTL must be > 0")
	}
	if cfg.TaxRateBasisPoints < 0 || cfg.TaxRateBasisPoints > 10_000 {
		return errors.New("config: taxRateBasisPoints must be between 0 and 10000")
	}
	if cfg.ShippingCents < 0 || cfg.ShippingCents > int64(money.MaxCents) {
		return fmt.Errorf("config: shippingCents must be between 0 and %d", money.MaxCents)
	}
	switch cfg.Events.Driver {
	case DriverNone, "":
	case DriverRedis:
		if cfg.Events.RedisAddr == "" {
			return errors.New("config: events.redisAddr is required when events.driver is redis")
		}
	case DriverAMQP:
		if cfg.Events.AMQPURL == "" {
			return errors.New("config: events.amqpURL is required when events.driver is amqp")
		}
	default:
		return fmt.Errorf("config: events.driver %q is not one of none, redis, amqp", cfg.Events.Driver)
	}
	if cfg.Events.RelayBatch <= 0 {
		return errors.New("config: events.relayBatch must be > 0")
	}
	if cfg.Events.RelayInterval <= 0 {
		return errors.New("config: events.relayInterval must be > 0")
	}
	if cfg.Events.MaxAttempts <= 0 {
		return errors.New("config: events.maxAttempts must be > 0")
	}
	return nil
}
