package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Poller   PollerConfig
	Asaas    AsaasConfig
	WAPI     WAPIConfig
}

type ServerConfig struct {
	Address string
}

type DatabaseConfig struct {
	PostgresURL string
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type PollerConfig struct {
	Interval time.Duration
}

type AsaasConfig struct {
	SandboxURL    string
	ProductionURL string
	Timeout       time.Duration
}

type WAPIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	QRMinInterval time.Duration
}

func LoadAll() (*Config, error) {
	var errs []error

	pgURL, err := requireEnv("POSTGRES_URL")
	errs = appendErr(errs, err)

	pollSeconds, err := getEnvInt("POLL_INTERVAL_SECONDS", 15)
	errs = appendErr(errs, err)

	timeoutSeconds, err := getEnvInt("HTTP_TIMEOUT_SECONDS", 10)
	errs = appendErr(errs, err)

	qrSeconds, err := getEnvInt("QR_MIN_INTERVAL_SECONDS", 5)
	errs = appendErr(errs, err)

	redisCfg, err := loadRedisConfig()
	errs = appendErr(errs, err)

	timeout := time.Duration(timeoutSeconds) * time.Second

	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Database: DatabaseConfig{
			PostgresURL: pgURL,
		},
		Redis: redisCfg,
		Poller: PollerConfig{
			Interval: time.Duration(pollSeconds) * time.Second,
		},
		Asaas: AsaasConfig{
			SandboxURL:    getEnv("ASAAS_SANDBOX_URL", "https://sandbox.asaas.com/api/v3"),
			ProductionURL: getEnv("ASAAS_PRODUCTION_URL", "https://api.asaas.com/v3"),
			Timeout:       timeout,
		},
		WAPI: WAPIConfig{
			BaseURL:       getEnv("WAPI_BASE_URL", "https://api.w-api.app/v1"),
			Timeout:       timeout,
			QRMinInterval: time.Duration(qrSeconds) * time.Second,
		},
	}

	if len(errs) == 0 {
		errs = append(errs, validate(cfg)...)
	}

	if err := joinErrors(errs); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadRedisConfig() (RedisConfig, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}, nil
	}

	var errs []error
	db, err := getEnvInt("REDIS_DB", 0)
	errs = appendErr(errs, err)
	ttl, err := getEnvInt("REDIS_TTL_SECONDS", 60)
	errs = appendErr(errs, err)

	return RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		TTL:      time.Duration(ttl) * time.Second,
	}, joinErrors(errs)
}

func validate(cfg *Config) []error {
	var errs []error
	if cfg.Poller.Interval <= 0 {
		errs = append(errs, errors.New("POLL_INTERVAL_SECONDS must be > 0"))
	}
	if cfg.Asaas.Timeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT_SECONDS must be > 0"))
	}
	if cfg.WAPI.QRMinInterval < 0 {
		errs = append(errs, errors.New("QR_MIN_INTERVAL_SECONDS must be >= 0"))
	}
	if cfg.Redis.Enabled && cfg.Redis.TTL <= 0 {
		errs = append(errs, errors.New("REDIS_TTL_SECONDS must be > 0"))
	}
	return errs
}

func requireEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return val, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid int for env %s: %q", key, v)
	}
	return i, nil
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
