package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/nikkune/paymybuddy/internal/common/constants"
	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"
	"github.com/nikkune/paymybuddy/internal/common/money"
)

type Config struct {
	HTTPPort       string
	DatabaseURL    string
	SessionSecret  string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	DBPoolMaxConns int32
	InitialBalance money.Amount
	CORSOrigin     string
}

func Load() (Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	sessionSecret, err := mustEnv("SESSION_SECRET")
	if err != nil {
		return Config{}, err
	}
	if len(sessionSecret) < constants.SessionSecretMinLength {
		return Config{}, commonerrors.ErrInvalidSessionSecret.WithMessagef(
			"SESSION_SECRET must be at least %d bytes, got %d",
			constants.SessionSecretMinLength, len(sessionSecret),
		)
	}

	initialBalance, err := money.Parse(getEnv("INITIAL_BALANCE", constants.DefaultInitialBalance))
	if err != nil {
		return Config{}, fmt.Errorf("invalid INITIAL_BALANCE: %w", err)
	}
	if initialBalance.IsNegative() {
		return Config{}, fmt.Errorf("INITIAL_BALANCE must not be negative")
	}

	return Config{
		HTTPPort:       getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		SessionSecret:  sessionSecret,
		SessionTTL:     getDurationEnv("SESSION_TTL", constants.DefaultSessionTTL),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		DBPoolMaxConns: int32(getIntEnv("DB_POOL_MAX_CONNS", constants.DBPoolMaxOpenConns)),
		InitialBalance: initialBalance,
		CORSOrigin:     getEnv("CORS_ORIGIN", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithMessagef(
			"missing required environment variable: %s", key,
		)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
