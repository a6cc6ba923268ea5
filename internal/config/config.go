// Package config loads Liquifier settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned for missing or malformed settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Node sources.
const (
	SourceLncli  = "lncli"
	SourceSQLite = "sqlite"
)

const defaultSnapshotDBPath = "./data/snapshot.db"

type Config struct {
	// Payout configuration
	MaximumPaymentAmount int64

	// Node source: "lncli" or "sqlite"
	NodeSource string

	// lncli configuration
	LncliPath    string
	RPCServer    string
	Network      string
	TLSCertPath  string
	MacaroonPath string
	MaxInvoices  int

	// Snapshot database for the sqlite source and the import command
	SnapshotDBPath string

	// Location used to turn calendar dates into Unix seconds
	Location *time.Location

	// Server configuration
	ListenAddr           string
	JWTSecret            string
	OperatorPasswordHash string
	TokenTTL             time.Duration

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads the given .env files (default ".env") if they exist, then
// builds the configuration from the environment. Variables already set in the
// environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	maxPayment, err := requiredPositiveInt64("MAXIMUM_PAYMENT_AMOUNT")
	if err != nil {
		return nil, err
	}

	loc, err := location(getEnv("TIMEZONE", ""))
	if err != nil {
		return nil, err
	}

	tokenTTL, err := getDurationEnv("TOKEN_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}

	maxInvoices, err := getIntEnv("LNCLI_MAX_INVOICES", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MaximumPaymentAmount: maxPayment,
		NodeSource:           strings.ToLower(getEnv("NODE_SOURCE", SourceLncli)),
		LncliPath:            getEnv("LNCLI_PATH", "lncli"),
		RPCServer:            getEnv("LND_RPC_SERVER", ""),
		Network:              getEnv("LND_NETWORK", ""),
		TLSCertPath:          getEnv("TLS_CERT_PATH", ""),
		MacaroonPath:         getEnv("MACAROON_PATH", ""),
		MaxInvoices:          maxInvoices,
		SnapshotDBPath:       getEnv("SNAPSHOT_DB_PATH", defaultSnapshotDBPath),
		Location:             loc,
		ListenAddr:           getEnv("LISTEN_ADDR", ":8080"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
		TokenTTL:             tokenTTL,
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFile:              getEnv("LOG_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SnapshotDBPath reads only SNAPSHOT_DB_PATH, for commands that write the
// snapshot without running a reconciliation.
func SnapshotDBPath(envFiles ...string) (string, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return "", err
	}
	return getEnv("SNAPSHOT_DB_PATH", defaultSnapshotDBPath), nil
}

func loadEnvFiles(envFiles []string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Validate checks settings that do not depend on a single variable.
func (c *Config) Validate() error {
	if c.MaximumPaymentAmount <= 0 {
		return fmt.Errorf("%w: MAXIMUM_PAYMENT_AMOUNT must be a positive integer, got %d", ErrInvalidConfig, c.MaximumPaymentAmount)
	}
	switch c.NodeSource {
	case SourceLncli, SourceSQLite:
	default:
		return fmt.Errorf("%w: NODE_SOURCE must be %q or %q, got %q", ErrInvalidConfig, SourceLncli, SourceSQLite, c.NodeSource)
	}
	if c.MaxInvoices < 0 {
		return fmt.Errorf("%w: LNCLI_MAX_INVOICES cannot be negative", ErrInvalidConfig)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: TOKEN_TTL must be positive", ErrInvalidConfig)
	}
	return nil
}

// AuthEnabled reports whether the server should require bearer tokens.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func requiredPositiveInt64(key string) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidConfig, key)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidConfig, key, raw)
	}
	return n, nil
}

func location(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: TIMEZONE %q: %v", ErrInvalidConfig, name, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidConfig, key, value)
	}
	return n, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a duration, got %q", ErrInvalidConfig, key, value)
	}
	return d, nil
}
