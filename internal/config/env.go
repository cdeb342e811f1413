package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment overrides.
const (
	EnvAddr            = "LEDGERBOOK_ADDR"
	EnvLogLevel        = "LEDGERBOOK_LOG_LEVEL"
	EnvLogFormat       = "LEDGERBOOK_LOG_FORMAT"
	EnvSequenceBackend = "LEDGERBOOK_SEQUENCE_BACKEND"
	EnvRedisAddr       = "LEDGERBOOK_REDIS_ADDR"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

// ApplyEnv overrides cfg from LEDGERBOOK_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv(EnvSequenceBackend); v != "" {
		cfg.Vouchers.Sequence.Backend = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Vouchers.Sequence.RedisAddr = v
	}
}
