package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds every knob the binaries read from the environment.
type Config struct {
	Env          string
	Port         string
	LogLevel     string
	StoreBackend string
	// Empty means the embedded seed guides.
	SeedPath string
	Location *time.Location
	// 32-byte gorilla/csrf key; nil disables CSRF protection.
	CSRFKey []byte
	// True when CSRFKey was generated at startup instead of configured.
	CSRFKeyEphemeral bool
}

func (c Config) Production() bool { return c.Env == "production" }

// LoadDotEnv reads .env into the process environment if present.
// A missing file is reported through the returned bool, not as an error.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Env:          strings.ToLower(Get("APP_ENV", "development")),
		Port:         Get("PORT", "8080"),
		LogLevel:     Get("LOG_LEVEL", ""),
		StoreBackend: strings.ToLower(Get("STORE_BACKEND", StoreMemory)),
		SeedPath:     Get("SEED_PATH", ""),
	}

	if cfg.StoreBackend != StoreMemory && cfg.StoreBackend != StoreSQLite {
		return Config{}, fmt.Errorf("config: STORE_BACKEND must be %q or %q, got %q", StoreMemory, StoreSQLite, cfg.StoreBackend)
	}

	tz := Get("TIMEZONE", "America/Bogota")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("config: load timezone %q: %w", tz, err)
	}
	cfg.Location = loc

	key, ephemeral, err := csrfKey(Get("CSRF_KEY", ""), cfg.Production())
	if err != nil {
		return Config{}, err
	}
	cfg.CSRFKey = key
	cfg.CSRFKeyEphemeral = ephemeral

	return cfg, nil
}

// csrfKey decodes a hex key, or generates one per start outside production.
func csrfKey(keyHex string, production bool) ([]byte, bool, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, false, errors.New("config: CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key, false, nil
	}
	if production {
		return nil, false, errors.New("config: CSRF_KEY is required in production")
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("config: generate CSRF key: %w", err)
	}
	return key, true, nil
}
