// Package config loads process configuration from the environment, optionally
// seeded from a .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const DefaultAPIBaseURL = "https://kkh7ikcgy6jm.manus.space/api"

type Config struct {
	APIBaseURL     string
	APITimeout     time.Duration // zero means no client-side timeout
	WebAddr        string
	MobileAddr     string
	DevAPIAddr     string
	SessionSecret  string
	JWTSecret      string
	SessionIdleTTL time.Duration
	DevAPIDriver   string
	DevAPIDSN      string
}

// Load reads the .env files (if any) and then the environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		APIBaseURL:    strings.TrimRight(getenv("API_BASE_URL", DefaultAPIBaseURL), "/"),
		WebAddr:       addr(getenv("WEB_ADDR", os.Getenv("PORT")), ":8080"),
		MobileAddr:    addr(os.Getenv("MOBILE_ADDR"), ":8081"),
		DevAPIAddr:    addr(os.Getenv("DEVAPI_ADDR"), ":8090"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		DevAPIDriver:  getenv("DEVAPI_DRIVER", "sqlite"),
		DevAPIDSN:     os.Getenv("DEVAPI_DSN"),
	}

	var err error
	if cfg.APITimeout, err = duration("API_TIMEOUT", 0); err != nil {
		return Config{}, err
	}
	if cfg.SessionIdleTTL, err = duration("SESSION_IDLE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}

	if cfg.SessionSecret == "" {
		log.Warn("SESSION_SECRET not set; using a per-process secret, sessions will not survive restarts")
		cfg.SessionSecret = randomSecret()
	}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set; using a per-process secret, mobile tokens will not survive restarts")
		cfg.JWTSecret = randomSecret()
	}

	switch cfg.DevAPIDriver {
	case "sqlite":
		if cfg.DevAPIDSN == "" {
			cfg.DevAPIDSN = "./khadamni-dev.db"
		}
	case "postgres":
		if cfg.DevAPIDSN == "" {
			cfg.DevAPIDSN = fmt.Sprintf(
				"postgres://%s:%s@%s:%s/%s",
				os.Getenv("DB_USER"),
				os.Getenv("DB_PASSWORD"),
				os.Getenv("DB_HOST"),
				os.Getenv("DB_PORT"),
				os.Getenv("DB_NAME"),
			)
		}
	default:
		return Config{}, fmt.Errorf("DEVAPI_DRIVER must be sqlite or postgres, got %q", cfg.DevAPIDriver)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// addr accepts either "8080" or ":8080".
func addr(v, def string) string {
	if v == "" {
		return def
	}
	if !strings.Contains(v, ":") {
		return ":" + v
	}
	return v
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
