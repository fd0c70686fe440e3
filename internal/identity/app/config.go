package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/arliden/identity/pkg/httpx"
	"github.com/arliden/identity/pkg/jwtx"
)

type Config struct {
	Issuer   string   // Required: issuer claim for tokens
	Audience []string // Required: accepted audience values (space-delimited env)

	Algorithm            string        // Optional: signing algorithm (HS256, EdDSA) (default: EdDSA)
	KeyID                string        // Optional: key identifier published in token headers (default: "primary")
	SecretKey            string        // HS256 only: shared secret, minimum 32 bytes
	PrivateKeyFile       string        // EdDSA only: path to PEM-encoded Ed25519 private key
	PrivateKeyPassphrase string        // Optional: passphrase when the key file is encrypted
	AccessTTL            time.Duration // Access token lifetime (default: 15m)
	RefreshTTL           time.Duration // Refresh token lifetime (default: 168h)
	DevInsecure          bool          // Dev only: generate an ephemeral keypair instead of loading material

	DatabaseFile         string        // Path to SQLite database file (default: ./identity.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:   os.Getenv("AUTH_ISSUER"),
		Audience: httpx.ParseSpaceDelimitedFields(os.Getenv("AUTH_AUDIENCE")),

		Algorithm:            getEnvOrDefault("AUTH_ALGORITHM", jwtx.AlgEdDSA),
		KeyID:                getEnvOrDefault("AUTH_KEY_ID", "primary"),
		SecretKey:            os.Getenv("AUTH_SECRET_KEY"),
		PrivateKeyFile:       os.Getenv("AUTH_PRIVATE_KEY_FILE"),
		PrivateKeyPassphrase: os.Getenv("AUTH_PRIVATE_KEY_PASSPHRASE"),
		AccessTTL:            getEnvDurationOrDefault("AUTH_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:           getEnvDurationOrDefault("AUTH_REFRESH_TTL", 168*time.Hour),
		DevInsecure:          getEnvBoolOrDefault("AUTH_DEV_INSECURE", false),

		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "identity.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate rejects configurations that cannot produce a working service.
// There are no silent fallbacks for key material: either real material is
// configured or AUTH_DEV_INSECURE is set explicitly.
func (cfg Config) Validate() error {
	if cfg.Issuer == "" {
		return errors.New("AUTH_ISSUER is required")
	}
	if len(cfg.Audience) == 0 {
		return errors.New("AUTH_AUDIENCE is required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}

	switch cfg.Algorithm {
	case jwtx.AlgHS256:
		if cfg.SecretKey == "" && !cfg.DevInsecure {
			return errors.New("AUTH_SECRET_KEY is required for HS256")
		}
	case jwtx.AlgEdDSA:
		if cfg.PrivateKeyFile == "" && !cfg.DevInsecure {
			return errors.New("AUTH_PRIVATE_KEY_FILE is required for EdDSA (or set AUTH_DEV_INSECURE=true)")
		}
	default:
		return fmt.Errorf("unsupported algorithm %q", cfg.Algorithm)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
