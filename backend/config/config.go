package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	DatabasePath string
	LogLevel     string
	LogDev       bool
	SeedDemo     bool
}

// FromEnv reads configuration from environment variables. A .env file
// is loaded first if present; real environment variables win.
func FromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:         getenv("ADDR", ":8080"),
		DatabasePath: getenv("DATABASE_PATH", "socialstream.db"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogDev:       os.Getenv("LOG_DEV") == "1",
		SeedDemo:     os.Getenv("SEED_DEMO") == "1",
	}
	if cfg.LogLevel == "" {
		if cfg.LogDev {
			cfg.LogLevel = "debug"
		} else {
			cfg.LogLevel = "info"
		}
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
