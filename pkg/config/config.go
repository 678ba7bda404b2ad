package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPaths are tried in order; the first .env found is loaded.
var EnvPaths = []string{".env", "../.env", "../../.env"}

type Config struct {
	Port        string
	GinMode     string
	DatabaseURL string
	DataPath    string
	LogLevel    string

	JWTSecret       string
	APIMasterSecret string

	AdminUsername string
	AdminPassword string
}

// LoadDotEnv loads the first existing file of EnvPaths. Variables already
// set in the environment win.
func LoadDotEnv() {
	for _, p := range EnvPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads .env and then the environment.
func Load() (Config, error) {
	LoadDotEnv()
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:            envDefault("PORT", "8000"),
		GinMode:         strings.TrimSpace(os.Getenv("GIN_MODE")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DataPath:        strings.TrimSpace(os.Getenv("DATA_PATH")),
		LogLevel:        envDefault("LOG_LEVEL", "info"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		APIMasterSecret: os.Getenv("API_MASTER_SECRET"),
		AdminUsername:   envDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:   envDefault("ADMIN_PASSWORD", "admin123"),
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", cfg.Port)
	}

	return cfg, nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}
