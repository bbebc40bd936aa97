package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Container ContainerConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	Port  string
}

type LogConfig struct {
	Level    string // debug | info | warn | error
	Encoding string // json | console
}

type ContainerConfig struct {
	// FactoryMethod is called on factory classes registered without a method.
	FactoryMethod string
	// Inspect mounts the /services diagnostics routes. Off in production
	// unless CONTAINER_INSPECT is set.
	Inspect bool
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	appEnv := env("APP_ENV", "local")
	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoContainer"),
			Env:   appEnv,
			Debug: envBool("APP_DEBUG", appEnv != "production"),
			Port:  env("APP_PORT", "8000"),
		},
		Log: LogConfig{
			Level:    strings.ToLower(env("LOG_LEVEL", "info")),
			Encoding: env("LOG_ENCODING", "json"),
		},
		Container: ContainerConfig{
			FactoryMethod: env("CONTAINER_FACTORY_METHOD", "Create"),
			Inspect:       envBool("CONTAINER_INSPECT", appEnv != "production"),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
