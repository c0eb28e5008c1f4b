package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	Backend     string
	BackendURL  string
	BackendKey  string
	DatabaseURL string
	HTTPTimeout time.Duration

	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	BrowserSecret []byte
	CookieSecure  bool

	KafkaBrokers []string

	DashboardErrors string
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "inventory-dashboard"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		Backend:     strings.ToLower(EnvDefault("BACKEND", BackendREST)),
		BackendURL:  strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		BackendKey:  os.Getenv("BACKEND_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPTimeout: EnvDurationDefault("HTTP_TIMEOUT", 0),

		SessionBackend: strings.ToLower(EnvDefault("SESSION_BACKEND", SessionMemory)),
		RedisAddr:      EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        EnvIntDefault("REDIS_DB", 0),

		BrowserSecret: []byte(os.Getenv("BROWSER_SECRET")),
		CookieSecure:  EnvBoolDefault("COOKIE_SECURE", false),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		DashboardErrors: strings.ToLower(EnvDefault("DASHBOARD_ERRORS", "silent")),
	}
}

// Validate terminates the process when a value required by the selected
// backends is missing.
func (c Config) Validate() {
	MustNonEmptyBytes(c.BrowserSecret, "BROWSER_SECRET")

	switch c.Backend {
	case BackendREST:
		MustNonEmpty(c.BackendURL, "BACKEND_URL")
		MustNonEmpty(c.BackendKey, "BACKEND_KEY")
	case BackendPostgres:
		MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	default:
		log.Fatalf("unknown BACKEND %q", c.Backend)
	}

	switch c.SessionBackend {
	case SessionMemory:
	case SessionRedis:
		MustNonEmpty(c.RedisAddr, "REDIS_ADDR")
	default:
		log.Fatalf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
