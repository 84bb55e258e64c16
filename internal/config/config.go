package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime settings. Each key is read as BOOKMARKS_<NAME> first,
// then as the bare <NAME> (DATABASE_URL, PORT, ...).
type Config struct {
	Env           string        `envconfig:"ENV" default:"development"`
	Port          string        `envconfig:"PORT" default:"8080"`
	DBDriver      string        `envconfig:"DB_DRIVER" default:"postgres"`
	DatabaseURL   string        `envconfig:"DATABASE_URL" default:"host=localhost user=postgres password=postgres dbname=sentry port=5432 sslmode=disable TimeZone=UTC"`
	DBLogLevel    string        `envconfig:"DB_LOG_LEVEL" default:"warn"`
	SessionSecret string        `envconfig:"SESSION_SECRET" default:"secret_key_change_me"`
	SessionName   string        `envconfig:"SESSION_NAME" default:"sentry_session"`
	CacheSize     int           `envconfig:"CACHE_SIZE" default:"500"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"1m"`
	SeedProject   string        `envconfig:"SEED_PROJECT" default:"internal"`
}

// IsDevelopment reports whether pretty console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// LoadDotEnv loads .env files with priority: .env.local > .env.
// godotenv.Load never overwrites variables that are already set, so the
// process environment always wins.
func LoadDotEnv() []string {
	candidates := []string{".env.local", ".env"}
	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("bookmarks", c); err != nil {
		return nil, err
	}
	return c, nil
}
