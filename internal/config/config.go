package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures all runtime configuration for the console toolkit.
type Config struct {
	App    AppConfig
	Kafka  KafkaConfig
	Browse BrowseConfig
	Query  QueryConfig
}

// AppConfig contains generic application level settings.
type AppConfig struct {
	Env      string
	LogLevel string
}

// KafkaConfig defines broker connection information.
type KafkaConfig struct {
	Brokers []string
}

// BrowseConfig tunes the bounded message browse.
type BrowseConfig struct {
	Limit          int
	DrainTimeoutMs int
}

// QueryConfig tunes the query pipeline.
type QueryConfig struct {
	Concurrency int
	BeanDomain  string
	ViewKeys    []string
	ViewGroups  []string
}

// Load reads environment variables, applies defaults, validates required
// values and returns a populated Config instance.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ldr := &envLoader{}

	cfg := &Config{}
	cfg.App.Env = ldr.getString("APP_ENV", "development", false)
	cfg.App.LogLevel = ldr.getString("LOG_LEVEL", "info", false)

	cfg.Kafka.Brokers = ldr.getStringSlice("KAFKA_BROKERS", true)

	cfg.Browse.Limit = ldr.getInt("BROWSE_LIMIT", 100, false)
	cfg.Browse.DrainTimeoutMs = ldr.getInt("BROWSE_DRAIN_TIMEOUT_MS", 3000, false)

	cfg.Query.Concurrency = ldr.getInt("QUERY_CONCURRENCY", 1, false)
	cfg.Query.BeanDomain = ldr.getString("QUERY_BEAN_DOMAIN", "kafka", false)
	cfg.Query.ViewKeys = ldr.getStringSlice("QUERY_VIEW_KEYS", false)
	cfg.Query.ViewGroups = ldr.getStringSlice("QUERY_VIEW_GROUPS", false)

	if cfg.Browse.Limit < 1 {
		ldr.addError("BROWSE_LIMIT must be >= 1")
	}
	if cfg.Browse.DrainTimeoutMs < 1 {
		ldr.addError("BROWSE_DRAIN_TIMEOUT_MS must be >= 1")
	}
	if cfg.Query.Concurrency < 1 {
		ldr.addError("QUERY_CONCURRENCY must be >= 1")
	}

	if err := ldr.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type envLoader struct {
	errs []string
}

func (l *envLoader) validate() error {
	if len(l.errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(l.errs, "; "))
}

func (l *envLoader) getString(key, def string, required bool) string {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		return val
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getInt(key string, def int, required bool) int {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.TrimSpace(val)
		if val == "" {
			if required {
				l.addError(fmt.Sprintf("%s is required", key))
			}
			return def
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			l.addError(fmt.Sprintf("%s must be a valid integer", key))
			return def
		}
		return i
	}
	if required {
		l.addError(fmt.Sprintf("%s is required", key))
	}
	return def
}

func (l *envLoader) getStringSlice(key string, required bool) []string {
	raw := l.getString(key, "", required)
	if raw == "" {
		if required {
			return nil
		}
		return []string{}
	}
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if required && len(out) == 0 {
		l.addError(fmt.Sprintf("%s must contain at least one entry", key))
	}
	return out
}

func (l *envLoader) addError(err string) {
	l.errs = append(l.errs, err)
}
