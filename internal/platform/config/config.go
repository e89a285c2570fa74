package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config agrupa toda la configuración del servicio (API + worker + scheduler).
type Config struct {
	Addr string

	AppName   string
	LogLevel  string
	LogFormat string
	Location  *time.Location

	// Vacío => storage in-memory.
	DatabaseDSN string
	// Vacío => broker in-memory (un solo proceso).
	RedisURL string

	WebhookURL     string
	WebhookTimeout time.Duration
	WebhookRPS     float64

	KafkaBrokers []string
	KafkaTopic   string

	// Hora diaria del barrido (en Location).
	SweepHour   int
	SweepMinute int

	WorkerConcurrency int
	ExpiringSoonDays  int

	// Valores inválidos que cayeron a default.
	Warnings []string
}

const (
	DefaultAddr              = ":8080"
	DefaultAppName           = "pet-vaccinations"
	DefaultSweepAt           = "09:00"
	DefaultKafkaTopic        = "vaccination.expired"
	DefaultWebhookTimeout    = 5 * time.Second
	DefaultWebhookRPS        = 5.0
	DefaultWorkerConcurrency = 4
	DefaultExpiringSoonDays  = 30
)

// FromEnv construye Config desde variables de entorno para que main quede liviano.
func FromEnv() Config {
	return FromLookup(os.LookupEnv)
}

// FromLookup permite inyectar el lookup (tests).
func FromLookup(lookup func(string) (string, bool)) Config {
	get := func(k string) string {
		v, _ := lookup(k)
		return strings.TrimSpace(v)
	}

	c := Config{
		Addr:              DefaultAddr,
		AppName:           DefaultAppName,
		LogLevel:          get("LOG_LEVEL"),
		LogFormat:         get("LOG_FORMAT"),
		Location:          time.UTC,
		DatabaseDSN:       get("DB_DSN"),
		RedisURL:          get("REDIS_URL"),
		WebhookURL:        get("VACCINATION_WEBHOOK_URL"),
		WebhookTimeout:    DefaultWebhookTimeout,
		WebhookRPS:        DefaultWebhookRPS,
		KafkaTopic:        DefaultKafkaTopic,
		WorkerConcurrency: DefaultWorkerConcurrency,
		ExpiringSoonDays:  DefaultExpiringSoonDays,
	}

	if v := get("PORT"); v != "" {
		c.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := get("APP_NAME"); v != "" {
		c.AppName = v
	}
	if v := get("APP_TIMEZONE"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			c.warn("APP_TIMEZONE", v)
		} else {
			c.Location = loc
		}
	}
	if v := get("WEBHOOK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			c.warn("WEBHOOK_TIMEOUT", v)
		} else {
			c.WebhookTimeout = d
		}
	}
	if v := get("WEBHOOK_RATE_PER_SEC"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			c.warn("WEBHOOK_RATE_PER_SEC", v)
		} else {
			c.WebhookRPS = f
		}
	}
	if v := get("KAFKA_BROKERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.KafkaBrokers = append(c.KafkaBrokers, b)
			}
		}
	}
	if v := get("KAFKA_TOPIC"); v != "" {
		c.KafkaTopic = v
	}

	sweepAt := get("SWEEP_AT")
	if sweepAt == "" {
		sweepAt = DefaultSweepAt
	}
	h, m, err := ParseClock(sweepAt)
	if err != nil {
		c.warn("SWEEP_AT", sweepAt)
		h, m, _ = ParseClock(DefaultSweepAt)
	}
	c.SweepHour, c.SweepMinute = h, m

	if v := get("WORKER_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.warn("WORKER_CONCURRENCY", v)
		} else {
			c.WorkerConcurrency = n
		}
	}
	if v := get("EXPIRING_SOON_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.warn("EXPIRING_SOON_DAYS", v)
		} else {
			c.ExpiringSoonDays = n
		}
	}

	return c
}

// ParseClock interpreta "HH:MM" (24h).
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

func (c *Config) warn(key, value string) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s=%q, using default", key, value))
}
