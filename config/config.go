// Package config loads server settings from .env files and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server and CLI
type Config struct {
	Port         string
	GinMode      string
	DevMode      bool
	DataDir      string
	LogLevel     string
	LogFormat    string
	CacheSize    int
	CacheTTL     time.Duration
	RateLimit    float64 // requests per second per client
	RateBurst    int
	MaxTextBytes int
	// StatsRetainMonths is how many months of usage counters are kept, current month included
	StatsRetainMonths int

	// Warnings collects values that could not be parsed and fell back to defaults
	Warnings []error
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port:         "8082",
		GinMode:      gin.ReleaseMode,
		DataDir:      "./data",
		LogLevel:     "info",
		LogFormat:    "text",
		CacheSize:    1000,
		CacheTTL:     30 * time.Minute,
		RateLimit:    2,
		RateBurst:    5,
		MaxTextBytes: 1 << 20,

		StatsRetainMonths: 12,
	}
}

// LoadEnvFiles loads .env.development first (for local development), then .env.
// Variables already present in the environment are never overridden.
// It reports which file was loaded, or "" when none was found.
func LoadEnvFiles(files ...string) string {
	if len(files) == 0 {
		files = []string{".env.development", ".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			return f
		}
	}
	return ""
}

// Load reads .env files and then the environment
func Load() Config {
	LoadEnvFiles()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function, falling back to defaults
func FromEnv(lookup func(string) (string, bool)) Config {
	cfg := Default()
	p := parser{lookup: lookup}

	cfg.Port = p.str("PORT", cfg.Port)
	cfg.GinMode = p.str("GIN_MODE", cfg.GinMode)
	cfg.DevMode = p.boolean("DEV_MODE", cfg.DevMode)
	cfg.DataDir = p.str("DATA_DIR", cfg.DataDir)
	cfg.LogLevel = strings.ToLower(p.str("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(p.str("LOG_FORMAT", cfg.LogFormat))
	cfg.CacheSize = p.positiveInt("CACHE_SIZE", cfg.CacheSize)
	cfg.CacheTTL = p.duration("CACHE_TTL", cfg.CacheTTL)
	cfg.RateLimit = p.positiveFloat("RATE_LIMIT", cfg.RateLimit)
	cfg.RateBurst = p.positiveInt("RATE_BURST", cfg.RateBurst)
	cfg.MaxTextBytes = p.positiveInt("MAX_TEXT_BYTES", cfg.MaxTextBytes)
	cfg.StatsRetainMonths = p.positiveInt("STATS_RETAIN_MONTHS", cfg.StatsRetainMonths)

	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		p.warn("GIN_MODE", cfg.GinMode)
		cfg.GinMode = gin.ReleaseMode
	}

	cfg.Warnings = p.warnings
	return cfg
}

type parser struct {
	lookup   func(string) (string, bool)
	warnings []error
}

func (p *parser) raw(key string) (string, bool) {
	v, ok := p.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) warn(key, value string) {
	p.warnings = append(p.warnings, fmt.Errorf("invalid %s value %q, using default", key, value))
}

func (p *parser) str(key, def string) string {
	if v, ok := p.raw(key); ok {
		return v
	}
	return def
}

func (p *parser) boolean(key string, def bool) bool {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.warn(key, v)
		return def
	}
	return b
}

func (p *parser) positiveInt(key string, def int) int {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		p.warn(key, v)
		return def
	}
	return n
}

func (p *parser) positiveFloat(key string, def float64) float64 {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		p.warn(key, v)
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v, ok := p.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.warn(key, v)
		return def
	}
	return d
}
