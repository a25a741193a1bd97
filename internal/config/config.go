package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr          string
	LogLevel          slog.Level
	LogFile           string
	DeckID            string
	DefaultSpread     string
	SpreadsFile       string
	PlacementMode     string
	TouchPoints       int
	TouchSlop         float64
	Seed              uint64
	SessionLimit      int
	SessionIdleTTL    time.Duration
	LLMProvider       string
	LLMModel          string
	LLMFallbackModels []string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	LLMTimeout        time.Duration
}

// fileConfig is the YAML shape of the optional config file. Empty fields
// keep the defaults.
type fileConfig struct {
	HTTPAddr          string   `yaml:"http_addr"`
	LogLevel          string   `yaml:"log_level"`
	LogFile           string   `yaml:"log_file"`
	DeckID            string   `yaml:"deck"`
	DefaultSpread     string   `yaml:"spread"`
	SpreadsFile       string   `yaml:"spreads_file"`
	PlacementMode     string   `yaml:"placement_mode"`
	TouchPoints       *int     `yaml:"touch_points"`
	TouchSlop         *float64 `yaml:"touch_slop"`
	Seed              uint64   `yaml:"seed"`
	SessionLimit      int      `yaml:"session_limit"`
	SessionIdleTTL    string   `yaml:"session_idle_ttl"`
	LLMProvider       string   `yaml:"llm_provider"`
	LLMModel          string   `yaml:"llm_model"`
	LLMFallbackModels []string `yaml:"llm_fallback_models"`
	OpenRouterBaseURL string   `yaml:"openrouter_base_url"`
	LLMTimeout        string   `yaml:"llm_timeout"`
}

func defaults() Config {
	return Config{
		HTTPAddr:          ":8080",
		LogLevel:          slog.LevelInfo,
		DeckID:            "tarot_rws",
		DefaultSpread:     "daily",
		PlacementMode:     "strict",
		TouchSlop:         10,
		SessionLimit:      1000,
		SessionIdleTTL:    30 * time.Minute,
		LLMProvider:       "none",
		LLMModel:          "qwen/qwen3-4b:free",
		OpenRouterBaseURL: "https://openrouter.ai/api/v1",
		LLMTimeout:        10 * time.Second,
	}
}

// Load reads the optional YAML file named by SPREADS_CONFIG, then applies
// environment overrides.
func Load() (Config, error) {
	return LoadFile(os.Getenv("SPREADS_CONFIG"))
}

// LoadFile is Load with an explicit config file path; empty skips the file.
func LoadFile(path string) (Config, error) {
	c := defaults()

	if path != "" {
		if err := c.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var f fileConfig
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.HTTPAddr, f.HTTPAddr)
	setString(&c.LogFile, f.LogFile)
	setString(&c.DeckID, f.DeckID)
	setString(&c.DefaultSpread, f.DefaultSpread)
	setString(&c.SpreadsFile, f.SpreadsFile)
	setString(&c.PlacementMode, f.PlacementMode)
	setString(&c.LLMProvider, f.LLMProvider)
	setString(&c.LLMModel, f.LLMModel)
	setString(&c.OpenRouterBaseURL, f.OpenRouterBaseURL)
	if f.TouchPoints != nil {
		c.TouchPoints = *f.TouchPoints
	}
	if f.TouchSlop != nil {
		c.TouchSlop = *f.TouchSlop
	}
	if f.Seed != 0 {
		c.Seed = f.Seed
	}
	if f.SessionLimit != 0 {
		c.SessionLimit = f.SessionLimit
	}
	if len(f.LLMFallbackModels) > 0 {
		c.LLMFallbackModels = f.LLMFallbackModels
	}
	if f.LogLevel != "" {
		level, err := ParseLogLevel(f.LogLevel)
		if err != nil {
			return err
		}
		c.LogLevel = level
	}
	if f.SessionIdleTTL != "" {
		d, err := time.ParseDuration(f.SessionIdleTTL)
		if err != nil {
			return fmt.Errorf("invalid session_idle_ttl %q: %w", f.SessionIdleTTL, err)
		}
		c.SessionIdleTTL = d
	}
	if f.LLMTimeout != "" {
		d, err := time.ParseDuration(f.LLMTimeout)
		if err != nil {
			return fmt.Errorf("invalid llm_timeout %q: %w", f.LLMTimeout, err)
		}
		c.LLMTimeout = d
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.HTTPAddr = envOr("HTTP_ADDR", c.HTTPAddr)
	c.LogFile = envOr("SPREADS_LOG_FILE", c.LogFile)
	c.DeckID = envOr("DECK_ID", c.DeckID)
	c.DefaultSpread = envOr("DEFAULT_SPREAD", c.DefaultSpread)
	c.SpreadsFile = envOr("SPREADS_FILE", c.SpreadsFile)
	c.PlacementMode = envOr("PLACEMENT_MODE", c.PlacementMode)
	c.LLMProvider = envOr("LLM_PROVIDER", c.LLMProvider)
	c.LLMModel = envOr("LLM_MODEL", c.LLMModel)
	c.OpenRouterAPIKey = envOr("OPENROUTER_API_KEY", c.OpenRouterAPIKey)
	c.OpenRouterBaseURL = envOr("OPENROUTER_BASE_URL", c.OpenRouterBaseURL)
	if models := parseFallbackModels(os.Getenv("LLM_FALLBACK_MODELS")); models != nil {
		c.LLMFallbackModels = models
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := ParseLogLevel(v)
		if err != nil {
			return err
		}
		c.LogLevel = level
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LLM_TIMEOUT %q: %w", v, err)
		}
		c.LLMTimeout = d
	}
	if v := os.Getenv("SESSION_IDLE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_IDLE_TTL %q: %w", v, err)
		}
		c.SessionIdleTTL = d
	}
	if v := os.Getenv("TOUCH_POINTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TOUCH_POINTS %q: %w", v, err)
		}
		c.TouchPoints = n
	}
	if v := os.Getenv("TOUCH_SLOP"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TOUCH_SLOP %q: %w", v, err)
		}
		c.TouchSlop = f
	}
	if v := os.Getenv("SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SEED %q: %w", v, err)
		}
		c.Seed = n
	}
	if v := os.Getenv("SESSION_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_LIMIT %q: %w", v, err)
		}
		c.SessionLimit = n
	}
	return nil
}

func (c *Config) validate() error {
	switch c.PlacementMode {
	case "strict", "permissive":
	default:
		return fmt.Errorf("invalid PLACEMENT_MODE %q", c.PlacementMode)
	}
	switch c.LLMProvider {
	case "none":
	case "openrouter":
		if c.OpenRouterAPIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required when LLM_PROVIDER=openrouter")
		}
	default:
		return fmt.Errorf("invalid LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.SessionLimit < 1 {
		return fmt.Errorf("SESSION_LIMIT must be positive, got %d", c.SessionLimit)
	}
	if c.SessionIdleTTL < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must not be negative, got %v", c.SessionIdleTTL)
	}
	if c.TouchSlop < 0 {
		return fmt.Errorf("TOUCH_SLOP must not be negative, got %v", c.TouchSlop)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseFallbackModels(s string) []string {
	if s == "" {
		return nil
	}
	var models []string
	for _, m := range strings.Split(s, ",") {
		m = strings.TrimSpace(m)
		if m != "" {
			models = append(models, m)
		}
	}
	return models
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
