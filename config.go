package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lpernett/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	providerGroq   = "groq"
	providerGemini = "gemini"

	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultVisionModel = "llama-3.2-11b-vision-preview"
)

// Config holds every runtime setting. Values come from defaults, then the
// optional YAML file, then the environment.
type Config struct {
	Port     string `yaml:"port"`
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	GroqAPIKey  string `yaml:"groq_api_key"`
	GroqBaseURL string `yaml:"groq_base_url"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
	GCPProjectID string `yaml:"gcp_project_id"`
	GCPRegion    string `yaml:"gcp_region"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	SessionTTL    time.Duration `yaml:"session_ttl"`

	DatabaseURL string `yaml:"database_url"`

	LogLevel             string `yaml:"log_level"`
	AnalyzeRatePerMinute int    `yaml:"analyze_rate_per_minute"`
}

func defaultConfig() Config {
	return Config{
		Port:                 "8080",
		Provider:             providerGroq,
		Model:                defaultVisionModel,
		GroqBaseURL:          defaultGroqBaseURL,
		GeminiModel:          defaultModel,
		GCPRegion:            defaultRegion,
		SessionTTL:           24 * time.Hour,
		LogLevel:             "info",
		AnalyzeRatePerMinute: 5,
	}
}

// LoadConfig reads .env (if present), the YAML file at path (if non-empty)
// and the process environment.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return loadConfig(path, os.LookupEnv)
}

func loadConfig(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	strs := map[string]*string{
		"PORT":           &cfg.Port,
		"PROVIDER":       &cfg.Provider,
		"MODEL":          &cfg.Model,
		"GROQ_API_KEY":   &cfg.GroqAPIKey,
		"GROQ_BASE_URL":  &cfg.GroqBaseURL,
		"GEMINI_API_KEY": &cfg.GeminiAPIKey,
		"GEMINI_MODEL":   &cfg.GeminiModel,
		"GCP_PROJECT_ID": &cfg.GCPProjectID,
		"GCP_REGION":     &cfg.GCPRegion,
		"REDIS_ADDR":     &cfg.RedisAddr,
		"REDIS_PASSWORD": &cfg.RedisPassword,
		"DATABASE_URL":   &cfg.DatabaseURL,
		"LOG_LEVEL":      &cfg.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}
	if v, ok := lookup("ANALYZE_RATE_PER_MINUTE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ANALYZE_RATE_PER_MINUTE: %w", err)
		}
		cfg.AnalyzeRatePerMinute = n
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider != providerGroq && cfg.Provider != providerGemini {
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	if cfg.AnalyzeRatePerMinute <= 0 {
		return nil, fmt.Errorf("analyze rate must be positive, got %d", cfg.AnalyzeRatePerMinute)
	}

	return &cfg, nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
