// In file: cmd/gateway/config.go
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dileep-u-k/cafe-gateway/internal/chat"
	"github.com/dileep-u-k/cafe-gateway/internal/database"
	"github.com/dileep-u-k/cafe-gateway/internal/llm"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = llm.ProviderGemini
)

// LLMConfig selects the provider and model used by the chat pipeline.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"-"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type HealthCheckConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// AppConfig holds all configuration for the gateway, loaded from the environment and config.yaml.
type AppConfig struct {
	Port          string            `yaml:"-"`
	LogLevel      string            `yaml:"-"`
	LogFormat     string            `yaml:"-"`
	RedisAddr     string            `yaml:"-"`
	AdminAPIToken string            `yaml:"-"`
	Database      database.Config   `yaml:"database"`
	Chat          chat.Config       `yaml:"chat"`
	LLM           LLMConfig         `yaml:"llm"`
	Catalog       CatalogConfig     `yaml:"catalog"`
	HealthCheck   HealthCheckConfig `yaml:"health_check"`
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Port:      "8080",
		LogLevel:  "info",
		LogFormat: "json",
		RedisAddr: "localhost:6379",
		Database:  database.DefaultConfig(),
		Chat:      chat.DefaultConfig(),
		LLM: LLMConfig{
			Provider: ProviderGroq,
			Model:    llm.DefaultModel,
		},
		Catalog:     CatalogConfig{CacheTTL: 5 * time.Minute},
		HealthCheck: HealthCheckConfig{Interval: llm.DefaultHealthInterval},
	}
}

// LoadConfig loads configuration from a .env file, environment variables and config.yaml.
func LoadConfig() (*AppConfig, error) {
	// In Docker (GIN_MODE=release) everything arrives as real environment variables.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return loadConfig(path, os.Getenv)
}

func loadConfig(path string, getenv func(string) string) (*AppConfig, error) {
	cfg := defaultConfig()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("WARNING: %s not found, using built-in defaults.", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	setFromEnv(&cfg.Port, getenv("PORT"))
	setFromEnv(&cfg.LogLevel, getenv("LOG_LEVEL"))
	setFromEnv(&cfg.LogFormat, getenv("LOG_FORMAT"))
	setFromEnv(&cfg.RedisAddr, getenv("REDIS_ADDR"))
	cfg.Database.DSN = getenv("DATABASE_URL")
	cfg.AdminAPIToken = getenv("ADMIN_API_TOKEN")

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	switch cfg.LLM.Provider {
	case ProviderGroq:
		cfg.LLM.APIKey = getenv("GROQ_API_KEY")
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = llm.GroqBaseURL
		}
	case ProviderOpenAI:
		cfg.LLM.APIKey = getenv("OPENAI_API_KEY")
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = llm.OpenAIBaseURL
		}
	case ProviderGemini:
		cfg.LLM.APIKey = getenv("GEMINI_API_KEY")
	default:
		return nil, fmt.Errorf("unknown llm.provider %q (want groq, openai or gemini)", cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = llm.DefaultModel
	}
	// A missing key is reported per chat request, never at startup.
	if cfg.LLM.APIKey == "" {
		log.Printf("WARNING: no API key configured for provider %s; chat will use the fallback responder.", cfg.LLM.Provider)
	}
	cfg.Chat.Model = cfg.LLM.Model

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	return cfg, nil
}

func setFromEnv(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
