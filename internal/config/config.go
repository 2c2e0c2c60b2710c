// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds settings shared by grid-decoder and pdf-prompt
type Config struct {
	Grid    GridConfig    `mapstructure:"grid"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Cache   CacheConfig   `mapstructure:"cache"`
	AI      AIConfig      `mapstructure:"ai"`
	Prompt  PromptConfig  `mapstructure:"prompt"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// GridConfig holds grid-decoder settings
type GridConfig struct {
	Source string `mapstructure:"source"` // URL or local HTML file
}

// FetchConfig holds document fetch settings
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// CacheConfig holds the optional Redis fetch cache. Empty RedisAddr disables it.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisPassword string        `mapstructure:"redis_password"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// AIConfig selects and configures the chat-completion provider
type AIConfig struct {
	Provider     string        `mapstructure:"provider"` // openai, gemini or mock
	Model        string        `mapstructure:"model"`
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Project      string        `mapstructure:"project"`  // Vertex AI only
	Location     string        `mapstructure:"location"` // Vertex AI only
	Temperature  float64       `mapstructure:"temperature"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// PromptConfig holds prompt template settings
type PromptConfig struct {
	Template string `mapstructure:"template"`  // path, empty for the built-in template
	MaxChars int    `mapstructure:"max_chars"` // larger documents are chunked
	Overlap  int    `mapstructure:"overlap"`
}

// HistoryConfig holds the SQLite run history. Empty Path disables it.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logger settings
type LogConfig struct {
	File  string `mapstructure:"file"`
	Debug bool   `mapstructure:"debug"`
}

// WatchConfig holds pdf-prompt watch mode settings
type WatchConfig struct {
	Paths    []string      `mapstructure:"paths"`
	Debounce time.Duration `mapstructure:"debounce"`
	Notify   bool          `mapstructure:"notify"`
	Workers  int           `mapstructure:"workers"`
}

// Load reads .env, then the optional YAML config file, then DOCGRID_* environment variables.
// A missing .env or config file is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DOCGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("docgrid")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.docgrid")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyKeyFallbacks(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grid.source", "")
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.user_agent", "docgrid/1.0")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.project", "")
	v.SetDefault("ai.location", "")
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("ai.system_prompt", "")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("prompt.template", "")
	v.SetDefault("prompt.max_chars", 12000)
	v.SetDefault("prompt.overlap", 200)
	v.SetDefault("history.path", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.debug", false)
	v.SetDefault("watch.paths", []string{})
	v.SetDefault("watch.debounce", 500*time.Millisecond)
	v.SetDefault("watch.notify", false)
	v.SetDefault("watch.workers", 2)
}

// applyKeyFallbacks fills the API key from the provider's conventional variable
func applyKeyFallbacks(cfg *Config) {
	if cfg.AI.APIKey != "" {
		return
	}
	switch cfg.AI.Provider {
	case "openai":
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	case "gemini":
		cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
		if cfg.AI.APIKey == "" {
			cfg.AI.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
	}
}

// ApplyFlags overrides config values with non-empty command-line flags
func ApplyFlags(cfg *Config, source, provider, model, template string, watchPaths []string) {
	if source != "" {
		cfg.Grid.Source = source
	}
	if provider != "" && provider != cfg.AI.Provider {
		cfg.AI.Provider = provider
		// Key belonged to the previous provider
		cfg.AI.APIKey = ""
		applyKeyFallbacks(cfg)
	}
	if model != "" {
		cfg.AI.Model = model
	}
	if template != "" {
		cfg.Prompt.Template = template
	}
	if len(watchPaths) > 0 {
		cfg.Watch.Paths = watchPaths
	}
}

// SplitList splits a comma-separated flag value, dropping empty entries
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MaskAPIKey masks a key for logging (first 4 and last 4 chars)
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
