package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Log    LogConfig
	LLM    LLMConfig
	Resume ResumeConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type LLMConfig struct {
	Provider         string
	AnthropicModel   string
	AnthropicBaseURL string
	GeminiModel      string
	GeminiBaseURL    string
	UpstreamTimeout  time.Duration
}

type ResumeConfig struct {
	MaxFileSize  int64
	MinFileSize  int64
	ProbeEnabled bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_DEBUG", false)
	v.SetDefault("LLM_PROVIDER", "anthropic")
	v.SetDefault("ANTHROPIC_MODEL", "")
	v.SetDefault("ANTHROPIC_BASE_URL", "")
	v.SetDefault("GEMINI_MODEL", "")
	v.SetDefault("GEMINI_BASE_URL", "")
	v.SetDefault("UPSTREAM_TIMEOUT", "60s")
	v.SetDefault("MAX_FILE_SIZE", int64(10485760))
	v.SetDefault("MIN_FILE_SIZE", int64(1024))
	v.SetDefault("RESUME_PROBE_ENABLED", false)
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	defaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	timeout, err := time.ParseDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Log: LogConfig{
			JSON:  v.GetBool("LOG_JSON"),
			Debug: v.GetBool("LOG_DEBUG"),
		},
		LLM: LLMConfig{
			Provider:         strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
			AnthropicModel:   v.GetString("ANTHROPIC_MODEL"),
			AnthropicBaseURL: v.GetString("ANTHROPIC_BASE_URL"),
			GeminiModel:      v.GetString("GEMINI_MODEL"),
			GeminiBaseURL:    v.GetString("GEMINI_BASE_URL"),
			UpstreamTimeout:  timeout,
		},
		Resume: ResumeConfig{
			MaxFileSize:  v.GetInt64("MAX_FILE_SIZE"),
			MinFileSize:  v.GetInt64("MIN_FILE_SIZE"),
			ProbeEnabled: v.GetBool("RESUME_PROBE_ENABLED"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.LLM.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.LLM.UpstreamTimeout)
	}
	if c.Resume.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.Resume.MaxFileSize)
	}
	if c.Resume.MinFileSize < 0 || c.Resume.MinFileSize > c.Resume.MaxFileSize {
		return fmt.Errorf("MIN_FILE_SIZE must be between 0 and MAX_FILE_SIZE, got %d", c.Resume.MinFileSize)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Model returns the configured model for the selected provider.
func (c LLMConfig) Model() string {
	if c.Provider == "gemini" {
		return c.GeminiModel
	}
	return c.AnthropicModel
}

// BaseURL returns the configured endpoint override for the selected provider.
func (c LLMConfig) BaseURL() string {
	if c.Provider == "gemini" {
		return c.GeminiBaseURL
	}
	return c.AnthropicBaseURL
}
