// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Yates-Labs/storyjourney/internal/logger"
	"github.com/Yates-Labs/storyjourney/internal/narrative"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds the settings for a story session.
type Config struct {
	// Secret: never printed.
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL"`
	TextModel     string        `envconfig:"STORY_TEXT_MODEL" default:"gpt-3.5-turbo"`
	ImageModel    string        `envconfig:"STORY_IMAGE_MODEL" default:"dall-e-2"`
	ImageSize     string        `envconfig:"STORY_IMAGE_SIZE" default:"1024x1024"`
	Temperature   float32       `envconfig:"STORY_TEMPERATURE" default:"0"`
	MaxTokens     int           `envconfig:"STORY_MAX_TOKENS" default:"0"`
	CallTimeout   time.Duration `envconfig:"STORY_CALL_TIMEOUT" default:"60s"`

	// DegradeOnImageFailure keeps the scene text when its illustration fails.
	DegradeOnImageFailure bool          `envconfig:"STORY_DEGRADE_ON_IMAGE_FAILURE" default:"true"`
	ImageCacheTTL         time.Duration `envconfig:"STORY_IMAGE_CACHE_TTL" default:"1h"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"console"`
	LogOutput   string `envconfig:"LOG_OUTPUT" default:"stderr"`

	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

// Load reads a .env file if present, then the environment.
// A missing API key is a fatal startup condition reported as narrative.ErrMissingCredential.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY environment variable is required", narrative.ErrMissingCredential)
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("%w: STORY_CALL_TIMEOUT must not be negative", ErrInvalidConfig)
	}
	if c.ImageCacheTTL < 0 {
		return fmt.Errorf("%w: STORY_IMAGE_CACHE_TTL must not be negative", ErrInvalidConfig)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("%w: STORY_MAX_TOKENS must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LLMConfig maps the settings onto the generation client configuration.
func (c *Config) LLMConfig() narrative.LLMConfig {
	return narrative.LLMConfig{
		TextModel:   c.TextModel,
		ImageModel:  c.ImageModel,
		ImageSize:   c.ImageSize,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		APIKey:      c.OpenAIAPIKey,
		BaseURL:     c.OpenAIBaseURL,
		CallTimeout: c.CallTimeout,
	}
}

// LoggerConfig maps the settings onto the logger configuration.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.LogLevel,
		Encoding:   c.LogEncoding,
		OutputPath: c.LogOutput,
	}
}

// String summarizes the settings for logs with the API key masked.
func (c *Config) String() string {
	key := "[missing]"
	if c.OpenAIAPIKey != "" {
		key = "[set]"
	}
	return fmt.Sprintf("text_model=%s image_model=%s image_size=%s call_timeout=%s degrade_on_image_failure=%t api_key=%s",
		c.TextModel, c.ImageModel, c.ImageSize, c.CallTimeout, c.DegradeOnImageFailure, key)
}
