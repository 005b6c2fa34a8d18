package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yates-Labs/storyjourney/internal/narrative"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-3.5-turbo", cfg.TextModel)
	assert.Equal(t, "dall-e-2", cfg.ImageModel)
	assert.Equal(t, "1024x1024", cfg.ImageSize)
	assert.Equal(t, 60*time.Second, cfg.CallTimeout)
	assert.True(t, cfg.DegradeOnImageFailure)
	assert.Equal(t, time.Hour, cfg.ImageCacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STORY_CALL_TIMEOUT", "1500ms")
	t.Setenv("STORY_DEGRADE_ON_IMAGE_FAILURE", "false")
	t.Setenv("STORY_TEXT_MODEL", "gpt-4o-mini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.CallTimeout)
	assert.False(t, cfg.DegradeOnImageFailure)
	assert.Equal(t, "gpt-4o-mini", cfg.TextModel)

	llm := cfg.LLMConfig()
	assert.Equal(t, "gpt-4o-mini", llm.TextModel)
	assert.Equal(t, 1500*time.Millisecond, llm.CallTimeout)
	assert.Equal(t, "sk-test", llm.APIKey)
}

func TestLoad_MissingCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, narrative.ErrMissingCredential))
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STORY_CALL_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate_Negative(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "sk-test", CallTimeout: -time.Second}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestString_MasksKey(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "sk-secret"}
	assert.NotContains(t, cfg.String(), "sk-secret")
	assert.Contains(t, cfg.String(), "api_key=[set]")
}
