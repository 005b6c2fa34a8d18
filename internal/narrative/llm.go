// Package narrative is the boundary to the external generation services.
// It defines a provider-agnostic Client for scene text and illustrations, an
// OpenAI implementation, decorators for metrics and image caching, and a
// deterministic mock for tests. It also owns the system directive and the
// option extractor, which share the "**Option N**" marker contract.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Yates-Labs/storyjourney/internal/story"
)

// Client defines the interface for the two generation services.
// Implementations must be safe for sequential use from a single orchestrator.
type Client interface {
	// GenerateText produces the next scene from the full message history.
	// Failures are reported as *GenerationError matching ErrTextGeneration.
	GenerateText(ctx context.Context, messages []story.Message) (string, error)

	// GenerateImage illustrates prompt and returns the image URL.
	// An empty URL with a nil error means the service returned no candidate.
	// Failures are reported as *GenerationError matching ErrImageGeneration.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// LLMConfig holds configuration for the generation services.
type LLMConfig struct {
	// TextModel is the chat model used for scenes (e.g., "gpt-3.5-turbo")
	TextModel string

	// ImageModel is the image model used for illustrations (e.g., "dall-e-2")
	ImageModel string

	// ImageSize is the fixed illustration resolution (e.g., "1024x1024")
	ImageSize string

	// Temperature controls randomness (0 = use provider default)
	Temperature float32

	// MaxTokens limits the response length (0 = use provider default)
	MaxTokens int

	// APIKey is the authentication key for the provider
	APIKey string

	// BaseURL overrides the provider endpoint (empty = provider default)
	BaseURL string

	// CallTimeout bounds each external call (0 = no timeout)
	CallTimeout time.Duration
}

// DefaultLLMConfig returns the stock models and image size.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		TextModel:   "gpt-3.5-turbo",
		ImageModel:  "dall-e-2",
		ImageSize:   "1024x1024",
		Temperature: 0, // model default
		MaxTokens:   0,
		CallTimeout: 60 * time.Second,
	}
}

// Validate checks the configuration. A missing API key is reported as ErrMissingCredential.
func (c LLMConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: set OPENAI_API_KEY or provide it in config", ErrMissingCredential)
	}
	if c.TextModel == "" {
		return fmt.Errorf("%w: missing text model name", ErrInvalidConfig)
	}
	if c.ImageModel == "" {
		return fmt.Errorf("%w: missing image model name", ErrInvalidConfig)
	}
	if c.ImageSize == "" {
		return fmt.Errorf("%w: missing image size", ErrInvalidConfig)
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("%w: call timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
