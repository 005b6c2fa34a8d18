package narrative

import (
	"context"
	"fmt"
	"sync"

	"github.com/Yates-Labs/storyjourney/internal/story"
)

// MockClient is a deterministic Client implementation for testing.
// It returns scripted responses and records what it was asked.
type MockClient struct {
	mu sync.Mutex

	// TextResponse is returned by GenerateText.
	// If empty, a default scene with three options is generated from the input.
	TextResponse string

	// TextError, if set, is returned by GenerateText instead of a response.
	TextError error

	// ImageURL is returned by GenerateImage. Empty means no candidate.
	ImageURL string

	// ImageError, if set, is returned by GenerateImage instead of a URL.
	ImageError error

	// BeforeText, if set, runs at the start of GenerateText.
	BeforeText func(ctx context.Context)

	// LastMessages stores the most recent history passed to GenerateText.
	LastMessages []story.Message

	// LastPrompt stores the most recent prompt passed to GenerateImage.
	LastPrompt string

	textCalls  int
	imageCalls int
}

// NewMockClient creates a mock with a fixed scene and illustration.
func NewMockClient(text, imageURL string) *MockClient {
	return &MockClient{TextResponse: text, ImageURL: imageURL}
}

// GenerateText returns the configured response or a generated scene.
func (m *MockClient) GenerateText(ctx context.Context, messages []story.Message) (string, error) {
	if m.BeforeText != nil {
		m.BeforeText(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.textCalls++
	m.LastMessages = append([]story.Message(nil), messages...)

	if m.TextError != nil {
		return "", m.TextError
	}
	if m.TextResponse != "" {
		return m.TextResponse, nil
	}
	return generateMockScene(messages), nil
}

// GenerateImage returns the configured URL or error.
func (m *MockClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.imageCalls++
	m.LastPrompt = prompt

	if m.ImageError != nil {
		return "", m.ImageError
	}
	return m.ImageURL, nil
}

// TextCalls returns how many times GenerateText was invoked.
func (m *MockClient) TextCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.textCalls
}

// ImageCalls returns how many times GenerateImage was invoked.
func (m *MockClient) ImageCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imageCalls
}

// generateMockScene creates a predictable scene answering the last user message.
func generateMockScene(messages []story.Message) string {
	input := "nothing"
	if n := len(messages); n > 0 {
		input = messages[n-1].Content
	}
	return fmt.Sprintf("You chose %q. The path ahead splits.\n\n"+
		"**Option 1**\nTake the left fork.\n"+
		"**Option 2**\nTake the right fork.\n"+
		"**Option 3**\nTurn back.", input)
}
