package narrative

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/Yates-Labs/storyjourney/internal/story"
)

// OpenAIClient implements Client using OpenAI's chat and image APIs.
type OpenAIClient struct {
	client openai.Client
	config LLMConfig
}

// NewOpenAIClient creates an OpenAI-backed client.
// Returns ErrMissingCredential if the API key is missing.
func NewOpenAIClient(config LLMConfig) (*OpenAIClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		// Retry is a user decision: re-submit the turn.
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// GenerateText sends the message history to the chat API and returns the scene text.
func (o *OpenAIClient) GenerateText(ctx context.Context, messages []story.Message) (string, error) {
	if len(messages) == 0 {
		return "", NewTextError(CauseTransport, errors.New("no messages to send"))
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(o.config.TextModel),
		Messages: toChatMessages(messages),
	}
	if o.config.Temperature > 0 {
		params.Temperature = openai.Float(float64(o.config.Temperature))
	}
	if o.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.config.MaxTokens))
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", NewTextError(classify(ctx, err), err)
	}

	if len(completion.Choices) == 0 {
		return "", NewTextError(CauseEmptyResponse, errors.New("no choices returned"))
	}
	text := completion.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", NewTextError(CauseEmptyResponse, errors.New("empty message content"))
	}

	return text, nil
}

// GenerateImage requests exactly one illustration at the configured size and returns its URL.
func (o *OpenAIClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", NewImageError(CauseTransport, errors.New("prompt cannot be empty"))
	}

	params := openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(o.config.ImageModel),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(o.config.ImageSize),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	resp, err := o.client.Images.Generate(ctx, params)
	if err != nil {
		return "", NewImageError(classify(ctx, err), err)
	}

	if resp == nil || len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].URL, nil
}

func (o *OpenAIClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.config.CallTimeout > 0 {
		return context.WithTimeout(ctx, o.config.CallTimeout)
	}
	return context.WithCancel(ctx)
}

func toChatMessages(messages []story.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case story.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case story.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// classify maps a transport error onto a Cause. The call context is checked
// first so a deadline surfaces as a timeout whatever the client wrapped it in.
func classify(ctx context.Context, err error) Cause {
	if cause, ok := contextCause(ctx.Err()); ok {
		return cause
	}
	if cause, ok := contextCause(err); ok {
		return cause
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return CauseAuth
		case http.StatusTooManyRequests:
			return CauseRateLimit
		}
	}
	return CauseTransport
}

// String describes the client for logs.
func (o *OpenAIClient) String() string {
	return fmt.Sprintf("openai(text=%s, image=%s %s)", o.config.TextModel, o.config.ImageModel, o.config.ImageSize)
}
