package assist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Defaults for the chat completion endpoint.
const (
	DefaultBaseURL = "https://api.perplexity.ai/"
	DefaultModel   = "sonar"
	DefaultTimeout = 60 * time.Second
)

// ErrNoAPIKey is returned when the client is created without a key.
var ErrNoAPIKey = errors.New("assist API key required")

// Config configures the chat completion client.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string `json:"-"`
	Timeout time.Duration
}

// OpenAI is a Completer for any OpenAI-compatible chat completion endpoint.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates a client from cfg, filling in defaults.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.Timeout),
	)
	return &OpenAI{client: client, model: cfg.Model}, nil
}

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
