package ai

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"jarvis/internal/breaker"
	"jarvis/internal/fault"
)

const (
	DefaultModel     = "gpt-5"
	DefaultMaxTokens = 250
)

const systemPrompt = "You are Jarvis, a virtual assistant and you are skilled in general tasks like alexa and google home."

var ErrNotConfigured = errors.New("openai api key not configured")

type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// BaseURL overrides the API endpoint. Empty means the public API.
	BaseURL string
	Client  *http.Client
}

type Client struct {
	client     openai.Client
	configured bool
	model      string
	maxTokens  int64
	breaker    *breaker.Breaker
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Client != nil {
		opts = append(opts, option.WithHTTPClient(cfg.Client))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client:     openai.NewClient(opts...),
		configured: strings.TrimSpace(cfg.APIKey) != "",
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		breaker:    breaker.New(breaker.Settings{Name: "openai", Ignore: isCanceled}),
	}
}

// Respond sends prompt verbatim as the user message and returns the
// assistant's reply.
func (c *Client) Respond(ctx context.Context, prompt string) (string, error) {
	if !c.configured {
		return "", fault.New(fault.ConfigurationMissing, "ai.respond", ErrNotConfigured)
	}

	reply, err := breaker.Do(ctx, c.breaker, func(ctx context.Context) (string, error) {
		return c.complete(ctx, prompt)
	})
	if err != nil {
		return "", fault.New(fault.Upstream, "ai.respond", err)
	}
	return reply, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model:               openai.ChatModel(c.model),
		MaxCompletionTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty message content")
	}

	log.Debug("AI reply", "model", c.model, "data", content)
	return content, nil
}

func isCanceled(err error) bool { return errors.Is(err, context.Canceled) }
