package perplexity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	config "github.com/avatarctic/petpal/configs"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var ErrEmptyCompletion = errors.New("perplexity: empty completion")

// Client queries Perplexity's OpenAI-compatible chat completions API.
// Each Query is a single attempt bounded by the configured timeout.
type Client struct {
	api     *openai.Client
	cfg     config.PerplexityConfig
	limiter *rate.Limiter
	logger  *logrus.Logger
}

func NewClient(cfg config.PerplexityConfig, logger *logrus.Logger) ports.AIQueryClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		api:    openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		logger: logger,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

func (c *Client) Query(ctx context.Context, q ports.AIQuery) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	// Waiting for a token counts against the timeout.
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("perplexity: rate limiter: %w", err)
		}
	}

	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.cfg.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: q.Prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: float32(c.cfg.Temperature),
	}
	if q.Schema != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   q.SchemaName,
				Schema: q.Schema,
			},
		}
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"model": c.cfg.Model, "schema": q.SchemaName, "elapsed": time.Since(start)}).WithError(err).Error("perplexity: chat completion failed")
		}
		return "", fmt.Errorf("perplexity: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}

	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"model":             c.cfg.Model,
			"schema":            q.SchemaName,
			"elapsed":           time.Since(start),
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
		}).Debug("perplexity: chat completion")
	}
	return resp.Choices[0].Message.Content, nil
}
