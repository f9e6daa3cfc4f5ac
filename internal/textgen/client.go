// Package textgen is a thin client for an OpenAI-compatible chat
// completions endpoint. It returns generated text together with the
// token usage reported by the provider.
package textgen

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/viktorgrom84/trading-notes/internal/config"
)

// Usage is the provider-reported token accounting for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Result is a completed generation.
type Result struct {
	Text  string
	Usage Usage
}

// Generator produces text for a system/user prompt pair.
type Generator interface {
	Generate(ctx context.Context, system, user string) (Result, error)
}

type Client struct {
	http        *resty.Client
	limiter     *rate.Limiter
	model       string
	maxTokens   int
	temperature float64
}

func NewClient(cfg config.TextGenConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	rl := cfg.RateLimit
	if rl <= 0 {
		rl = 1
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	httpc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)

	return &Client{
		http:        httpc,
		limiter:     rate.NewLimiter(rate.Limit(rl), burst),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) Generate(ctx context.Context, system, user string) (Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return Result{}, fmt.Errorf("textgen request: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return Result{}, fmt.Errorf("textgen upstream: %s", msg)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return Result{}, fmt.Errorf("textgen upstream: empty completion")
	}

	return Result{
		Text: out.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
		},
	}, nil
}
