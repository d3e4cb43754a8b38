// Package llm is a client for OpenAI-compatible chat completion APIs (Groq).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultBaseURL        = "https://api.groq.com/openai/v1"
	DefaultModel          = "gemma2-9b-it"
	DefaultTimeout        = 60 * time.Second
	DefaultMaxAttempts    = 3
	DefaultInitialBackoff = time.Second
	DefaultMaxTokens      = 1024
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}

	c := &Client{cfg: cfg, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	Temperature         float64   `json:"temperature"`
	MaxCompletionTokens int       `json:"max_completion_tokens"`
	TopP                float64   `json:"top_p"`
	Stream              bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete sends messages and returns the first choice's content. The whole
// call, retries included, is bounded by the configured timeout. 429, 5xx and
// transport failures are retried with exponential backoff.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:               c.cfg.Model,
		Messages:            messages,
		Temperature:         1,
		MaxCompletionTokens: DefaultMaxTokens,
		TopP:                1,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.InitialBackoff
	policy.MaxElapsedTime = c.cfg.Timeout

	var content string
	op := func() error {
		var err error
		content, err = c.do(ctx, body)
		return err
	}

	err = backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.cfg.MaxAttempts-1)), ctx))
	if err != nil {
		if !errors.Is(err, apperr.ErrUpstreamUnavailable) {
			err = apperr.Upstream("llm.complete", 0, err)
		}
		return "", err
	}
	return content, nil
}

func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", backoff.Permanent(apperr.Upstream("llm.complete", 0, ctx.Err()))
		}
		return "", apperr.Upstream("llm.complete", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		upErr := apperr.Upstream("llm.complete", resp.StatusCode, errors.New(string(detail)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", upErr
		}
		return "", backoff.Permanent(upErr)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", backoff.Permanent(apperr.Upstream("llm.complete", resp.StatusCode, fmt.Errorf("decode response: %w", err)))
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", backoff.Permanent(apperr.Upstream("llm.complete", resp.StatusCode, errors.New("empty completion")))
	}
	return out.Choices[0].Message.Content, nil
}
