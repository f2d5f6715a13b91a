package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dimitarbez/emotion-bot/internal/config"
	"github.com/dimitarbez/emotion-bot/pkg/retrylimit"
)

// OpenAIProvider talks to an OpenAI-compatible chat completions endpoint.
// Calls run through an adaptive limiter with bounded retries; when the retry
// budget is gone it answers from the local fallback instead of failing the
// conversation.
type OpenAIProvider struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int

	client   *http.Client
	limiter  *retrylimit.AdaptiveLimiter
	retry    retrylimit.RetryConfig
	fallback Provider
}

// NewOpenAIProvider builds a provider from config with an optional fallback.
func NewOpenAIProvider(cfg config.AI, fallback Provider) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Timeout: 25 * time.Second},
		limiter:     retrylimit.NewAdaptiveLimiter(2, 0.5, 8, 0.5, 0.5),
		retry:       retrylimit.DefaultRetryConfig(),
		fallback:    fallback,
	}
}

func (p *OpenAIProvider) Generate(req Request) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var reply string
	err := retrylimit.WithRetryConfig(ctx, func() error {
		out, err := p.call(req)
		if err != nil {
			return err
		}
		reply = out
		return nil
	}, p.limiter, p.retry)
	if err != nil {
		if p.fallback == nil {
			return "", err
		}
		log.Printf("[AI] openai failed: %v, answering locally", err)
		return p.fallback.Generate(req)
	}
	return reply, nil
}

func (p *OpenAIProvider) call(req Request) (string, error) {
	payload := map[string]interface{}{
		"model":       p.model,
		"messages":    buildMessages(req),
		"temperature": p.temperature,
		"max_tokens":  p.maxTokens,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequest(http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &retrylimit.FatalError{Err: &retrylimit.StatusError{Code: resp.StatusCode, Body: truncate(body)}}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", &retrylimit.StatusError{Code: resp.StatusCode, Body: truncate(body)}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("openai unmarshal: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai empty choices")
	}

	reply := cleanReply(parsed.Choices[0].Message.Content)
	if isGarbageResponse(reply) {
		return "", fmt.Errorf("openai returned garbage")
	}
	return reply, nil
}
