// Package llm contains the chat completion client for the OpenRouter API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-therapy-platform/config"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var (
	ErrMissingAPIKey     = errors.New("llm: api key not configured")
	ErrEmptyCompletion   = errors.New("llm: completion has no content")
	ErrStreamUnsupported = errors.New("llm: streaming is not supported")
)

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: provider returned status %d: %s", e.StatusCode, e.Body)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// OpenRouterChatModel implements model.BaseChatModel over the
// OpenAI-compatible /chat/completions endpoint. One attempt per call.
type OpenRouterChatModel struct {
	cfg    config.LLMConfig
	client *http.Client
}

var _ model.BaseChatModel = (*OpenRouterChatModel)(nil)

func NewOpenRouterChatModel(cfg config.LLMConfig, client *http.Client) *OpenRouterChatModel {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &OpenRouterChatModel{cfg: cfg, client: client}
}

func (m *OpenRouterChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if m.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	modelName, temperature, maxTokens := m.cfg.Model, m.cfg.Temperature, m.cfg.MaxTokens
	options := model.GetCommonOptions(&model.Options{
		Model:       &modelName,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}, opts...)

	payload := chatRequest{
		Model:       *options.Model,
		Messages:    make([]chatMessage, 0, len(input)),
		Temperature: *options.Temperature,
		MaxTokens:   *options.MaxTokens,
	}
	for _, msg := range input {
		payload.Messages = append(payload.Messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("llm: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if m.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", m.cfg.Referer)
	}
	if m.cfg.Title != "" {
		req.Header.Set("X-Title", m.cfg.Title)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("llm: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("llm: malformed response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyCompletion
	}

	out := schema.AssistantMessage(content, nil)
	out.ResponseMeta = &schema.ResponseMeta{FinishReason: decoded.Choices[0].FinishReason}
	if decoded.Usage != nil {
		out.ResponseMeta.Usage = &schema.TokenUsage{
			PromptTokens:     decoded.Usage.PromptTokens,
			CompletionTokens: decoded.Usage.CompletionTokens,
			TotalTokens:      decoded.Usage.TotalTokens,
		}
	}
	return out, nil
}

func (m *OpenRouterChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, ErrStreamUnsupported
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
