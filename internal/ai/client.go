package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTranslateModel  = "gpt-4o"
	defaultAdaptModel      = "gpt-4o-mini"
	defaultCategorizeModel = "gpt-4o-mini"
	defaultBaseURL         = "https://api.openai.com/v1"
	defaultTimeout         = 60 * time.Second
)

// Config describes how the OpenAI client should be initialised.
type Config struct {
	APIKey          string
	BaseURL         string
	TranslateModel  string
	AdaptModel      string
	CategorizeModel string
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// Client offers a thin wrapper around the OpenAI Chat Completions API.
type Client struct {
	apiKey          string
	baseURL         string
	translateModel  string
	adaptModel      string
	categorizeModel string
	httpClient      *http.Client
}

// NewClient builds a Client that can translate, adapt, and categorize recipes.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("ai: api key must not be empty")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	translateModel := strings.TrimSpace(cfg.TranslateModel)
	if translateModel == "" {
		translateModel = defaultTranslateModel
	}

	adaptModel := strings.TrimSpace(cfg.AdaptModel)
	if adaptModel == "" {
		adaptModel = defaultAdaptModel
	}

	categorizeModel := strings.TrimSpace(cfg.CategorizeModel)
	if categorizeModel == "" {
		categorizeModel = defaultCategorizeModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	return &Client{
		apiKey:          apiKey,
		baseURL:         strings.TrimRight(baseURL, "/"),
		translateModel:  translateModel,
		adaptModel:      adaptModel,
		categorizeModel: categorizeModel,
		httpClient:      httpClient,
	}, nil
}

// complete performs one JSON-mode chat completion and returns the raw message
// content. Every failure surfaces as a GatewayError tagged with op.
func (c *Client) complete(ctx context.Context, op, model string, temperature float64, system, user string) (string, error) {
	payload := map[string]any{
		"model":       model,
		"temperature": temperature,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", gatewayErr(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", gatewayErr(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", gatewayErr(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", gatewayErrf(op, "openai returned status %s", resp.Status)
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&responseData); err != nil {
		return "", gatewayErr(op, err)
	}

	if len(responseData.Choices) == 0 {
		return "", gatewayErrf(op, "openai returned no choices")
	}

	content := strings.TrimSpace(responseData.Choices[0].Message.Content)
	content = strings.TrimSpace(strings.Trim(content, "`"))
	if content == "" {
		return "", gatewayErrf(op, "openai returned empty content")
	}
	return content, nil
}
