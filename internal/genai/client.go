package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// fence strips markdown code fences the model sometimes wraps SQL in.
var fence = regexp.MustCompile("(?i)^\\s*```(?:sql)?\\s*|\\s*```\\s*$")

// Client talks to an OpenAI-compatible chat-completions endpoint. It
// implements both Generator and Summarizer.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint. baseURL is the API
// root (e.g. https://router.huggingface.co/v1).
func NewClient(baseURL, model, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate asks the model for a SQL statement answering the question
// against the given schema. The raw response is fence-stripped but
// otherwise returned untrusted.
func (c *Client) Generate(ctx context.Context, question, schemaJSON string) (string, error) {
	out, err := c.complete(ctx, 0.0, []chatMessage{
		{Role: "system", Content: sqlSystemPrompt},
		{Role: "user", Content: buildSQLUserPrompt(question, schemaJSON)},
	})
	if err != nil {
		return "", err
	}
	return StripCodeFences(out), nil
}

// Summarize turns the packaged result into 1-2 sentences of prose.
func (c *Client) Summarize(ctx context.Context, question, sqlText, packagedJSON string) (string, error) {
	out, err := c.complete(ctx, 0.2, []chatMessage{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: buildSummaryUserPrompt(question, sqlText, packagedJSON)},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) complete(ctx context.Context, temperature float64, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("endpoint error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("endpoint returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// StripCodeFences removes a surrounding markdown code fence, with or
// without a sql language tag.
func StripCodeFences(s string) string {
	return strings.TrimSpace(fence.ReplaceAllString(strings.TrimSpace(s), ""))
}
