package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

type Client struct {
	APIKey string
	Model  string

	httpClient *http.Client
}

func New(apiKey, model string) *Client {
	return &Client{
		APIKey: apiKey,
		Model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Enabled reports whether the client has an API key. Without one the agent
// endpoints answer 503 instead of failing mid-call.
func (c *Client) Enabled() bool {
	return c.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat sends one chat-completion request: system prompt, study context and
// the user's message.
func (c *Client) Chat(ctx context.Context, systemPrompt, userContext, message string) (string, error) {
	if !c.Enabled() {
		return "", errors.New("ai: no api key configured")
	}

	messages := []chatMessage{
		{Role: "system", Content: systemPrompt},
	}
	if userContext != "" {
		messages = append(messages, chatMessage{Role: "system", Content: "Student context:\n" + userContext})
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})

	body, err := json.Marshal(map[string]any{
		"model":    c.Model,
		"messages": messages,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: status %d: %s", res.StatusCode, truncate(string(raw), 200))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("ai: empty response")
	}

	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
