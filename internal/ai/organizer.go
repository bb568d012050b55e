// Package ai drafts event concepts through an OpenAI-compatible chat
// completion API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"dormops-backend/config"
)

const systemPrompt = "You help a student dormitory committee plan events. " +
	"Given a short brief, propose a concrete event concept: a name, a one-paragraph " +
	"description, a rough schedule, and a checklist of preparations. Keep it practical " +
	"for a budget-constrained dorm."

var ErrNotConfigured = errors.New("organizer API key is not configured")

// Client calls the configured chat completion endpoint.
type Client struct {
	cfg    *config.OrganizerConfig
	client *http.Client
}

// NewClient creates a client using the organizer config's timeout.
func NewClient(cfg *config.OrganizerConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// DraftEventConcept sends the brief and returns the drafted concept text.
func (c *Client) DraftEventConcept(ctx context.Context, brief string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: brief},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("organizer request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("organizer API error: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("organizer API returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("organizer API returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
