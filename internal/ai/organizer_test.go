package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormops-backend/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.OrganizerConfig{
		BaseURL: baseURL,
		Model:   "test-model",
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
}

func TestDraftEventConcept(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "game night for 40 residents", req.Messages[1].Content)

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{{Message: chatMessage{Role: "assistant", Content: "Dorm Olympics: ..."}}},
		})
	}))
	defer server.Close()

	concept, err := newTestClient(server.URL).DraftEventConcept(context.Background(), "game night for 40 residents")
	require.NoError(t, err)
	assert.Equal(t, "Dorm Olympics: ...", concept)
}

func TestDraftEventConceptAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).DraftEventConcept(context.Background(), "brief")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestDraftEventConceptMissingKey(t *testing.T) {
	c := NewClient(&config.OrganizerConfig{Timeout: time.Second})
	_, err := c.DraftEventConcept(context.Background(), "brief")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
