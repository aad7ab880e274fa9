package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```sql\nSELECT * FROM expenses\n```", "SELECT * FROM expenses"},
		{"```\nSELECT 1\n```", "SELECT 1"},
		{"SELECT * FROM expenses", "SELECT * FROM expenses"},
		{"  SELECT * FROM expenses  ", "SELECT * FROM expenses"},
		{"```SQL\nSELECT 1\n```", "SELECT 1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCodeFences(tt.in))
	}
}

func newFakeEndpoint(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}))
}

func TestClient_Generate(t *testing.T) {
	srv := newFakeEndpoint(t, "```sql\nSELECT SUM(amount_clp) FROM expenses\n```", http.StatusOK)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "test-token")
	sql, err := c.Generate(context.Background(), "how much did I spend", `{"expenses":{}}`)
	require.NoError(t, err)
	assert.Equal(t, "SELECT SUM(amount_clp) FROM expenses", sql)
}

func TestClient_Summarize(t *testing.T) {
	srv := newFakeEndpoint(t, "  You spent CLP 25,000 in January.  ", http.StatusOK)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "test-token")
	summary, err := c.Summarize(context.Background(), "spend?", "SELECT 1", "{}")
	require.NoError(t, err)
	assert.Equal(t, "You spent CLP 25,000 in January.", summary)
}

func TestClient_EndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "")
	_, err := c.Generate(context.Background(), "q", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "")
	_, err := c.Generate(context.Background(), "q", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
