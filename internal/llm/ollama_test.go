package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-r1:1.5b", req.Model)
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(generateResponse{Response: "the answer"})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "deepseek-r1:1.5b")
	got, err := client.Complete(context.Background(), "a question")
	require.NoError(t, err)
	assert.Equal(t, "the answer", got)
}

func TestOllamaCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "deepseek-r1:1.5b")
	_, err := client.Complete(context.Background(), "a question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
