package perplexity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/avatarctic/petpal/configs"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/infrastructure/perplexity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawSchema string

func (s rawSchema) MarshalJSON() ([]byte, error) { return []byte(s), nil }

func completion(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "cmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "sonar",
		"choices": []map[string]interface{}{
			{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
		},
	}
}

func testConfig(baseURL string) config.PerplexityConfig {
	return config.PerplexityConfig{
		APIKey:       "pplx-test",
		BaseURL:      baseURL,
		Model:        "sonar",
		SystemPrompt: "be concise",
		Timeout:      2 * time.Second,
		MaxTokens:    100,
		Temperature:  0.2,
	}
}

func TestQuerySendsSchemaAndReturnsContent(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer pplx-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`{"services":[]}`))
	}))
	defer srv.Close()

	client := perplexity.NewClient(testConfig(srv.URL), nil)
	out, err := client.Query(context.Background(), ports.AIQuery{
		Prompt:     "pet services in Dublin",
		SchemaName: "pet_services",
		Schema:     rawSchema(`{"type":"object"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"services":[]}`, out)

	assert.Equal(t, "sonar", got["model"])
	messages, ok := got["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "pet services in Dublin", messages[1].(map[string]interface{})["content"])

	format, ok := got["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]interface{})
	assert.Equal(t, "pet_services", schema["name"])
}

func TestQueryUpstreamErrorStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := perplexity.NewClient(testConfig(srv.URL), nil).Query(context.Background(), ports.AIQuery{Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "client must not retry")
}

func TestQueryEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("   "))
	}))
	defer srv.Close()

	_, err := perplexity.NewClient(testConfig(srv.URL), nil).Query(context.Background(), ports.AIQuery{Prompt: "x"})
	assert.ErrorIs(t, err, perplexity.ErrEmptyCompletion)
}

func TestQueryTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := perplexity.NewClient(cfg, nil).Query(context.Background(), ports.AIQuery{Prompt: "x"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
