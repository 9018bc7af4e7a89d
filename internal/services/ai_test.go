package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextGenerator(t *testing.T) {
	ctx := context.Background()

	gen, err := NewTextGenerator(ctx, GeneratorConfig{Provider: ProviderGemini})
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = NewTextGenerator(ctx, GeneratorConfig{Provider: ProviderOpenAI})
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = NewTextGenerator(ctx, GeneratorConfig{Provider: "OpenAI", OpenAIAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, gen)

	_, err = NewTextGenerator(ctx, GeneratorConfig{Provider: "claude", OpenAIAPIKey: "x"})
	assert.Error(t, err)
}

func newOpenAITestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]string{"role": "assistant", "content": content},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	srv := newOpenAITestServer(t, "Dear hiring manager")
	gen := NewOpenAIGenerator("sk-test", "gpt-4o-mini", srv.URL+"/v1")

	text, err := gen.Generate(context.Background(), "write a letter")
	require.NoError(t, err)
	assert.Equal(t, "Dear hiring manager", text)
}

func TestOpenAIGenerator_EmptyCompletion(t *testing.T) {
	srv := newOpenAITestServer(t, "   ")
	gen := NewOpenAIGenerator("sk-test", "gpt-4o-mini", srv.URL+"/v1")

	_, err := gen.Generate(context.Background(), "write a letter")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAIGenerator_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"insufficient_quota"}}`))
	}))
	t.Cleanup(srv.Close)

	gen := NewOpenAIGenerator("sk-test", "", srv.URL+"/v1")
	_, err := gen.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}
