package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkhl07/cold-email-assistant/internal/prompts"
)

var testPrompt = prompts.Prompt{System: "You write short emails.", User: "Target: Jane. Goal: chat."}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	for _, provider := range []Provider{ProviderGemini, ProviderOpenAI} {
		t.Run(string(provider), func(t *testing.T) {
			_, err := NewGenerator(context.Background(), &Config{Provider: provider})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "API key is required")
		})
	}
}

func TestNewGenerator_UnknownProvider(t *testing.T) {
	_, err := NewGenerator(context.Background(), &Config{Provider: "anthropic", APIKey: "k"})
	require.Error(t, err)
}

func TestNewGenerator_Ollama(t *testing.T) {
	gen, err := NewGenerator(context.Background(), &Config{Provider: ProviderOllama})
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, gen)
	assert.NoError(t, gen.Close())
}

func TestOpenAIClient_Generate(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hi Professor, ..."}}]}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(&Config{Provider: ProviderOpenAI, APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "Hi Professor, ...", text)

	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: testPrompt.System}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: testPrompt.User}, got.Messages[1])
}

func TestOpenAIClient_NoUsableText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no choices", body: `{"choices":[]}`},
		{name: "null content", body: `{"choices":[{"message":{"content":null}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewOpenAIClient(&Config{Provider: ProviderOpenAI, APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			text, err := client.Generate(context.Background(), testPrompt)
			require.NoError(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestOpenAIClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(&Config{Provider: ProviderOpenAI, APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), testPrompt)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestAPIError_TruncatesByCharacter(t *testing.T) {
	err := &APIError{StatusCode: http.StatusBadGateway, Body: strings.Repeat("ü", 700)}
	msg := err.Error()

	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, strings.Repeat("ü", maxErrorBodyChars)+"..."))
	assert.Equal(t, maxErrorBodyChars, strings.Count(msg, "ü"))
}

func TestOpenAIClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(&Config{Provider: ProviderOpenAI, APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), testPrompt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestOllamaClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3.1", body["model"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.1","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"Hi Professor, ..."},"done":true}` + "\n"))
	}))
	defer server.Close()

	client, err := NewOllamaClient(&Config{Provider: ProviderOllama, BaseURL: server.URL})
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "Hi Professor, ...", text)
}

func TestExtractTextFromResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{name: "nil response", resp: nil, want: ""},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: ""},
		{
			name: "no content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			want: "",
		},
		{
			name: "joined text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("Hi "), genai.Text("there")}},
			}}},
			want: "Hi there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTextFromResponse(tt.resp))
		})
	}
}
