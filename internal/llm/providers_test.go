package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func anthropicServer(t *testing.T, status int, body string, seen *map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropic_Complete(t *testing.T) {
	var sent map[string]interface{}
	srv := anthropicServer(t, http.StatusOK, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [{"type": "text", "text": "{\"topics\": []}"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 21, "output_tokens": 8}
	}`, &sent)

	a := newAnthropic("sk-ant-test", "claude-test", option.WithBaseURL(srv.URL+"/"))
	resp, err := a.Complete(context.Background(), Request{System: "sys", User: "user", Temperature: 0.2, MaxTokens: 1000})
	require.NoError(t, err)
	assert.Equal(t, `{"topics": []}`, resp.Content)
	assert.Equal(t, "claude-test", resp.Model)
	assert.Equal(t, 21, resp.Usage.PromptTokens)
	assert.Equal(t, 8, resp.Usage.CompletionTokens)

	assert.Equal(t, "claude-test", sent["model"])
	assert.EqualValues(t, 1000, sent["max_tokens"])
	system, ok := sent["system"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, "sys", system[0].(map[string]interface{})["text"])
}

func TestAnthropic_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"rate limited", http.StatusTooManyRequests},
		{"overloaded", 529},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := anthropicServer(t, tc.status, `{"type": "error", "error": {"type": "api_error", "message": "nope"}}`, nil)
			a := newAnthropic("sk-ant-test", "claude-test", option.WithBaseURL(srv.URL+"/"))

			_, err := a.Complete(context.Background(), Request{User: "hi", MaxTokens: 10})
			var se *StatusError
			require.True(t, errors.As(err, &se), "expected StatusError, got %v", err)
			assert.Equal(t, tc.status, se.StatusCode)
			assert.Equal(t, "anthropic", se.Provider)
		})
	}
}

func TestAnthropic_EmptyContent(t *testing.T) {
	srv := anthropicServer(t, http.StatusOK, `{"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test", "content": [], "usage": {"input_tokens": 1, "output_tokens": 0}}`, nil)
	a := newAnthropic("sk-ant-test", "claude-test", option.WithBaseURL(srv.URL+"/"))

	_, err := a.Complete(context.Background(), Request{User: "hi", MaxTokens: 10})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGemini_Response(t *testing.T) {
	g := &Gemini{model: "gemini-test"}

	resp, err := g.response(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"topics": `), genai.Text(`[]}`)}}},
		},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 13, CandidatesTokenCount: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"topics": []}`, resp.Content)
	assert.Equal(t, "gemini-test", resp.Model)
	assert.Equal(t, 13, resp.Usage.PromptTokens)
	assert.Equal(t, 5, resp.Usage.CompletionTokens)

	_, err = g.response(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}}}, {}},
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGemini_WrapError(t *testing.T) {
	g := &Gemini{model: "gemini-test"}

	err := g.wrapError(fmt.Errorf("generate: %w", &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota exhausted"}))
	var se *StatusError
	require.True(t, errors.As(err, &se), "expected StatusError, got %v", err)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, "gemini", se.Provider)
	assert.Equal(t, "quota exhausted", se.Message)

	transport := errors.New("connection reset")
	err = g.wrapError(transport)
	assert.False(t, errors.As(err, &se))
	assert.ErrorIs(t, err, transport)
}
