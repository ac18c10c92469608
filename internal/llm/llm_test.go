package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge-backend/internal/resilience/circuitbreaker"
	"studyforge-backend/internal/resilience/retry"
)

func perplexityServer(t *testing.T, status int, body string, seen *map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer pplx-test", r.Header.Get("Authorization"))
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

func TestPerplexity_Complete(t *testing.T) {
	var sent map[string]interface{}
	srv := perplexityServer(t, http.StatusOK, `{
		"id": "cmpl-1",
		"model": "sonar-pro",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"topics\": []}"}}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46}
	}`, &sent)

	p := NewPerplexity("pplx-test", srv.URL, "")
	resp, err := p.Complete(context.Background(), Request{
		System: "sys", User: "user", Temperature: 0.3, MaxTokens: 3000,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"topics": []}`, resp.Content)
	assert.Equal(t, "sonar-pro", resp.Model)
	assert.Equal(t, 12, resp.Usage.PromptTokens)
	assert.Equal(t, 34, resp.Usage.CompletionTokens)

	assert.Equal(t, "sonar-pro", sent["model"])
	assert.EqualValues(t, 3000, sent["max_tokens"])
	msgs, ok := sent["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
}

func TestPerplexity_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := perplexityServer(t, tc.status, `{"error": {"message": "nope", "type": "invalid_request_error"}}`, nil)
			p := NewPerplexity("pplx-test", srv.URL, "sonar-pro")

			_, err := p.Complete(context.Background(), Request{User: "hi"})
			var se *StatusError
			require.True(t, errors.As(err, &se), "expected StatusError, got %v", err)
			assert.Equal(t, tc.status, se.StatusCode)
			assert.Equal(t, "perplexity", se.Provider)
		})
	}
}

func TestPerplexity_EmptyChoices(t *testing.T) {
	srv := perplexityServer(t, http.StatusOK, `{"id": "x", "model": "sonar-pro", "choices": []}`, nil)
	p := NewPerplexity("pplx-test", srv.URL, "sonar-pro")

	_, err := p.Complete(context.Background(), Request{User: "hi"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

type stubProvider struct {
	calls   int32
	results []error
	content string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req Request) (Response, error) {
	n := int(atomic.AddInt32(&s.calls, 1)) - 1
	if n < len(s.results) && s.results[n] != nil {
		return Response{}, s.results[n]
	}
	return Response{Content: s.content, Model: "stub-1"}, nil
}

func fastOptions() Options {
	return Options{
		RequestsPerMinute: 6000,
		MaxConcurrent:     2,
		Timeout:           5 * time.Second,
		Retry: retry.Config{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			Multiplier:   2,
		},
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	stub := &stubProvider{
		results: []error{&StatusError{StatusCode: 503, Provider: "stub"}},
		content: "ok",
	}
	c := NewClient(stub, fastOptions())

	resp, err := c.Complete(context.Background(), Request{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.EqualValues(t, 2, atomic.LoadInt32(&stub.calls))
}

func TestClient_DoesNotRetryAuthFailures(t *testing.T) {
	stub := &stubProvider{results: []error{&StatusError{StatusCode: 401, Provider: "stub"}}}
	c := NewClient(stub, fastOptions())

	_, err := c.Complete(context.Background(), Request{User: "hi"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 401, se.StatusCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(&stub.calls))
}

func TestClient_OpenCircuitReturnsUnavailable(t *testing.T) {
	down := &StatusError{StatusCode: 500, Provider: "stub"}
	stub := &stubProvider{results: []error{down, down, down, down}}

	opts := fastOptions()
	opts.Retry.MaxAttempts = 1
	opts.Breaker = circuitbreaker.Config{
		Name:             "stub",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      1,
	}
	c := NewClient(stub, opts)

	_, err := c.Complete(context.Background(), Request{User: "hi"})
	require.Error(t, err)

	_, err = c.Complete(context.Background(), Request{User: "hi"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.EqualValues(t, 1, atomic.LoadInt32(&stub.calls))
}

func TestClient_ConcurrencySlotsRespectContext(t *testing.T) {
	stub := &stubProvider{content: "ok"}
	opts := fastOptions()
	opts.MaxConcurrent = 1
	c := NewClient(stub, opts)

	// Hold the only slot.
	require.NoError(t, c.acquire(context.Background()))
	defer c.release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Complete(ctx, Request{User: "hi"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ProviderName(t *testing.T) {
	c := NewClient(&stubProvider{}, fastOptions())
	assert.Equal(t, "stub", c.Provider())
	assert.NoError(t, c.Close())
}
