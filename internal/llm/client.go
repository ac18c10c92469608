package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"studyforge-backend/internal/resilience/circuitbreaker"
	"studyforge-backend/internal/resilience/retry"
)

type Options struct {
	RequestsPerMinute int
	MaxConcurrent     int
	Timeout           time.Duration
	// Retry overrides retry.LLMConfig when MaxAttempts is set.
	Retry retry.Config
	// Breaker overrides circuitbreaker.LLMConfig when Name is set.
	Breaker circuitbreaker.Config
}

type Client struct {
	provider Provider
	limiter  *rate.Limiter
	slots    chan struct{}
	breaker  *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
	timeout  time.Duration
}

func NewClient(p Provider, opts Options) *Client {
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 60
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.LLMConfig()
	}
	if opts.Breaker.Name == "" {
		opts.Breaker = circuitbreaker.LLMConfig(p.Name())
	}
	// 4xx answers are the caller's fault and must not open the circuit.
	opts.Breaker.IsFailure = retry.IsRetryable

	// Slots bound in-flight calls, the limiter bounds call rate.
	slots := make(chan struct{}, opts.MaxConcurrent)
	for i := 0; i < opts.MaxConcurrent; i++ {
		slots <- struct{}{}
	}

	every := time.Minute / time.Duration(opts.RequestsPerMinute)
	return &Client{
		provider: p,
		limiter:  rate.NewLimiter(rate.Every(every), opts.MaxConcurrent),
		slots:    slots,
		breaker:  circuitbreaker.New(opts.Breaker),
		retryCfg: opts.Retry,
		timeout:  opts.Timeout,
	}
}

// Provider reports the active vendor name.
func (c *Client) Provider() string { return c.provider.Name() }

// Close releases provider resources when the provider holds any.
func (c *Client) Close() error {
	if closer, ok := c.provider.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Client) acquire(ctx context.Context) error {
	select {
	case <-c.slots:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) release() {
	c.slots <- struct{}{}
}

func (c *Client) Complete(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	name := c.provider.Name()
	if err := c.acquire(ctx); err != nil {
		return Response{}, fmt.Errorf("waiting for %s slot: %w", name, err)
	}
	defer c.release()

	start := time.Now()
	var resp Response
	err := retry.WithBackoff(ctx, c.retryCfg, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		res, err := c.breaker.Execute(func() (interface{}, error) {
			return c.provider.Complete(ctx, req)
		})
		if err != nil {
			if errors.Is(err, circuitbreaker.ErrOpen) {
				slog.Warn("llm circuit breaker open, request rejected",
					slog.String("provider", name),
					slog.String("state", c.breaker.State().String()))
				return ErrUnavailable
			}
			return err
		}
		resp = res.(Response)
		return nil
	})
	elapsed := time.Since(start)

	if err != nil {
		observeCall(name, outcomeOf(err), elapsed, Usage{})
		slog.ErrorContext(ctx, "llm completion failed",
			slog.String("provider", name),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()))
		return Response{}, fmt.Errorf("%s completion: %w", name, err)
	}

	observeCall(name, "success", elapsed, resp.Usage)
	slog.InfoContext(ctx, "llm completion",
		slog.String("provider", name),
		slog.String("model", resp.Model),
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
		slog.Duration("duration", elapsed))
	return resp, nil
}

func outcomeOf(err error) string {
	var se *StatusError
	switch {
	case errors.Is(err, ErrUnavailable):
		return "circuit_open"
	case errors.As(err, &se):
		return fmt.Sprintf("status_%d", se.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
