package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryPolicy bounds the per-model retry behaviour of the fallback runner.
// Backoff durations are multiplied by the attempt number (linear backoff).
type RetryPolicy struct {
	MaxRateLimitRetries int
	RateLimitBackoff    time.Duration
	MaxTransportRetries int
	TransportBackoff    time.Duration
}

// Runner walks an ordered model list (primary first, then fallbacks) until
// one model produces a response that the caller's parse function accepts.
// Per model: HTTP 429 is retried with bounded linear backoff, HTTP 404
// skips to the next model immediately, any other transport failure is
// retried with its own bounded backoff. A response that fails to parse
// counts as a model failure and moves on. The same runner serves both the
// source identifier and the verdict synthesizer; only the prompt, the parse
// function and the policy differ.
type Runner struct {
	client Client

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a fallback runner over the given client.
func NewRunner(client Client) *Runner {
	return &Runner{
		client: client,
		sleep:  sleepCtx,
	}
}

// Enabled reports whether a completion client is configured at all.
func (r *Runner) Enabled() bool {
	return r != nil && r.client != nil
}

// Run tries each model in order and returns the name of the model whose
// response was accepted by parse. It returns an error only when every
// model fails.
func (r *Runner) Run(ctx context.Context, models []string, req CompletionRequest, policy RetryPolicy, parse func(raw string) error) (string, error) {
	if !r.Enabled() {
		return "", fmt.Errorf("%w: no completion client configured", ErrUnavailable)
	}

	var lastErr error
	for _, m := range models {
		raw, err := r.tryModel(ctx, m, req, policy)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}
		if err := parse(raw); err != nil {
			lastErr = fmt.Errorf("%w: model %s: %v", ErrParse, m, err)
			continue
		}
		return m, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no models configured", ErrUnavailable)
	}
	return "", lastErr
}

// tryModel runs the bounded retry loop for a single model.
func (r *Runner) tryModel(ctx context.Context, model string, req CompletionRequest, policy RetryPolicy) (string, error) {
	req.Model = model

	rateRetries := 0
	transportRetries := 0
	for {
		raw, err := r.client.Complete(ctx, req)
		if err == nil {
			return raw, nil
		}

		switch {
		case errors.Is(err, ErrModelNotFound):
			return "", err

		case errors.Is(err, ErrRateLimited):
			if rateRetries >= policy.MaxRateLimitRetries {
				return "", err
			}
			rateRetries++
			if sleepErr := r.sleep(ctx, time.Duration(rateRetries)*policy.RateLimitBackoff); sleepErr != nil {
				return "", sleepErr
			}

		default:
			if transportRetries >= policy.MaxTransportRetries {
				return "", err
			}
			transportRetries++
			if sleepErr := r.sleep(ctx, time.Duration(transportRetries)*policy.TransportBackoff); sleepErr != nil {
				return "", sleepErr
			}
		}
	}
}

// sleepCtx sleeps for d unless the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
