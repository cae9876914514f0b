package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakeClient scripts one outcome per call and records which models were
// asked, in order.
type fakeClient struct {
	outcomes []fakeOutcome
	calls    int
	asked    []string
}

type fakeOutcome struct {
	response string
	err      error
}

func (c *fakeClient) Name() string { return "fake" }

func (c *fakeClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	c.asked = append(c.asked, req.Model)
	i := c.calls
	c.calls++
	if i >= len(c.outcomes) {
		return "", ErrUnavailable
	}
	return c.outcomes[i].response, c.outcomes[i].err
}

// noSleep replaces the backoff sleep and records requested durations.
func noSleep(slept *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func acceptAll(string) error { return nil }

func TestRunner_Run_FirstModelSucceeds(t *testing.T) {
	client := &fakeClient{outcomes: []fakeOutcome{{response: "ok"}}}
	runner := NewRunner(client)

	used, err := runner.Run(context.Background(), []string{"a", "b"}, CompletionRequest{}, RetryPolicy{}, acceptAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used != "a" {
		t.Errorf("used model = %q, want a", used)
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
}

func TestRunner_Run_NotFoundSkipsImmediately(t *testing.T) {
	client := &fakeClient{outcomes: []fakeOutcome{
		{err: ErrModelNotFound},
		{response: "ok"},
	}}
	runner := NewRunner(client)

	var slept []time.Duration
	runner.sleep = noSleep(&slept)

	used, err := runner.Run(context.Background(), []string{"a", "b"}, CompletionRequest{},
		RetryPolicy{MaxRateLimitRetries: 2, RateLimitBackoff: 5 * time.Second}, acceptAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used != "b" {
		t.Errorf("used model = %q, want b", used)
	}
	if len(slept) != 0 {
		t.Errorf("404 must not back off, slept %v", slept)
	}
}

func TestRunner_Run_RateLimitRetriesWithLinearBackoff(t *testing.T) {
	client := &fakeClient{outcomes: []fakeOutcome{
		{err: ErrRateLimited},
		{err: ErrRateLimited},
		{response: "ok"},
	}}
	runner := NewRunner(client)

	var slept []time.Duration
	runner.sleep = noSleep(&slept)

	used, err := runner.Run(context.Background(), []string{"a"}, CompletionRequest{},
		RetryPolicy{MaxRateLimitRetries: 2, RateLimitBackoff: 5 * time.Second}, acceptAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used != "a" {
		t.Errorf("used model = %q, want a", used)
	}
	if len(slept) != 2 || slept[0] != 5*time.Second || slept[1] != 10*time.Second {
		t.Errorf("backoffs = %v, want [5s 10s]", slept)
	}
}

func TestRunner_Run_RateLimitExhaustedMovesOn(t *testing.T) {
	client := &fakeClient{outcomes: []fakeOutcome{
		{err: ErrRateLimited},
		{err: ErrRateLimited},
		{response: "ok"},
	}}
	runner := NewRunner(client)

	var slept []time.Duration
	runner.sleep = noSleep(&slept)

	used, err := runner.Run(context.Background(), []string{"a", "b"}, CompletionRequest{},
		RetryPolicy{MaxRateLimitRetries: 1, RateLimitBackoff: 5 * time.Second}, acceptAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used != "b" {
		t.Errorf("used model = %q, want b after exhausting a", used)
	}
	if got := client.asked; len(got) != 3 || got[0] != "a" || got[1] != "a" || got[2] != "b" {
		t.Errorf("asked = %v, want [a a b]", got)
	}
}

func TestRunner_Run_ParseFailureMovesToNextModel(t *testing.T) {
	client := &fakeClient{outcomes: []fakeOutcome{
		{response: "garbage"},
		{response: "good"},
	}}
	runner := NewRunner(client)

	parse := func(raw string) error {
		if raw != "good" {
			return fmt.Errorf("unexpected payload")
		}
		return nil
	}

	used, err := runner.Run(context.Background(), []string{"a", "b"}, CompletionRequest{}, RetryPolicy{}, parse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used != "b" {
		t.Errorf("used model = %q, want b", used)
	}
}

func TestRunner_Run_AllModelsFail(t *testing.T) {
	client := &fakeClient{outcomes: []fakeOutcome{
		{err: ErrUnavailable},
		{err: ErrModelNotFound},
	}}
	runner := NewRunner(client)

	var slept []time.Duration
	runner.sleep = noSleep(&slept)

	_, err := runner.Run(context.Background(), []string{"a", "b"}, CompletionRequest{}, RetryPolicy{}, acceptAll)
	if err == nil {
		t.Fatal("expected error when every model fails")
	}
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("err = %v, want last model's ErrModelNotFound", err)
	}
}

func TestRunner_Run_Disabled(t *testing.T) {
	runner := NewRunner(nil)
	_, err := runner.Run(context.Background(), []string{"a"}, CompletionRequest{}, RetryPolicy{}, acceptAll)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestExtractJSONObject_IgnoresSurroundingText(t *testing.T) {
	raw := "Sure! Here is the answer:\n```json\n{\"label\": \"True\", \"note\": \"has {braces} in \\\"string\\\"\"}\n```"
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		t.Fatal("expected a JSON object")
	}
	if obj != `{"label": "True", "note": "has {braces} in \"string\""}` {
		t.Errorf("extracted %q", obj)
	}
}

func TestExtractJSONArray_Basic(t *testing.T) {
	raw := `outlets below: ["a.com", "b.net"] hope that helps`
	arr, ok := ExtractJSONArray(raw)
	if !ok {
		t.Fatal("expected a JSON array")
	}
	if arr != `["a.com", "b.net"]` {
		t.Errorf("extracted %q", arr)
	}
}
