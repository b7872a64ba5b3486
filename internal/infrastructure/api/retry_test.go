package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/test"
)

// scriptedTransport answers calls from a fixed script of errors
type scriptedTransport struct {
	script []error
	calls  int
	reqs   []Request
}

func (s *scriptedTransport) Do(ctx context.Context, req Request, out any) error {
	s.calls++
	s.reqs = append(s.reqs, req)
	if len(s.script) == 0 {
		return nil
	}
	err := s.script[0]
	if len(s.script) > 1 {
		s.script = s.script[1:]
	}
	return err
}

// fixedBackOff hands out a fixed list of delays, then Stop
type fixedBackOff struct {
	delays []time.Duration
}

func (b *fixedBackOff) NextBackOff() time.Duration {
	if len(b.delays) == 0 {
		return backoff.Stop
	}
	d := b.delays[0]
	b.delays = b.delays[1:]
	return d
}

func (b *fixedBackOff) Reset() {}

func readRequest() Request {
	return Request{Operation: OpListArticles, Method: http.MethodGet, Path: "/posts"}
}

func TestRetryController_DefaultPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	assert.Equal(t, 2, policy.MaxRetries)
	assert.Nil(t, policy.NewBackOff)
	assert.False(t, policy.TransientOnly)

	clamped := NewRetryController(&scriptedTransport{}, RetryPolicy{MaxRetries: -3}, nil)
	assert.Equal(t, 0, clamped.Policy().MaxRetries)
}

func TestRetryController_EventualSuccess(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxRetries := rapid.IntRange(0, 5).Draw(t, "maxRetries")
		failures := rapid.IntRange(0, maxRetries).Draw(t, "failures")

		script := make([]error, 0, failures+1)
		for i := 0; i < failures; i++ {
			script = append(script, newServerFailure(http.StatusInternalServerError, "boom"))
		}
		script = append(script, nil)

		next := &scriptedTransport{script: script}
		controller := NewRetryController(next, RetryPolicy{MaxRetries: maxRetries}, nil)

		err := controller.Do(context.Background(), readRequest(), nil)
		if err != nil {
			t.Fatalf("expected success after %d failures, got %v", failures, err)
		}
		if next.calls != failures+1 {
			t.Fatalf("expected %d calls, got %d", failures+1, next.calls)
		}
	})
}

func TestRetryController_ExhaustionReturnsLastFailureUnchanged(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxRetries := rapid.IntRange(0, 5).Draw(t, "maxRetries")
		status := rapid.SampledFrom([]int{400, 404, 429, 500, 503}).Draw(t, "status")

		script := make([]error, 0, maxRetries+1)
		for i := 0; i < maxRetries; i++ {
			script = append(script, newTransportFailure(errors.New("connection refused")))
		}
		last := newServerFailure(status, "final")
		script = append(script, last)

		next := &scriptedTransport{script: script}
		controller := NewRetryController(next, RetryPolicy{MaxRetries: maxRetries}, nil)

		err := controller.Do(context.Background(), readRequest(), nil)
		if err != error(last) {
			t.Fatalf("expected the last failure to be returned unchanged, got %v", err)
		}
		if next.calls != maxRetries+1 {
			t.Fatalf("expected %d calls, got %d", maxRetries+1, next.calls)
		}
	})
}

func TestRetryController_WritesAreNeverRetried(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			failure := newServerFailure(http.StatusServiceUnavailable, "")
			next := &scriptedTransport{script: []error{failure}}
			controller := NewRetryController(next, RetryPolicy{MaxRetries: 5}, nil)

			err := controller.Do(context.Background(), Request{Method: method, Path: "/newsletter/subscribe"}, nil)

			assert.Same(t, failure, err)
			assert.Equal(t, 1, next.calls)
		})
	}
}

func TestRetryController_TransientOnly(t *testing.T) {
	tests := []struct {
		name          string
		failure       error
		expectedCalls int
	}{
		{name: "not found is final", failure: newServerFailure(http.StatusNotFound, "not found"), expectedCalls: 1},
		{name: "decode failure is final", failure: newDecodeFailure(http.StatusOK, errors.New("unexpected EOF")), expectedCalls: 1},
		{name: "server error is retried", failure: newServerFailure(http.StatusBadGateway, ""), expectedCalls: 3},
		{name: "rate limit is retried", failure: newServerFailure(http.StatusTooManyRequests, ""), expectedCalls: 3},
		{name: "transport error is retried", failure: newTransportFailure(errors.New("reset")), expectedCalls: 3},
		{name: "foreign errors are retried", failure: errors.New("unclassified"), expectedCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &scriptedTransport{script: []error{tt.failure}}
			controller := NewRetryController(next, RetryPolicy{MaxRetries: 2, TransientOnly: true}, nil)

			err := controller.Do(context.Background(), readRequest(), nil)

			assert.Equal(t, tt.failure, err)
			assert.Equal(t, tt.expectedCalls, next.calls)
		})
	}
}

func TestRetryController_FollowsBackOffSchedule(t *testing.T) {
	next := &scriptedTransport{script: []error{errors.New("down")}}
	controller := NewRetryController(next, RetryPolicy{
		MaxRetries: 3,
		NewBackOff: func() backoff.BackOff {
			return &fixedBackOff{delays: []time.Duration{10 * time.Millisecond, 40 * time.Millisecond, 90 * time.Millisecond}}
		},
	}, nil)

	var slept []time.Duration
	controller.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	err := controller.Do(context.Background(), readRequest(), nil)

	require.Error(t, err)
	assert.Equal(t, 4, next.calls)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 40 * time.Millisecond, 90 * time.Millisecond}, slept)
}

func TestRetryController_BackOffStopEndsRetries(t *testing.T) {
	next := &scriptedTransport{script: []error{errors.New("down")}}
	controller := NewRetryController(next, RetryPolicy{
		MaxRetries: 5,
		NewBackOff: func() backoff.BackOff {
			return &fixedBackOff{delays: []time.Duration{time.Millisecond}}
		},
	}, nil)
	controller.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	err := controller.Do(context.Background(), readRequest(), nil)

	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestRetryController_NoSleepWithoutSchedule(t *testing.T) {
	next := &scriptedTransport{script: []error{errors.New("down")}}
	controller := NewRetryController(next, DefaultRetryPolicy(), nil)
	controller.sleep = func(ctx context.Context, d time.Duration) error {
		t.Fatalf("unexpected sleep of %s", d)
		return nil
	}

	require.Error(t, controller.Do(context.Background(), readRequest(), nil))
	assert.Equal(t, 3, next.calls)
}

func TestRetryController_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	next := &scriptedTransport{script: []error{newTransportFailure(context.Canceled)}}
	controller := NewRetryController(next, RetryPolicy{MaxRetries: 5}, nil)

	err := controller.Do(ctx, readRequest(), nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, next.calls)
}

func TestRetryController_CancelDuringBackOff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	next := &scriptedTransport{script: []error{errors.New("down")}}
	controller := NewRetryController(next, RetryPolicy{
		MaxRetries: 3,
		NewBackOff: ExponentialBackOff(time.Hour, time.Hour),
	}, nil)
	controller.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}

	err := controller.Do(ctx, readRequest(), nil)

	assert.EqualError(t, err, "down")
	assert.Equal(t, 1, next.calls)
}

func TestRetryController_LogsRetries(t *testing.T) {
	logger := test.NewRecordingLogger(ports.LogLevelInfo)
	next := &scriptedTransport{script: []error{errors.New("down")}}
	controller := NewRetryController(next, DefaultRetryPolicy(), logger)

	require.Error(t, controller.Do(context.Background(), readRequest(), nil))

	retries := logger.WithMessage("Retrying request")
	require.Len(t, retries, 2)
	assert.Equal(t, 2, retries[0].Fields["attempts_left"])
	assert.Equal(t, 1, retries[1].Fields["attempts_left"])

	giveUp := logger.WithMessage("Giving up on request")
	require.Len(t, giveUp, 1)
	assert.Equal(t, ports.LogLevelWarn, giveUp[0].Level)
	assert.Equal(t, 2, giveUp[0].Fields["retries"])
}

func TestExponentialBackOff_Doubles(t *testing.T) {
	b := ExponentialBackOff(100*time.Millisecond, 300*time.Millisecond)()

	first := b.NextBackOff()
	second := b.NextBackOff()
	third := b.NextBackOff()

	assert.InDelta(t, float64(100*time.Millisecond), float64(first), float64(20*time.Millisecond))
	assert.InDelta(t, float64(200*time.Millisecond), float64(second), float64(40*time.Millisecond))
	assert.LessOrEqual(t, third, 360*time.Millisecond)
}

func TestRetryController_AgainstServer(t *testing.T) {
	server := test.NewMockAPIServer(t)
	server.On(http.MethodGet, "/categories",
		test.Raw(http.StatusBadGateway, ""),
		test.JSON(http.StatusOK, []map[string]string{{"id": "ml", "name": "Machine Learning"}}),
	)

	transport := newTestTransport(t, server.URL(), nil)
	controller := NewRetryController(transport, DefaultRetryPolicy(), nil)

	var out []map[string]string
	err := controller.Do(context.Background(), Request{Method: http.MethodGet, Path: "/categories"}, &out)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ml", out[0]["id"])
	assert.Len(t, server.RequestsTo(http.MethodGet, "/categories"), 2)
}

func TestRetryController_RetryStartsFromZeroResult(t *testing.T) {
	server := test.NewMockAPIServer(t)
	server.On(http.MethodGet, "/posts/42",
		test.Raw(http.StatusOK, `{"id": "42", "title": "Stale Title", "readingTime": "seven"}`),
		test.Raw(http.StatusOK, `{"id": "42"}`),
	)

	controller := NewRetryController(newTestTransport(t, server.URL(), nil), DefaultRetryPolicy(), nil)
	var out struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		ReadingTime int    `json:"readingTime"`
	}
	out.Title = "caller value"

	err := controller.Do(context.Background(), Request{Method: http.MethodGet, Path: "/posts/42"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "42", out.ID)
	assert.Empty(t, out.Title, "fields from the failed decode are discarded")
	assert.Len(t, server.RequestsTo(http.MethodGet, "/posts/42"), 2)
}

func TestResetResult(t *testing.T) {
	value := struct{ Name string }{Name: "x"}
	resetResult(&value)
	assert.Empty(t, value.Name)

	items := []int{1, 2}
	resetResult(&items)
	assert.Nil(t, items)

	assert.NotPanics(t, func() { resetResult(nil) })
	assert.NotPanics(t, func() { resetResult(value) })
}
