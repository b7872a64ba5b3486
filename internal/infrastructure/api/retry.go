package api

import (
	"context"
	"reflect"
	"time"

	"github.com/cenkalti/backoff/v5"

	"aiinsights.blog/cli/internal/application/ports"
)

// DefaultMaxRetries is the retry budget of a read operation
const DefaultMaxRetries = 2

// RetryPolicy defines retry behavior
type RetryPolicy struct {
	MaxRetries int

	// NewBackOff builds the delay schedule for one logical call. nil means
	// retry immediately.
	NewBackOff func() backoff.BackOff

	// TransientOnly stops retrying on failures a later attempt cannot fix
	// (4xx and decode failures).
	TransientOnly bool
}

// DefaultRetryPolicy retries every failure twice without delay
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: DefaultMaxRetries}
}

// ExponentialBackOff returns a schedule factory doubling from base up to max
func ExponentialBackOff(base, max time.Duration) func() backoff.BackOff {
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = base
		b.MaxInterval = max
		b.Multiplier = 2.0
		b.RandomizationFactor = 0.2
		b.Reset()
		return b
	}
}

// retryState lives for a single logical call
type retryState struct {
	attemptsRemaining int
	lastFailure       error
	schedule          backoff.BackOff
}

// RetryController retries read requests against the wrapped Transport.
// Requests other than GET are forwarded exactly once.
type RetryController struct {
	next   Transport
	policy RetryPolicy
	logger ports.LoggingGateway
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetryController wraps next with the given policy
func NewRetryController(next Transport, policy RetryPolicy, logger ports.LoggingGateway) *RetryController {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	return &RetryController{
		next:   next,
		policy: policy,
		logger: logger,
		sleep:  sleepContext,
	}
}

// Policy returns the policy in effect
func (c *RetryController) Policy() RetryPolicy {
	return c.policy
}

// Do runs req, retrying failures until the budget is spent. The last
// failure is returned unchanged.
func (c *RetryController) Do(ctx context.Context, req Request, out any) error {
	if !req.IsRead() {
		return c.next.Do(ctx, req, out)
	}

	state := retryState{attemptsRemaining: c.policy.MaxRetries}
	if c.policy.NewBackOff != nil {
		state.schedule = c.policy.NewBackOff()
	}

	for {
		err := c.next.Do(ctx, req, out)
		if err == nil {
			return nil
		}
		state.lastFailure = err

		if state.attemptsRemaining <= 0 || !c.shouldRetry(ctx, err) {
			break
		}

		delay := time.Duration(0)
		if state.schedule != nil {
			delay = state.schedule.NextBackOff()
			if delay == backoff.Stop {
				break
			}
		}

		c.log(ports.LogLevelInfo, "Retrying request", map[string]interface{}{
			"operation":     req.Operation,
			"path":          req.Path,
			"attempts_left": state.attemptsRemaining,
			"delay_ms":      delay.Milliseconds(),
		})
		state.attemptsRemaining--

		if delay > 0 {
			if err := c.sleep(ctx, delay); err != nil {
				break
			}
		}
		resetResult(out)
	}

	c.log(ports.LogLevelWarn, "Giving up on request", map[string]interface{}{
		"operation": req.Operation,
		"path":      req.Path,
		"retries":   c.policy.MaxRetries - state.attemptsRemaining,
	})
	return state.lastFailure
}

func (c *RetryController) shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if !c.policy.TransientOnly {
		return true
	}
	if f, ok := AsFailure(err); ok {
		return f.Transient()
	}
	return true
}

func (c *RetryController) log(level ports.LogLevel, message string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Log(level, message, fields)
	}
}

// resetResult zeroes the value out points at so a retry cannot inherit
// fields set by a partially decoded failure
func resetResult(out any) {
	if out == nil {
		return
	}
	v := reflect.ValueOf(out)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().SetZero()
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Transport = (*RetryController)(nil)
