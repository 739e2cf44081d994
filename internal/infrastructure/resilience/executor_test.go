package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

func fastRetries(attempts int) Config {
	return Config{
		RetryMaxAttempts:    attempts,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}
}

func TestExecuteRetriesTemporaryFailure(t *testing.T) {
	var retried []int
	exec := NewExecutor(fastRetries(3), WithRetryObserver(func(_ string, attempt int, _ error) {
		retried = append(retried, attempt)
	}))

	attempts := 0
	err := exec.Execute(context.Background(), "db.upsert", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return domain.WrapError(domain.ErrTemporary, "upsert", errors.New("conn reset"))
		}
		return nil
	}, ClassifyTemporary)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if fmt.Sprint(retried) != "[1 2]" {
		t.Fatalf("expected observer calls for attempts 1 and 2, got %v", retried)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(fastRetries(3))

	attempts := 0
	errPermanent := errors.New("permanent")
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return errPermanent
	}, ClassifyTemporary)
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteReturnsLastErrorWhenAttemptsRunOut(t *testing.T) {
	exec := NewExecutor(fastRetries(2))

	attempts := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return domain.WrapError(domain.ErrTemporary, "op", fmt.Errorf("attempt %d", attempts))
	}, ClassifyTemporary)
	if attempts != 2 || err == nil || err.Error() != "op: temporary failure: attempt 2" {
		t.Fatalf("unexpected result after %d attempts: %v", attempts, err)
	}
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	exec := NewExecutor(fastRetries(3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := exec.Execute(ctx, "op", func(context.Context) error {
		called = true
		return nil
	}, ClassifyTemporary)
	if called || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation before the call, called=%v err=%v", called, err)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	errDown := errors.New("down")
	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "nats.publish", func(context.Context) error {
			return errDown
		}, nil)
		if !errors.Is(err, errDown) {
			t.Fatalf("expected failure on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "nats.publish", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, nil)
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsCircuitOpen(err) {
		t.Fatalf("expected open state error, got %v", err)
	}

	if err := exec.Execute(context.Background(), "db.upsert", func(context.Context) error { return nil }, nil); err != nil {
		t.Fatalf("breakers must be per operation, got %v", err)
	}
}

func TestBackoffGrowsToCeiling(t *testing.T) {
	cfg := Config{RetryInitialBackoff: 10 * time.Millisecond, RetryMaxBackoff: 35 * time.Millisecond, RetryMultiplier: 2}.normalize()

	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 35 * time.Millisecond, 35 * time.Millisecond}
	for i, w := range want {
		if got := cfg.backoff(i + 1); got != w {
			t.Fatalf("backoff(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestClassifyTemporary(t *testing.T) {
	cases := []struct {
		err   error
		class ErrorClassification
	}{
		{err: domain.WrapError(domain.ErrTemporary, "op", errors.New("x")), class: ErrorClassification{Retryable: true, RecordFailure: true}},
		{err: domain.WrapError(domain.ErrCandidateNotFound, "op", errors.New("x")), class: ErrorClassification{}},
		{err: context.Canceled, class: ErrorClassification{}},
		{err: errors.New("boom"), class: ErrorClassification{RecordFailure: true}},
	}
	for _, tc := range cases {
		if got := ClassifyTemporary(tc.err); got != tc.class {
			t.Fatalf("ClassifyTemporary(%v) = %+v, want %+v", tc.err, got, tc.class)
		}
	}
}
