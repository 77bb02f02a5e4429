package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"realty_crm_backend/platform/logger"
)

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), logger.Discard(), "flaky", 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoReturnsLastError(t *testing.T) {
	refused := errors.New("refused")
	err := Do(context.Background(), logger.Discard(), "db", 2, time.Millisecond, func() error {
		return refused
	})

	if err == nil || err.Error() != "db: refused" {
		t.Fatalf("expected %q, got %v", "db: refused", err)
	}
	if !errors.Is(err, refused) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, logger.Discard(), "db", 5, time.Millisecond, func() error {
		calls++
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no calls, got %d", calls)
	}
}

func TestDoRejectsZeroAttempts(t *testing.T) {
	if err := Do(context.Background(), logger.Discard(), "db", 0, time.Millisecond, func() error { return nil }); err == nil {
		t.Fatal("expected error for zero attempts")
	}
}
