package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		statusCode int
		want       bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
		{http.StatusOK, false},
	}

	for _, tt := range tests {
		if got := ShouldRetry(tt.statusCode); got != tt.want {
			t.Errorf("ShouldRetry(%d) = %v, want %v", tt.statusCode, got, tt.want)
		}
	}
}

func TestCalculateBackoff(t *testing.T) {
	if got := CalculateBackoff(0); got != InitialBackoff {
		t.Errorf("attempt 0 backoff = %v, want %v", got, InitialBackoff)
	}
	if got := CalculateBackoff(1); got != time.Second {
		t.Errorf("attempt 1 backoff = %v, want 1s", got)
	}
	// Backoff never exceeds the cap
	if got := CalculateBackoff(10); got != MaxBackoff {
		t.Errorf("attempt 10 backoff = %v, want %v", got, MaxBackoff)
	}
}

func TestWithRetrySucceedsAfterTransientError(t *testing.T) {
	calls := 0
	result, err := WithRetry(context.Background(), func() (string, error) {
		calls++
		if calls == 1 {
			return "", &APIError{StatusCode: http.StatusTooManyRequests, Message: "rate limited"}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want %q", result, "ok")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWithRetryNonRetryableError(t *testing.T) {
	apiErr := &APIError{StatusCode: http.StatusBadRequest, Message: "bad request"}
	calls := 0
	_, err := WithRetry(context.Background(), func() (string, error) {
		calls++
		return "", apiErr
	})
	if !errors.Is(err, apiErr) {
		t.Fatalf("err = %v, want the API error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 400)", calls)
	}
}

func TestWithRetryNonAPIError(t *testing.T) {
	plainErr := errors.New("network down")
	calls := 0
	_, err := WithRetry(context.Background(), func() (int, error) {
		calls++
		return 0, plainErr
	})
	if !errors.Is(err, plainErr) {
		t.Fatalf("err = %v, want the plain error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on non-API error)", calls)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), func() (string, error) {
		calls++
		return "", &APIError{StatusCode: http.StatusServiceUnavailable, Message: "down"}
	})
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if calls != MaxRetryAttempts {
		t.Errorf("calls = %d, want %d", calls, MaxRetryAttempts)
	}
	if !strings.Contains(err.Error(), "max retry attempts") {
		t.Errorf("err = %v, want max-attempts message", err)
	}
}

func TestWithRetryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := WithRetry(ctx, func() (string, error) {
		calls++
		return "never", nil
	})
	if err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}
