package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
)

func TestNormalizeCancellation_LocalAndProviderAbortMatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	local := NormalizeCancellation(ctx, ctx.Err())
	providerAbort := NormalizeCancellation(ctx, &url.Error{Op: "Post", URL: "https://api.example.com/v1/messages", Err: context.Canceled})

	for name, err := range map[string]error{"local": local, "provider": providerAbort} {
		if !errors.Is(err, ErrCanceled) {
			t.Errorf("%s: expected ErrCanceled, got %v", name, err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", name, err)
		}
	}
	if local.Error() != providerAbort.Error() {
		t.Errorf("Expected identical messages, got %q and %q", local.Error(), providerAbort.Error())
	}
}

func TestNormalizeCancellation_WrappedWithoutDoneContext(t *testing.T) {
	err := NormalizeCancellation(context.Background(), fmt.Errorf("read body: %w", context.Canceled))
	if !IsCanceled(err) {
		t.Errorf("Expected cancellation, got %v", err)
	}

	err = NormalizeCancellation(context.Background(), fmt.Errorf("dial: %w", context.DeadlineExceeded))
	if !IsCanceled(err) {
		t.Errorf("Expected deadline to normalize to cancellation, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("Expected cause to be preserved")
	}
}

func TestNormalizeCancellation_OtherErrorsUnchanged(t *testing.T) {
	original := errors.New("401 unauthorized")
	if got := NormalizeCancellation(context.Background(), original); got != original {
		t.Errorf("Expected original error to be returned unchanged, got %v", got)
	}
	if got := NormalizeCancellation(context.Background(), nil); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}

func TestNormalizeCancellation_Idempotent(t *testing.T) {
	first := &CanceledError{Cause: context.Canceled}
	if got := NormalizeCancellation(context.Background(), first); got != first {
		t.Errorf("Expected the same CanceledError, got %v", got)
	}
}

func TestValidationError(t *testing.T) {
	err := error(&ValidationError{Problems: []string{"a", "b"}})
	if !IsValidationError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("Expected IsValidationError to see through wrapping")
	}
	if err.Error() != "invalid request: a; b" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if IsValidationError(errors.New("other")) {
		t.Error("Expected IsValidationError to return false for other errors")
	}
}
