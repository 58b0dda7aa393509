package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/aschepis/backscratcher/completion/llm"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want llm.ErrorType
	}{
		{"nil", nil, ""},
		{"canceled", &llm.CanceledError{Cause: context.Canceled}, llm.ErrorTypeCanceled},
		{"rate limit", &anthropic.Error{StatusCode: 429}, llm.ErrorTypeRateLimit},
		{"too large", &anthropic.Error{StatusCode: 413}, llm.ErrorTypeRequestTooLarge},
		{"unauthorized", &anthropic.Error{StatusCode: 401}, llm.ErrorTypeAuth},
		{"forbidden", &anthropic.Error{StatusCode: 403}, llm.ErrorTypeAuth},
		{"bad request", &anthropic.Error{StatusCode: 400}, llm.ErrorTypeInvalidRequest},
		{"overloaded", &anthropic.Error{StatusCode: 529}, llm.ErrorTypeProvider},
		{"wrapped api error", fmt.Errorf("call: %w", &anthropic.Error{StatusCode: 500}), llm.ErrorTypeProvider},
		{"network", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, llm.ErrorTypeNetwork},
		{"other", errors.New("mystery"), llm.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRetryAfter(t *testing.T) {
	withHeader := func(status int, value string) error {
		resp := &http.Response{StatusCode: status, Header: http.Header{}}
		if value != "" {
			resp.Header.Set("Retry-After", value)
		}
		return fmt.Errorf("send: %w", &anthropic.Error{StatusCode: status, Response: resp})
	}

	tests := []struct {
		name   string
		err    error
		want   time.Duration
		wantOK bool
	}{
		{"seconds", withHeader(429, "30"), 30 * time.Second, true},
		{"past date", withHeader(429, "Mon, 02 Jan 2006 15:04:05 GMT"), 0, true},
		{"missing header", withHeader(429, ""), 0, false},
		{"garbage", withHeader(529, "soon"), 0, false},
		{"no response", &anthropic.Error{StatusCode: 429}, 0, false},
		{"not an api error", errors.New("boom"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RetryAfter(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("RetryAfter() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
