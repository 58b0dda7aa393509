package anthropic

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/aschepis/backscratcher/completion/llm"
)

// ClassifyError maps an error returned by AnthropicClient to an llm.ErrorType for
// logging. It does not change the error.
func ClassifyError(err error) llm.ErrorType {
	if err == nil {
		return ""
	}
	if llm.IsCanceled(err) {
		return llm.ErrorTypeCanceled
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return llm.ErrorTypeRateLimit
		case apiErr.StatusCode == http.StatusRequestEntityTooLarge:
			return llm.ErrorTypeRequestTooLarge
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return llm.ErrorTypeAuth
		case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
			return llm.ErrorTypeInvalidRequest
		default:
			return llm.ErrorTypeProvider
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return llm.ErrorTypeNetwork
	}
	return llm.ErrorTypeUnknown
}

// RetryAfter returns the delay the API asked for in the Retry-After header of a
// failed response. The client never retries on its own.
func RetryAfter(err error) (time.Duration, bool) {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) || apiErr.Response == nil {
		return 0, false
	}

	value := apiErr.Response.Header.Get("Retry-After")
	if value == "" {
		return 0, false
	}
	if seconds, parseErr := strconv.Atoi(value); parseErr == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}
	if retryTime, parseErr := http.ParseTime(value); parseErr == nil {
		if delay := time.Until(retryTime); delay > 0 {
			return delay, true
		}
		return 0, true
	}
	return 0, false
}
