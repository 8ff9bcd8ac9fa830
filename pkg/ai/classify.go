package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// classifyStatus maps an HTTP status to a reason. ok is false when the
// status carries no specific meaning.
func classifyStatus(code int) (Reason, bool) {
	switch code {
	case http.StatusUnauthorized:
		return ReasonInvalidCredentials, true
	case http.StatusForbidden:
		return ReasonInsufficientPermission, true
	case http.StatusTooManyRequests:
		return ReasonQuotaExceeded, true
	}
	return "", false
}

// classifyMessage inspects free-form error text. Quota wins over auth
// because rate-limit messages often mention the key that was throttled.
func classifyMessage(msg string) Reason {
	lowered := strings.ToLower(msg)
	switch {
	case containsAny(lowered, "resource_exhausted", "resourceexhausted", "quota", "rate limit", "rate_limit", "too many requests", "429"):
		return ReasonQuotaExceeded
	case containsAny(lowered, "permission", "forbidden", "403"):
		return ReasonInsufficientPermission
	case containsAny(lowered, "api key", "api_key", "apikey", "unauth", "authentication", "401"):
		return ReasonInvalidCredentials
	}
	return ReasonUnavailable
}

// classifyCommon handles the cases every adapter shares before falling back
// to message inspection.
func classifyCommon(err error) Reason {
	if err == nil {
		return ReasonUnavailable
	}
	if errors.Is(err, ErrEmptyResponse) {
		return ReasonEmptyResponse
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ReasonUnavailable
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		if reason, ok := classifyStatus(statusErr.StatusCode); ok {
			return reason
		}
	}
	return classifyMessage(err.Error())
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
