package errors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestError_IsAndUnwrap(t *testing.T) {
	err := apperr.E("ledger.charge", apperr.ErrInsufficientCredits, nil)
	wrapped := fmt.Errorf("chat: %w", err)

	assert.True(t, errors.Is(wrapped, apperr.ErrInsufficientCredits))
	assert.False(t, errors.Is(wrapped, apperr.ErrUserNotFound))

	timeout := apperr.Upstream("llm.complete", 0, context.DeadlineExceeded)
	assert.True(t, errors.Is(timeout, apperr.ErrUpstreamUnavailable))
	assert.True(t, errors.Is(timeout, context.DeadlineExceeded))
}

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", apperr.ErrUnauthorized, http.StatusUnauthorized},
		{"rate limited", apperr.E("op", apperr.ErrRateLimited, nil), http.StatusTooManyRequests},
		{"insufficient credits", apperr.ErrInsufficientCredits, http.StatusPaymentRequired},
		{"validation", apperr.Validation("op", "bad date"), http.StatusBadRequest},
		{"amount mismatch", apperr.ErrAmountMismatch, http.StatusBadRequest},
		{"unknown product", apperr.ErrUnknownProduct, http.StatusBadRequest},
		{"user not found", apperr.ErrUserNotFound, http.StatusNotFound},
		{"store", apperr.Store("op", errors.New("conn refused")), http.StatusServiceUnavailable},
		{"upstream 500", apperr.Upstream("op", 500, nil), http.StatusInternalServerError},
		{"upstream 503", apperr.Upstream("op", 503, nil), http.StatusServiceUnavailable},
		{"bad signature", apperr.ErrInvalidSignature, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperr.StatusCode(tc.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	t.Run("validation message is surfaced", func(t *testing.T) {
		err := apperr.Validation("profile.dob", "You must be between 13 and 100 years old.")
		assert.Equal(t, "You must be between 13 and 100 years old.", apperr.UserMessage(err))
	})

	t.Run("internal detail is not leaked", func(t *testing.T) {
		err := apperr.Store("repo.get", errors.New("dial tcp 10.0.0.1:5432: connection refused"))
		assert.NotContains(t, apperr.UserMessage(err), "10.0.0.1")
	})

	t.Run("upstream busy", func(t *testing.T) {
		err := apperr.Upstream("llm.complete", http.StatusTooManyRequests, nil)
		assert.Contains(t, apperr.UserMessage(err), "busy")
	})
}

func TestRetryable(t *testing.T) {
	assert.True(t, apperr.Retryable(apperr.Upstream("op", 502, nil)))
	assert.True(t, apperr.Retryable(apperr.Store("op", nil)))
	assert.False(t, apperr.Retryable(apperr.ErrInsufficientCredits))
	assert.False(t, apperr.Retryable(apperr.ErrUnauthorized))
}
