package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Callers discriminate with errors.Is against these values.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrRateLimited         = errors.New("rate limited")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrValidation          = errors.New("validation error")
	ErrAmountMismatch      = errors.New("amount mismatch")
	ErrUnknownProduct      = errors.New("unknown product")
	ErrUserNotFound        = errors.New("user not found")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrMalformedPayload    = errors.New("malformed payload")
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

// Error carries an error kind together with the operation that produced it.
// Status holds the upstream HTTP status when the failure came from a remote provider.
type Error struct {
	Kind    error
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg = e.Message
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

// E wraps err with kind for operation op.
func E(op string, kind error, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validation returns a validation error whose message is safe to show to users.
func Validation(op, message string) *Error {
	return &Error{Kind: ErrValidation, Op: op, Message: message}
}

// Upstream returns an UpstreamUnavailable error carrying the provider status code.
func Upstream(op string, status int, err error) *Error {
	return &Error{Kind: ErrUpstreamUnavailable, Op: op, Status: status, Err: err}
}

// Store returns a StoreUnavailable error.
func Store(op string, err error) *Error {
	return &Error{Kind: ErrStoreUnavailable, Op: op, Err: err}
}

var kinds = []error{
	ErrUnauthorized,
	ErrForbidden,
	ErrRateLimited,
	ErrInsufficientCredits,
	ErrUpstreamUnavailable,
	ErrValidation,
	ErrAmountMismatch,
	ErrUnknownProduct,
	ErrUserNotFound,
	ErrStoreUnavailable,
	ErrInvalidSignature,
	ErrMalformedPayload,
	ErrPaymentNotCompleted,
}

// KindOf returns the kind sentinel for err, or nil when err carries no known kind.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// UpstreamStatus returns the provider status recorded on err, if any.
func UpstreamStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// StatusCode maps err to the HTTP status returned to clients.
func StatusCode(err error) int {
	switch KindOf(err) {
	case ErrUnauthorized, ErrInvalidSignature:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrInsufficientCredits:
		return http.StatusPaymentRequired
	case ErrValidation, ErrAmountMismatch, ErrUnknownProduct, ErrMalformedPayload, ErrPaymentNotCompleted:
		return http.StatusBadRequest
	case ErrUserNotFound:
		return http.StatusNotFound
	case ErrStoreUnavailable:
		return http.StatusServiceUnavailable
	case ErrUpstreamUnavailable:
		if UpstreamStatus(err) == http.StatusServiceUnavailable {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage maps err to a message that is safe to show to end users.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}

	switch KindOf(err) {
	case ErrUnauthorized:
		return "Please sign in to continue."
	case ErrForbidden:
		return "You do not have access to this resource."
	case ErrRateLimited:
		return "Too many requests. Please wait a moment and try again."
	case ErrInsufficientCredits:
		return "You don't have enough credits. Please purchase more to continue."
	case ErrUpstreamUnavailable:
		switch UpstreamStatus(err) {
		case http.StatusTooManyRequests:
			return "Our astrologer is very busy right now. Please try again in a moment."
		case http.StatusUnauthorized, http.StatusForbidden:
			return "We are having trouble reaching our provider. Please try again later."
		}
		return "The service is temporarily unavailable. Please try again. Your credits have not been deducted."
	case ErrStoreUnavailable:
		return "We couldn't reach our database. Please try again shortly."
	case ErrValidation, ErrMalformedPayload:
		return "The request was invalid. Please check your input."
	case ErrAmountMismatch:
		return "The payment amount does not match the selected package. Please contact support."
	case ErrUnknownProduct:
		return "The selected credit package is not available."
	case ErrUserNotFound:
		return "Account not found."
	case ErrInvalidSignature:
		return "Invalid signature."
	case ErrPaymentNotCompleted:
		return "Payment has not been completed."
	default:
		return "Something went wrong. Please try again."
	}
}

// Retryable reports whether the same request may succeed if repeated later.
func Retryable(err error) bool {
	switch KindOf(err) {
	case ErrUpstreamUnavailable, ErrStoreUnavailable, ErrRateLimited:
		return true
	}
	return false
}
