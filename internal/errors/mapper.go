package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// HTTPStatus converts service/repo errors into an HTTP status code.
// Keeps handlers clean by centralizing error mapping. Business-rule
// rejections are 4xx; anything unrecognized is treated as a transient
// storage error and reported 500 so the caller may retry.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrBlocked),
		errors.Is(err, ErrNoSuperLikesRemaining),
		errors.Is(err, ErrNoSwipesRemaining),
		errors.Is(err, ErrNoRewindsRemaining),
		errors.Is(err, ErrNoBoostsRemaining),
		errors.Is(err, ErrNothingToUndo),
		errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest

	case errors.Is(err, ErrAlreadyDecided):
		return http.StatusConflict

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return 499 // client closed request

	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the caller may safely retry the operation.
// Every write path is guarded (AlreadyDecided / NothingToUndo), so retries
// of transient failures are idempotent in effect.
func Retryable(err error) bool {
	return HTTPStatus(err) >= http.StatusInternalServerError
}
