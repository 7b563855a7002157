// Package errors defines the business-rule error taxonomy and the mapping
// from internal errors to HTTP responses.
package errors

import "errors"

// Deterministic business-rule rejections. Surfaced verbatim to the caller
// and never retried automatically.
var (
	ErrBlocked               = errors.New("students have blocked each other")
	ErrAlreadyDecided        = errors.New("a decision for this student already exists")
	ErrNoSuperLikesRemaining = errors.New("no super likes remaining")
	ErrNoSwipesRemaining     = errors.New("daily swipe limit reached")
	ErrNoRewindsRemaining    = errors.New("no rewinds remaining")
	ErrNothingToUndo         = errors.New("no recent swipe to undo")
	ErrNoBoostsRemaining     = errors.New("no boosts remaining")
	ErrNotFound              = errors.New("record not found")
	ErrInvalidArgument       = errors.New("invalid argument")
)

// Is re-exports errors.Is so callers don't need both packages.
func Is(err, target error) bool { return errors.Is(err, target) }
