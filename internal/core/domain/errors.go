package domain

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidAccount     = errors.New("invalid account")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
	ErrMalformedDigest    = errors.New("malformed password digest")

	// ErrNormalizationIncomplete wraps per-account failures collected during a normalization pass.
	ErrNormalizationIncomplete = errors.New("normalization incomplete")
)
