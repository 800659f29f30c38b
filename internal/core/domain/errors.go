package domain

import "errors"

// Common domain errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidAction = errors.New("invalid action payload")
)

// Redemption errors
var (
	ErrPhoneRequired       = errors.New("customer phone is required")
	ErrInvalidPoints       = errors.New("points to redeem must be positive")
	ErrInsufficientBalance = errors.New("points to redeem exceed available balance")
	ErrInvalidOTPFormat    = errors.New("otp must be 6 digits")
	ErrOTPMismatch         = errors.New("otp does not match")
	ErrNoPendingOTP        = errors.New("no pending otp challenge")
	ErrWrongPhase          = errors.New("action not allowed in current redemption step")
)

// Snapshot errors
var (
	ErrSnapshotNotFound       = errors.New("snapshot not found")
	ErrUnsupportedSchema      = errors.New("unsupported snapshot schema version")
	ErrSnapshotStoreUnhealthy = errors.New("snapshot store unhealthy")
)
