package models

import "errors"

// Domain errors. Services wrap these with context; the API layer maps them to
// HTTP status codes with errors.Is.
var (
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidAddress      = errors.New("sender address required")
	ErrInvalidUsername     = errors.New("username required")
	ErrInvalidStatus       = errors.New("invalid moderation status")
	ErrNoSession           = errors.New("no active session")
)
