// Package apperrors holds the error taxonomy shared by repositories, services
// and the HTTP boundary. Callers wrap these sentinels with context and the
// handlers map them to responses with errors.Is.
package apperrors

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrPaymentProvider       = errors.New("payment provider failure")
	ErrSignatureVerification = errors.New("webhook signature verification failed")
	ErrMissingSessionID      = errors.New("event carries no checkout session id")
	ErrPersistence           = errors.New("persistence failure")
	ErrInvalidQuantity       = errors.New("quantity must not be negative")
	ErrValidation            = errors.New("validation failed")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrInvalidCredentials    = errors.New("invalid credentials")
)
