package payment

import "threadstory-be/internal/apperror"

var (
	ErrNotConfigured    = apperror.Unavailable("Razorpay keys not configured on server")
	ErrInvalidSignature = apperror.BadRequest("Invalid payment signature")
	ErrInvalidAmount    = apperror.Validation("Validation failed", []string{"amount must be greater than 0"})
)
