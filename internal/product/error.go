package product

import "threadstory-be/internal/apperror"

var (
	ErrProductNotFound  = apperror.NotFound("Product not found")
	ErrInvalidID        = apperror.InvalidArgument("Invalid product ID format")
	ErrAlreadyReviewed  = apperror.Conflict("Product already reviewed")
	ErrUnauthenticated  = apperror.Unauthorized("Not authorized, no token")
)

const pgUniqueViolation = "23505"

func newMissingFieldsError(missing []string) error {
	return apperror.Validation("Missing required fields", missing)
}

func newValidationError(violations []string) error {
	return apperror.Validation("Validation failed", violations)
}
