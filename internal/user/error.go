package user

import "threadstory-be/internal/apperror"

var (
	ErrUserNotFound       = apperror.NotFound("User not found")
	ErrInvalidID          = apperror.InvalidArgument("Invalid user ID format")
	ErrUserExists         = apperror.BadRequest("User already exists")
	ErrInvalidCredentials = apperror.Unauthorized("Invalid email or password")
	ErrWrongPassword      = apperror.Unauthorized("Current password is incorrect")
	ErrCannotDeleteAdmin  = apperror.BadRequest("Cannot delete admin user")
	ErrUnauthenticated    = apperror.Unauthorized("Not authorized, no token")
	ErrInvalidRole        = apperror.Validation("Validation failed", []string{"role must be one of user, admin"})
	ErrJWTSecretMissing   = apperror.New(apperror.KindInternal, "JWT_SECRET is not set")
)

const pgUniqueViolation = "23505"
