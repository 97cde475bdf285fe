package utils

import "context"

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "email"
	UserRoleKey  contextKey = "role"
	UserNameKey  contextKey = "name"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// SetUserContext sets user info into context (called by middleware)
func SetUserContext(ctx context.Context, id, email, role, name string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	ctx = context.WithValue(ctx, UserNameKey, name)
	return ctx
}
