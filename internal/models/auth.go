package models

import "context"

// AuthenticatedUser describes a caller whose credential has been validated.
// A nil *AuthenticatedUser means the caller is anonymous.
type AuthenticatedUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

type contextKey struct{}

// WithAuthenticatedUser stores user in ctx.
func WithAuthenticatedUser(ctx context.Context, user *AuthenticatedUser) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// AuthenticatedUserFrom returns the caller stored in ctx, or nil when anonymous.
func AuthenticatedUserFrom(ctx context.Context) *AuthenticatedUser {
	user, _ := ctx.Value(contextKey{}).(*AuthenticatedUser)
	return user
}
