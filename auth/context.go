package auth

import (
	"context"

	"ourApp/domain"
)

const (
	userKey privateKey = "user"
)

type privateKey string

// SetUser stores the authenticated user in the request context.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the authenticated user from the request context,
// or nil for an anonymous visitor.
func GetUser(ctx context.Context) *domain.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}

// VisitorID returns the acting user id for a request context. Anonymous
// visitors act as domain.AnonymousID.
func VisitorID(ctx context.Context) int {
	if user := GetUser(ctx); user != nil {
		return user.ID
	}
	return domain.AnonymousID
}
