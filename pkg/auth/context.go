package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNoUser is returned when the context carries no usable user id.
var ErrNoUser = errors.New("user ID not found in context")

// GetUserIDFromContext extracts the user ID from the claims in the context.
// Returns empty string if not authenticated.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}

// RequireUserID returns the authenticated user's id as a UUID.
func RequireUserID(ctx context.Context) (uuid.UUID, error) {
	userID := GetUserIDFromContext(ctx)
	if userID == "" {
		return uuid.Nil, ErrNoUser
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, ErrNoUser
	}
	return id, nil
}
