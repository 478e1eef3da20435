package middleware

import (
	"context"

	"github.com/fenstra/offers-backend/internal/offers"
	"github.com/fenstra/offers-backend/pkg/auth"
	"github.com/fenstra/offers-backend/pkg/enums"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	claimsKey    contextKey = "auth_claims"
)

// RequestIDFromContext returns the request id, empty when unset.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ClaimsFromContext returns the authenticated token claims, nil when the
// request is anonymous.
func ClaimsFromContext(ctx context.Context) *auth.AccessTokenClaims {
	claims, _ := ctx.Value(claimsKey).(*auth.AccessTokenClaims)
	return claims
}

func withClaims(ctx context.Context, claims *auth.AccessTokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ActorFromContext converts the authenticated claims into an offers actor.
// The second return is false for anonymous requests.
func ActorFromContext(ctx context.Context) (offers.Actor, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return offers.Actor{}, false
	}
	return offers.Actor{
		UserID:  claims.UserID,
		IsAdmin: claims.Role == enums.UserRoleAdmin,
	}, true
}
