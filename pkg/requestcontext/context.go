// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; services and background
// workers read them without importing net/http.
package requestcontext

import "context"

type (
	requestIDKey  struct{}
	adminActorKey struct{}
)

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// AdminActor returns the operator identifier set by the admin middleware.
func AdminActor(ctx context.Context) string {
	if v, ok := ctx.Value(adminActorKey{}).(string); ok {
		return v
	}
	return ""
}

// WithAdminActor records which operator performed an admin action.
func WithAdminActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, adminActorKey{}, actor)
}
