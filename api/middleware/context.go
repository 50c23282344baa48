package middleware

import (
	"context"

	"github.com/procureflow/procureflow-backend/pkg/policy"
)

type contextKey string

const (
	ctxPrincipal contextKey = "principal"
	ctxAccessID  contextKey = "access_id"
)

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (policy.Principal, bool) {
	if ctx == nil {
		return policy.Principal{}, false
	}
	if p, ok := ctx.Value(ctxPrincipal).(policy.Principal); ok {
		return p, true
	}
	return policy.Principal{}, false
}

// AccessIDFromContext returns the session identifier behind the bearer token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithPrincipal injects the authenticated principal into the context.
func WithPrincipal(ctx context.Context, p policy.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, p)
}

// WithAccessID injects the session identifier into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
