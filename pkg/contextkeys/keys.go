// Package contextkeys provides centralized context key definitions.
//
// All context keys used across the application are defined here. This
// prevents typos, documents dependencies, and makes key usage
// discoverable.
package contextkeys

import (
	"context"

	"github.com/hospital-rp/staffd/pkg/staff"
)

// Key is the type for context keys to prevent collisions
type Key string

const (
	// ActorKey contains the authenticated *staff.Member
	// Set by: middleware.ActorMiddleware (pkg/middleware/auth.go)
	// Required by: all protected API endpoints
	ActorKey Key = "actor"

	// RequestIDKey contains the request ID string (UUID)
	// Set by: middleware.RequestIDMiddleware
	// Used by: request logging
	RequestIDKey Key = "request_id"
)

// WithActor adds the authenticated member to the context
func WithActor(ctx context.Context, actor *staff.Member) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActor retrieves the authenticated member from context, or nil
func GetActor(ctx context.Context) *staff.Member {
	if actor, ok := ctx.Value(ActorKey).(*staff.Member); ok {
		return actor
	}
	return nil
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
