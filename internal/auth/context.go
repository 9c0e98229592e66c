// Package auth attributes requests to an operator identity carried in a
// bearer token. Attribution is best effort: endpoints stay open and an
// unauthenticated request simply records no operator.
package auth

import "context"

type contextKey string

const (
	contextKeyOperatorID   contextKey = "auth.operator_id"
	contextKeyOperatorName contextKey = "auth.operator_name"
)

// WithOperator stores operator identity details in context.
func WithOperator(ctx context.Context, id, name string) context.Context {
	ctx = context.WithValue(ctx, contextKeyOperatorID, id)
	ctx = context.WithValue(ctx, contextKeyOperatorName, name)
	return ctx
}

// OperatorIDFromContext extracts the operator id from context.
func OperatorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKeyOperatorID).(string); ok {
		return id
	}
	return ""
}

// OperatorNameFromContext extracts the operator display name from context.
func OperatorNameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if name, ok := ctx.Value(contextKeyOperatorName).(string); ok {
		return name
	}
	return ""
}
