package middleware

import "context"

type contextKey struct{ name string }

var callerKey = contextKey{"caller"}

// Caller is the authenticated identity of a request, threaded through
// context so services and the RBAC layer never read ambient state.
type Caller struct {
	Username string
	Role     string
}

// WithCaller returns a context carrying the authenticated caller.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// GetCaller returns the caller from context and true if set; otherwise a zero
// Caller and false.
func GetCaller(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	return c, ok
}
