package web

import "context"

// requestIDKey carries the id that RequestIDInjector assigns to each request.
// logger.ContextHandler reads it back so every log record of a request shares one request_id.
type requestIDKey struct{}

// WithRequestID returns a copy of ctx that carries id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the id stored by WithRequestID.
// ok is false outside a request handled by RequestIDInjector.
func GetRequestID(ctx context.Context) (id string, ok bool) {
	id, ok = ctx.Value(requestIDKey{}).(string)
	return id, ok
}
