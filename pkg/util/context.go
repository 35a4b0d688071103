package util

import (
	"context"
)

type key string

const (
	clientIDKey = key("client-id")
	commandKey  = key("command")
)

// WithClientID returns a context with a client id
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// WithRequestID returns a context with request id
func WithRequestID(ctx context.Context, id string) context.Context {
	return ContextWithRequestID(ctx, id)
}

// WithCommand returns a context tagged with the engine command being executed.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// GetClientID returns client id from context
// will return empty string if not present
func GetClientID(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey).(string)
	return id
}

// GetRequestID returns request id from context
func GetRequestID(ctx context.Context) string {
	return FromContext(ctx)
}

// GetCommand returns the command name from context, or "".
func GetCommand(ctx context.Context) string {
	name, _ := ctx.Value(commandKey).(string)
	return name
}
