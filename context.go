package goSession

import "context"

type clientIPContextKey struct{}
type deviceContextKey struct{}
type locationContextKey struct{}

// WithClientIP attaches the caller’s IP address to ctx. The Manager uses
// it to populate session metadata and audit events.
//
//	Docs: docs/session.md, docs/audit.md
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithDevice attaches a device description to ctx. Used when a new
// session record is created after login.
//
//	Docs: docs/session.md
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, deviceContextKey{}, device)
}

// WithLocation attaches a coarse location label to ctx for session
// metadata.
//
//	Docs: docs/session.md
func WithLocation(ctx context.Context, location string) context.Context {
	return context.WithValue(ctx, locationContextKey{}, location)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

func deviceFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	device, _ := ctx.Value(deviceContextKey{}).(string)
	return device
}

func locationFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	location, _ := ctx.Value(locationContextKey{}).(string)
	return location
}
