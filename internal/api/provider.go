package api

import "context"

// Provider is a text-completion backend for the schedule assistant. The
// deepseek implementation talks to the hosted API; ollama runs against a
// local model server. Every assistant operation is a single blocking
// completion, so the interface carries no streaming or session state.
type Provider interface {
	// SendMessage performs one completion round trip.
	SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)

	// Name identifies the backend in logs and diagnostics.
	Name() string

	// Close releases any resources held by the provider.
	Close() error
}
