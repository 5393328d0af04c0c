package output

import "context"

// Provider is a translation backend. Translate never fails: on any error it
// returns text unchanged.
type Provider interface {
	Name() string
	// Available reports whether the provider has what it needs to be called.
	Available() bool
	Translate(ctx context.Context, text, source, target string) string
}
