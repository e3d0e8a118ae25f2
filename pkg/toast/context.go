package toast

import (
	"context"

	"github.com/vango-dev/toast/internal/errors"
)

// ErrNoManager is the panic value raised when a helper runs without a
// Manager in its context. Match it with errors.Is.
var ErrNoManager error = errors.New("T001")

type contextKey struct{}

// NewContext returns a copy of ctx carrying m.
func NewContext(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, contextKey{}, m)
}

// FromContext returns the Manager carried by ctx, if any.
func FromContext(ctx context.Context) (*Manager, bool) {
	if ctx == nil {
		return nil, false
	}
	m, ok := ctx.Value(contextKey{}).(*Manager)
	return m, ok && m != nil
}

// Use returns the Manager carried by ctx. It panics with an error matching
// ErrNoManager when there is none.
func Use(ctx context.Context) *Manager {
	m, ok := FromContext(ctx)
	if !ok {
		panic(errors.New("T001"))
	}
	return m
}
