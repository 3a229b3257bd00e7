package ledger

import (
	"context"

	"investment_platform/internal/domain"
)

// Event describes a committed transition.
type Event struct {
	Kind    domain.Kind
	From    domain.Status
	To      domain.Status
	Request domain.Request
	Owner   *domain.User // owner as loaded before the ledger change
}

// Hook runs after a transition has been committed. Its error is logged and
// never changes the outcome of the transition.
type Hook interface {
	AfterCommit(ctx context.Context, ev Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, ev Event) error

func (f HookFunc) AfterCommit(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

type hookKey struct {
	kind domain.Kind
	to   domain.Status
}
