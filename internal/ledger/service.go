// Package ledger implements the deposit and withdrawal approval workflow and
// keeps each user's totalInvest in step with it.
package ledger

import (
	"context"
	"fmt"

	"investment_platform/internal/domain"

	"github.com/sirupsen/logrus"
)

// Service applies admin decisions to deposits and withdrawals.
type Service struct {
	store Store
	hooks map[hookKey][]Hook
	log   logrus.FieldLogger
}

// NewService creates a workflow service. A nil logger uses the logrus standard logger.
func NewService(store Store, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, hooks: make(map[hookKey][]Hook), log: log}
}

// On registers a hook for transitions of kind into status to.
func (s *Service) On(kind domain.Kind, to domain.Status, h Hook) {
	k := hookKey{kind: kind, to: to}
	s.hooks[k] = append(s.hooks[k], h)
}

// OnAny registers a hook for every kind and every target status.
func (s *Service) OnAny(h Hook) {
	for _, kind := range []domain.Kind{domain.KindDeposit, domain.KindWithdrawal} {
		for _, to := range []domain.Status{domain.StatusApproved, domain.StatusDeclined} {
			s.On(kind, to, h)
		}
	}
}

// Decline moves a Pending or Approved request to Declined. Declining an
// Approved request reverses its ledger effect.
func (s *Service) Decline(ctx context.Context, kind domain.Kind, id uint) (domain.Request, error) {
	return s.transition(ctx, kind, id, domain.StatusDeclined)
}

// Approve moves a Pending request to Approved and applies it to the ledger.
func (s *Service) Approve(ctx context.Context, kind domain.Kind, id uint) (domain.Request, error) {
	return s.transition(ctx, kind, id, domain.StatusApproved)
}

func (s *Service) transition(ctx context.Context, kind domain.Kind, id uint, to domain.Status) (domain.Request, error) {
	req, err := s.store.FindRequest(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	from := req.CurrentStatus()
	delta, err := ledgerDelta(from, to, req.RequestAmount())
	if err != nil {
		return nil, err
	}
	owner, err := s.store.FindUser(ctx, req.OwnerID())
	if err != nil {
		return nil, err
	}

	entry := s.log.WithFields(logrus.Fields{
		"kind":    kind,
		"id":      id,
		"user_id": owner.ID,
		"amount":  req.RequestAmount(),
		"from":    from,
		"to":      to,
	})
	if from == domain.StatusPending && to == domain.StatusDeclined {
		entry.Info("declining a request that never reached the ledger")
	}

	if err := s.store.Transition(ctx, req, to, delta); err != nil {
		return nil, fmt.Errorf("%s %s %d: %w", verb(to), kind, id, err)
	}
	entry.WithField("delta", delta).Info("request transitioned")

	// The write is committed, so hooks run even if the caller has gone away
	hookCtx := context.WithoutCancel(ctx)
	ev := Event{Kind: kind, From: from, To: to, Request: req, Owner: owner}
	for _, h := range s.hooks[hookKey{kind: kind, to: to}] {
		if err := h.AfterCommit(hookCtx, ev); err != nil {
			entry.WithError(err).Warn("post-commit hook failed")
		}
	}
	return req, nil
}

// ledgerDelta validates from -> to and returns the change to totalInvest.
func ledgerDelta(from, to domain.Status, amount float64) (float64, error) {
	switch to {
	case domain.StatusDeclined:
		switch from {
		case domain.StatusDeclined:
			return 0, ErrAlreadyDeclined
		case domain.StatusApproved:
			return -amount, nil
		case domain.StatusPending:
			return 0, nil
		}
	case domain.StatusApproved:
		switch from {
		case domain.StatusApproved:
			return 0, ErrAlreadyApproved
		case domain.StatusDeclined:
			return 0, ErrTerminal
		case domain.StatusPending:
			return amount, nil
		}
	}
	return 0, fmt.Errorf("no transition from %q to %q", from, to)
}

func verb(to domain.Status) string {
	if to == domain.StatusApproved {
		return "approve"
	}
	return "decline"
}
