package domain

import "fmt"

// Status is the lifecycle state of a deposit or withdrawal
type Status string

const (
	StatusPending  Status = "Pending"  // Submitted, awaiting an admin decision
	StatusApproved Status = "Approved" // Applied to the ledger
	StatusDeclined Status = "Declined" // Rejected, terminal
)

// Kind names the type of funding request
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// ParseKind validates a kind coming from a request
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDeposit, KindWithdrawal:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown request kind %q", s)
}

// Request is the part of a deposit or withdrawal the approval workflow needs.
type Request interface {
	RequestKind() Kind
	RequestID() uint
	OwnerID() uint
	RequestAmount() float64
	CurrentStatus() Status
	SetStatus(Status)
}

// NewRequest returns an empty record of the given kind, ready to be loaded into.
func NewRequest(kind Kind) Request {
	if kind == KindWithdrawal {
		return &Withdrawal{}
	}
	return &Deposit{}
}
