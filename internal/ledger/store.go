package ledger

import (
	"context"
	"errors"
	"fmt"

	"investment_platform/internal/domain"

	"gorm.io/gorm"
)

// Store is the persistence the approval workflow runs against.
type Store interface {
	FindRequest(ctx context.Context, kind domain.Kind, id uint) (domain.Request, error)
	FindUser(ctx context.Context, id uint) (*domain.User, error)
	// Transition moves req from its current status to `to` and adds delta to
	// the owner's totalInvest, atomically. It returns ErrStaleStatus when the
	// stored status no longer matches req.CurrentStatus().
	Transition(ctx context.Context, req domain.Request, to domain.Status, delta float64) error
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// FindRequest loads a deposit or withdrawal by id, ErrRequestNotFound when absent.
func (s *GormStore) FindRequest(ctx context.Context, kind domain.Kind, id uint) (domain.Request, error) {
	req := domain.NewRequest(kind) // Row type follows the kind
	if err := s.db.WithContext(ctx).First(req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("load %s %d: %w", kind, id, err)
	}
	return req, nil
}

// FindUser loads a user by id, ErrUserNotFound when absent.
func (s *GormStore) FindUser(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &user, nil
}

// Transition writes the status change and the ledger delta in one transaction.
func (s *GormStore) Transition(ctx context.Context, req domain.Request, to domain.Status, delta float64) error {
	from := req.CurrentStatus() // Status the caller validated against
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded on the status we validated against.
		res := tx.Model(req).Where("status = ?", from).Update("status", to)
		if res.Error != nil {
			return fmt.Errorf("update %s %d: %w", req.RequestKind(), req.RequestID(), res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus // Someone else moved it first
		}
		if delta == 0 {
			return nil // Nothing to book
		}
		res = tx.Model(&domain.User{}).
			Where("id = ?", req.OwnerID()).
			Update("total_invest", gorm.Expr("total_invest + ?", delta))
		if res.Error != nil {
			return fmt.Errorf("update ledger of user %d: %w", req.OwnerID(), res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound // Owner deleted, roll the status back too
		}
		return nil
	})
	if err != nil {
		// gorm's Update writes the new value into the model even when the
		// transaction is rolled back.
		req.SetStatus(from)
		return err
	}
	req.SetStatus(to)
	return nil
}
