package domain

import "time"

// Withdrawal Model
type Withdrawal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                 // Primary key
	UserID    uint      `gorm:"not null;index" json:"userId"`                         // Owning user
	Amount    float64   `gorm:"not null" json:"amount"`                               // Requested amount
	Method    string    `gorm:"size:60" json:"method"`                                // Payout method
	Wallet    string    `gorm:"size:255" json:"wallet"`                               // Payout address
	Status    Status    `gorm:"size:16;not null;default:Pending;index" json:"status"` // Lifecycle state
	CreatedAt time.Time `gorm:"<-:create" json:"createdAt"`                           // Creation time, never updated
	UpdatedAt time.Time `json:"updatedAt"`                                            // Last update time
}

func (w *Withdrawal) RequestKind() Kind      { return KindWithdrawal }
func (w *Withdrawal) RequestID() uint        { return w.ID }
func (w *Withdrawal) OwnerID() uint          { return w.UserID }
func (w *Withdrawal) RequestAmount() float64 { return w.Amount }
func (w *Withdrawal) CurrentStatus() Status  { return w.Status }
func (w *Withdrawal) SetStatus(s Status)     { w.Status = s }
