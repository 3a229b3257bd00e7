package domain

import "time"

// Deposit Model
type Deposit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`                                 // Primary key
	UserID     uint      `gorm:"not null;index" json:"userId"`                         // Owning user
	Amount     float64   `gorm:"not null" json:"amount"`                               // Requested amount
	Type       string    `gorm:"size:60" json:"type"`                                  // Payment method
	Investment string    `gorm:"size:60" json:"investment"`                            // Investment category
	Plan       string    `gorm:"size:60" json:"plan"`                                  // Plan within the category
	Status     Status    `gorm:"size:16;not null;default:Pending;index" json:"status"` // Lifecycle state
	CreatedAt  time.Time `gorm:"<-:create" json:"createdAt"`                           // Creation time, never updated
	UpdatedAt  time.Time `json:"updatedAt"`                                            // Last update time
}

func (d *Deposit) RequestKind() Kind      { return KindDeposit }
func (d *Deposit) RequestID() uint        { return d.ID }
func (d *Deposit) OwnerID() uint          { return d.UserID }
func (d *Deposit) RequestAmount() float64 { return d.Amount }
func (d *Deposit) CurrentStatus() Status  { return d.Status }
func (d *Deposit) SetStatus(s Status)     { d.Status = s }
