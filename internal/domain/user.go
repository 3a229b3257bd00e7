package domain

import "time"

// Role distinguishes members from admins
type Role int

const (
	RoleMember Role = 0 // Regular dashboard user
	RoleAdmin  Role = 1 // Admin console user
)

// User Model
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                             // Primary key
	FullName      string    `gorm:"size:120" json:"fullName"`                         // Display name
	UserName      string    `gorm:"size:60;uniqueIndex;not null" json:"userName"`     // Unique user name
	Email         string    `gorm:"size:191;uniqueIndex;not null" json:"email"`       // Unique email, used for notices
	Password      string    `gorm:"not null" json:"-"`                                // Hashed password
	Investment    string    `gorm:"size:60" json:"investment"`                        // Preferred investment category
	Address       string    `gorm:"size:255" json:"address"`                          // Postal address
	PhoneNo       string    `gorm:"size:40" json:"phoneNo"`                           // Phone number
	TotalInvest   float64   `gorm:"not null;default:0" json:"totalInvest"`            // Ledger: net approved funding
	TotalProfit   float64   `gorm:"not null;default:0" json:"totalProfit"`            // Accrued profit
	RefBonus      float64   `gorm:"not null;default:0" json:"refBonus"`               // Referral bonus
	ReferralCount int       `gorm:"not null;default:0" json:"referralCount"`          // Number of referred users
	ReferralCode  string    `gorm:"size:32;uniqueIndex;not null" json:"referralCode"` // Own referral code
	ReferredBy    string    `gorm:"size:32" json:"referredBy"`                        // Referral code of the referrer
	Role          Role      `gorm:"not null;default:0" json:"role"`                   // 0 member, 1 admin
	CreatedAt     time.Time `gorm:"<-:create" json:"createdAt"`                       // Creation time, never updated
	UpdatedAt     time.Time `json:"updatedAt"`                                        // Last update time
}

// IsAdmin reports whether the user may use the admin console
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
