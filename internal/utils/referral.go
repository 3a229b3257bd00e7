package utils

import (
	"strings" // String manipulation

	"github.com/google/uuid" // Random source for codes
)

// NewReferralCode generates a 10 character upper-case referral code
func NewReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
