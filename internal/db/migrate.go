package db

import (
	"errors"  // Error classification
	"strings" // Email normalization

	"investment_platform/internal/domain" // Importing domain models
	"investment_platform/internal/utils"  // Referral codes

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Open connects to MySQL with driver errors translated to gorm's sentinels
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true, // Duplicate keys surface as gorm.ErrDuplicatedKey
	})
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(&domain.User{}, &domain.Deposit{}, &domain.Withdrawal{})
}

// SeedAdmin creates the admin account if no user has that email, or promotes it otherwise
func SeedAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email)) // Emails are stored lowercase
	var user domain.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if user.IsAdmin() {
			return nil // Nothing to do
		}
		logrus.WithField("user_id", user.ID).Info("Promoting existing user to admin")
		return db.Model(&user).Update("role", domain.RoleAdmin).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err // Lookup failed
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err // Hashing failed
	}
	admin := domain.User{
		FullName:     "Administrator",              // Display name
		UserName:     strings.Split(email, "@")[0], // Local part of the email
		Email:        email,                        // Login email
		Password:     string(hash),                 // Hashed password
		ReferralCode: utils.NewReferralCode(),      // Own referral code
		Role:         domain.RoleAdmin,             // Admin console access
	}
	if err := db.Create(&admin).Error; err != nil {
		return err // Insert failed
	}
	logrus.WithField("user_id", admin.ID).Info("Admin account created")
	return nil
}
