package api

import (
	"context"  // Context for revocation
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Session lifetime

	"investment_platform/internal/domain"     // Domain models
	"investment_platform/internal/middleware" // Session context helpers
	"investment_platform/internal/utils"      // JWT and referral helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Revoker invalidates a session before its token expires
type Revoker interface {
	Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error
}

// Sessions holds what the auth handlers need to issue and end sessions
type Sessions struct {
	Secret  string        // JWT signing secret
	Cookie  string        // Session cookie name
	TTL     time.Duration // Session lifetime
	Secure  bool          // Mark cookie Secure (production)
	Revoker Revoker       // Revocation list used by logout
}

// RegisterRequest is the sign-up payload
type RegisterRequest struct {
	FullName     string `json:"fullName" binding:"required"`       // Display name
	UserName     string `json:"userName" binding:"required"`       // Unique user name
	Email        string `json:"email" binding:"required,email"`    // Unique email
	Password     string `json:"password" binding:"required,min=8"` // Plain password, hashed before storage
	PhoneNo      string `json:"phoneNo"`                           // Optional phone number
	Address      string `json:"address"`                           // Optional address
	ReferralCode string `json:"referralCode"`                      // Optional code of the referring user
}

// LoginRequest accepts an email or a user name as identifier
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // Email or user name
	Password   string `json:"password" binding:"required"`   // Plain password
}

// errBadReferral signals an unknown referral code inside the sign-up transaction
var errBadReferral = errors.New("unknown referral code")

// RegisterHandler creates a member account, linking it to a referrer when a code is given
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Full name, user name, valid email and a password of at least 8 characters are required"})
			return
		}
		// Hash the password before anything touches the database
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		user := domain.User{
			FullName:     strings.TrimSpace(req.FullName),                  // Display name
			UserName:     strings.ToLower(strings.TrimSpace(req.UserName)), // Case-insensitive user name
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),    // Case-insensitive email
			Password:     string(hash),                                     // Hashed password
			PhoneNo:      req.PhoneNo,                                      // Phone number
			Address:      req.Address,                                      // Address
			ReferralCode: utils.NewReferralCode(),                          // Own referral code
			Role:         domain.RoleMember,                                // Sign-up never grants admin
		}
		// Create the user and credit the referrer atomically
		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if code := strings.ToUpper(strings.TrimSpace(req.ReferralCode)); code != "" {
				res := tx.Model(&domain.User{}).
					Where("referral_code = ?", code).
					Update("referral_count", gorm.Expr("referral_count + 1"))
				if res.Error != nil {
					return res.Error // Return error to rollback
				}
				if res.RowsAffected == 0 {
					return errBadReferral // Unknown code, rollback
				}
				user.ReferredBy = code // Link to the referrer
			}
			return tx.Create(&user).Error // Save the user
		})
		switch {
		case err == nil:
		case errors.Is(err, errBadReferral):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid referral code"})
			return
		case errors.Is(err, gorm.ErrDuplicatedKey):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email or user name already in use"})
			return
		default:
			logrus.WithFields(logrus.Fields{
				"email": user.Email,  // Requested email
				"error": err.Error(), // Error message
			}).Error("Registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,         // New user ID
			"referred_by": user.ReferredBy, // Referrer code, if any
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
	}
}

// LoginHandler verifies credentials and starts a session
func LoginHandler(db *gorm.DB, s Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Identifier and password are required"})
			return
		}
		ident := strings.ToLower(strings.TrimSpace(req.Identifier)) // Normalized identifier
		var user domain.User
		// Look the user up by email or user name
		if err := db.WithContext(c.Request.Context()).
			Where("email = ? OR user_name = ?", ident, ident).
			First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		token, claims, err := utils.GenerateJWT(user.ID, s.Secret, s.TTL) // Issue the session token
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}
		// HttpOnly session cookie, same lifetime as the token
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(s.Cookie, token, int(s.TTL.Seconds()), "/", "", s.Secure, true)
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,   // User ID
			"session_id": claims.ID, // Session ID
		}).Info("User logged in")
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "user": user})
	}
}

// LogoutHandler revokes the current session and clears the cookie
func LogoutHandler(s Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.CurrentPrincipal(c) // Principal set by the session middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if err := s.Revoker.Revoke(c.Request.Context(), p.SessionID, p.ExpiresAt); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": p.UserID,    // User ID
				"error":   err.Error(), // Error message
			}).Error("Failed to revoke session")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Logout failed"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(s.Cookie, "", -1, "/", "", s.Secure, true) // Expire the cookie
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
