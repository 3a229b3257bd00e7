package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"investment_platform/internal/domain" // Domain models
	"investment_platform/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// usersPage is the cached shape of one page of the admin user list
type usersPage struct {
	Users      []domain.User `json:"users"`       // List of users
	Page       int           `json:"page"`        // Current page
	PageSize   int           `json:"page_size"`   // Page size
	Total      int64         `json:"total"`       // Total number of users
	TotalPages int           `json:"total_pages"` // Total pages
}

// ListUsersHandler returns users page by page, newest first
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pageParams(c) // Pagination parameters
		// Create a cache key based on pagination parameters
		cacheKey := utils.AdminUsersPrefix + "page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached usersPage
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,      // List of users
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of users
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		var total int64 // Total user count
		if err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to count users"})
			return
		}
		var users []domain.User // Slice to hold users
		if err := db.WithContext(ctx).Order("created_at desc").
			Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"})
			return
		}
		resp := usersPage{
			Users:      users,                       // List of users
			Page:       page,                        // Current page
			PageSize:   pageSize,                    // Page size
			Total:      total,                       // Total number of users
			TotalPages: totalPages(total, pageSize), // Total pages
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{
			"users":       resp.Users,
			"page":        resp.Page,
			"page_size":   resp.PageSize,
			"total":       resp.Total,
			"total_pages": resp.TotalPages,
			"cached":      false, // Indicate response is not from cache
		})
	}
}

// GetUserHandler returns the full profile of one user
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id") // User ID from the path
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required"})
			return
		}
		var user domain.User
		if err := db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// UpdateUserRequest is the full profile document sent by the admin editor
type UpdateUserRequest struct {
	FullName      string   `json:"fullName" binding:"required"`     // Display name
	UserName      string   `json:"userName" binding:"required"`     // User name
	Email         string   `json:"email" binding:"required,email"`  // Email
	Investment    string   `json:"investment"`                      // Preferred category
	Address       string   `json:"address"`                         // Address
	PhoneNo       string   `json:"phoneNo"`                         // Phone number
	TotalInvest   *float64 `json:"totalInvest"`                     // Echoed back by the editor, must be unchanged
	TotalProfit   float64  `json:"totalProfit"`                     // Accrued profit
	RefBonus      float64  `json:"refBonus"`                        // Referral bonus
	ReferralCount int      `json:"referralCount" binding:"gte=0"`   // Referred users
	ReferralCode  string   `json:"referralCode" binding:"required"` // Own referral code
	ReferredBy    string   `json:"referredBy"`                      // Referrer code
}

// editableUserColumns are written by the admin editor; total_invest is not among them
var editableUserColumns = []string{
	"full_name", "user_name", "email", "investment", "address", "phone_no",
	"total_profit", "ref_bonus", "referral_count", "referral_code", "referred_by", "updated_at",
}

// UpdateUserHandler replaces the editable fields of a user's profile
func UpdateUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id") // User ID from the path
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required"})
			return
		}
		var req UpdateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Full name, user name, email and referral code are required"})
			return
		}
		ctx := c.Request.Context()
		var user domain.User
		if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user"})
			return
		}
		// The ledger only moves through deposit and withdrawal decisions
		if req.TotalInvest != nil && *req.TotalInvest != user.TotalInvest {
			c.JSON(http.StatusBadRequest, gin.H{"message": "totalInvest changes only through deposit and withdrawal decisions"})
			return
		}
		user.FullName = req.FullName
		user.UserName = req.UserName
		user.Email = req.Email
		user.Investment = req.Investment
		user.Address = req.Address
		user.PhoneNo = req.PhoneNo
		user.TotalProfit = req.TotalProfit
		user.RefBonus = req.RefBonus
		user.ReferralCount = req.ReferralCount
		user.ReferralCode = req.ReferralCode
		user.ReferredBy = req.ReferredBy
		user.UpdatedAt = time.Now()
		// Select writes zero values too, as a full-document update must
		if err := db.WithContext(ctx).Model(&user).Select(editableUserColumns).Updates(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Email, user name or referral code already in use"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": id,          // User ID
				"error":   err.Error(), // Error message
			}).Error("User update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
			return
		}
		invalidateUsers(ctx, rdb) // List pages show stale data now
		logrus.WithField("user_id", id).Info("User updated by admin")
		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
	}
}

// DeleteUserHandler hard-deletes a user; their requests stay for the record
func DeleteUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id") // User ID from the path
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required"})
			return
		}
		// Admins may not delete their own account from the console
		if caller, ok := callerID(c); ok && caller == id {
			c.JSON(http.StatusBadRequest, gin.H{"message": "You cannot delete your own account"})
			return
		}
		ctx := c.Request.Context()
		res := db.WithContext(ctx).Delete(&domain.User{}, id)
		if res.Error != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": id,                // User ID
				"error":   res.Error.Error(), // Error message
			}).Error("User delete failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// List pages and their history are stale now
		invalidateUsers(ctx, rdb)
		invalidateRequests(ctx, rdb, id)
		logrus.WithField("user_id", id).Info("User deleted by admin")
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// ListDepositsHandler returns deposits, optionally filtered by status and user
func ListDepositsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		listRequests[domain.Deposit](c, db, rdb, "deposits")
	}
}

// ListWithdrawalsHandler returns withdrawals, optionally filtered by status and user
func ListWithdrawalsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		listRequests[domain.Withdrawal](c, db, rdb, "withdrawals")
	}
}

// requestsPage is the cached shape of one page of deposits or withdrawals
type requestsPage[T domain.Deposit | domain.Withdrawal] struct {
	Rows       []T   `json:"rows"`        // Records
	Page       int   `json:"page"`        // Current page
	PageSize   int   `json:"page_size"`   // Page size
	Total      int64 `json:"total"`       // Total matching rows
	TotalPages int   `json:"total_pages"` // Total pages
}

// listRequests serves one page of deposits or withdrawals under key
func listRequests[T domain.Deposit | domain.Withdrawal](c *gin.Context, db *gorm.DB, rdb *redis.Client, key string) {
	ctx := c.Request.Context()
	page, pageSize := pageParams(c) // Pagination parameters
	status, userID := c.Query("status"), c.Query("user_id")
	// Create a cache key based on pagination and filters
	cacheKey := utils.AdminRequestsPrefix + key + ":page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize) +
		":status=" + status + ":user=" + userID
	var resp requestsPage[T]
	cached, err := utils.GetCache(ctx, rdb, cacheKey, &resp)
	if err != nil || !cached {
		query := db.WithContext(ctx).Model(new(T)) // Start building the query
		if status != "" {
			query = query.Where("status = ?", status) // Filter by status
		}
		if userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by owner
		}
		var total int64 // Total matching rows
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to count " + key})
			return
		}
		var rows []T // Slice to hold records
		if err := query.Order("created_at desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch " + key})
			return
		}
		resp = requestsPage[T]{
			Rows:       rows,                        // Records
			Page:       page,                        // Current page
			PageSize:   pageSize,                    // Page size
			Total:      total,                       // Total matching rows
			TotalPages: totalPages(total, pageSize), // Total pages
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		cached = false
	}
	c.JSON(http.StatusOK, gin.H{
		key:           resp.Rows,
		"page":        resp.Page,
		"page_size":   resp.PageSize,
		"total":       resp.Total,
		"total_pages": resp.TotalPages,
		"cached":      cached, // Whether the page came from Redis
	})
}

// DeleteDepositHandler hard-deletes a pending or declined deposit
func DeleteDepositHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return adminDeleteHandler(db, rdb, domain.KindDeposit, "depositId")
}

// DeleteWithdrawalHandler hard-deletes a pending or declined withdrawal
func DeleteWithdrawalHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return adminDeleteHandler(db, rdb, domain.KindWithdrawal, "withdrawalId")
}

// adminDeleteHandler deletes any user's request that has no ledger effect
func adminDeleteHandler(db *gorm.DB, rdb *redis.Client, kind domain.Kind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, param) // Record ID from the path
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": title(kind) + " ID is required"})
			return
		}
		req, ok := deleteRequest(c, db, kind, id, nil, domain.StatusPending, domain.StatusDeclined)
		if !ok {
			return // Response already written
		}
		invalidateRequests(c.Request.Context(), rdb, req.OwnerID()) // Owner's history and the admin lists changed
		logrus.WithFields(logrus.Fields{
			"kind": kind, // Request kind
			"id":   id,   // Record ID
		}).Info("Request deleted by admin")
		c.JSON(http.StatusOK, gin.H{"message": title(kind) + " deleted successfully"})
	}
}

// invalidateUsers drops every cached page of the admin user list
func invalidateUsers(ctx context.Context, rdb *redis.Client) {
	if err := utils.DeleteCachePrefix(ctx, rdb, utils.AdminUsersPrefix); err != nil {
		logrus.WithField("error", err.Error()).Warn("Failed to invalidate user list cache")
	}
}
