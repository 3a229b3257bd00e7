package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"sort"     // Ordering merged history
	"strconv"  // String conversion
	"time"     // Time durations

	"investment_platform/internal/domain" // Domain models
	"investment_platform/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// DepositRequest represents a deposit request
type DepositRequest struct {
	Amount     float64 `json:"amount" binding:"required,gt=0"` // Deposit amount
	Type       string  `json:"type" binding:"required"`        // Payment method
	Investment string  `json:"investment" binding:"required"`  // Investment category
	Plan       string  `json:"plan" binding:"required"`        // Plan within the category
}

// WithdrawalRequest represents a withdrawal request
type WithdrawalRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"` // Withdrawal amount
	Method string  `json:"method" binding:"required"`      // Payout method
	Wallet string  `json:"wallet" binding:"required"`      // Payout address
}

// HistoryEntry is one deposit or withdrawal in the user's history
type HistoryEntry struct {
	ID         uint          `json:"id"`                   // Record ID
	Type       string        `json:"type"`                 // Deposit or Withdrawal
	Amount     float64       `json:"amount"`               // Amount
	Status     domain.Status `json:"status"`               // Lifecycle state
	Investment string        `json:"investment,omitempty"` // Deposit category
	Plan       string        `json:"plan,omitempty"`       // Deposit plan
	Method     string        `json:"method,omitempty"`     // Deposit type or withdrawal method
	Wallet     string        `json:"wallet,omitempty"`     // Withdrawal address
	CreatedAt  time.Time     `json:"createdAt"`            // Creation time
}

// PlansHandler returns the investment plan catalog
func PlansHandler(catalog domain.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"plans": catalog})
	}
}

// ProfileHandler returns the authenticated user's profile
func ProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c) // Caller from the session
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// CreateDepositHandler records a pending deposit for the authenticated user
func CreateDepositHandler(db *gorm.DB, rdb *redis.Client, catalog domain.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c) // Caller from the session
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req DepositRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Amount, type, investment and plan are required"})
			return
		}
		plan, found := catalog.Find(req.Investment, req.Plan) // Validate the chosen plan
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown investment plan"})
			return
		}
		if !plan.Accepts(req.Amount) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Amount is outside the limits of the " + plan.Name + " plan"})
			return
		}
		deposit := domain.Deposit{
			UserID:     userID,               // Owner
			Amount:     req.Amount,           // Amount
			Type:       req.Type,             // Payment method
			Investment: req.Investment,       // Category
			Plan:       req.Plan,             // Plan
			Status:     domain.StatusPending, // Awaiting admin decision
		}
		if err := db.WithContext(c.Request.Context()).Create(&deposit).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"amount":  req.Amount,  // Deposit amount
				"error":   err.Error(), // Error message
			}).Error("Deposit failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Deposit failed"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,     // User ID
			"deposit_id": deposit.ID, // Deposit ID
			"amount":     req.Amount, // Deposit amount
			"plan":       req.Plan,   // Plan
		}).Info("Deposit submitted")
		invalidateRequests(c.Request.Context(), rdb, userID) // History changed
		c.JSON(http.StatusCreated, gin.H{"message": "Deposit submitted, awaiting approval", "deposit": deposit})
	}
}

// CreateWithdrawalHandler records a pending withdrawal for the authenticated user
func CreateWithdrawalHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c) // Caller from the session
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req WithdrawalRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Amount, method and wallet are required"})
			return
		}
		withdrawal := domain.Withdrawal{
			UserID: userID,               // Owner
			Amount: req.Amount,           // Amount
			Method: req.Method,           // Payout method
			Wallet: req.Wallet,           // Payout address
			Status: domain.StatusPending, // Awaiting admin decision
		}
		if err := db.WithContext(c.Request.Context()).Create(&withdrawal).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"amount":  req.Amount,  // Withdrawal amount
				"error":   err.Error(), // Error message
			}).Error("Withdrawal failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Withdrawal failed"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":       userID,        // User ID
			"withdrawal_id": withdrawal.ID, // Withdrawal ID
			"amount":        req.Amount,    // Withdrawal amount
		}).Info("Withdrawal submitted")
		invalidateRequests(c.Request.Context(), rdb, userID) // History changed
		c.JSON(http.StatusCreated, gin.H{"message": "Withdrawal submitted, awaiting approval", "withdrawal": withdrawal})
	}
}

// HistoryHandler returns the caller's deposits and withdrawals, newest first
func HistoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c) // Caller from the session
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.UserHistoryPrefix + strconv.FormatUint(uint64(userID), 10) // Cache key for history
		var history []HistoryEntry
		// Try the cache first
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &history); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"history": history, "cached": true})
			return
		}
		var deposits []domain.Deposit
		if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&deposits).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch history"})
			return
		}
		var withdrawals []domain.Withdrawal
		if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&withdrawals).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch history"})
			return
		}
		history = mergeHistory(deposits, withdrawals)                   // Single newest-first list
		_ = utils.SetCache(ctx, rdb, cacheKey, history, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"history": history, "cached": false})
	}
}

// mergeHistory flattens deposits and withdrawals into one list ordered by creation time, newest first
func mergeHistory(deposits []domain.Deposit, withdrawals []domain.Withdrawal) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(deposits)+len(withdrawals))
	for _, d := range deposits {
		out = append(out, HistoryEntry{
			ID:         d.ID,
			Type:       "Deposit",
			Amount:     d.Amount,
			Status:     d.Status,
			Investment: d.Investment,
			Plan:       d.Plan,
			Method:     d.Type, // Payment type doubles as the method
			CreatedAt:  d.CreatedAt,
		})
	}
	for _, w := range withdrawals {
		out = append(out, HistoryEntry{
			ID:        w.ID,
			Type:      "Withdrawal",
			Amount:    w.Amount,
			Status:    w.Status,
			Method:    w.Method,
			Wallet:    w.Wallet,
			CreatedAt: w.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// DeleteHistoryHandler lets a user withdraw one of their own pending requests
func DeleteHistoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c) // Caller from the session
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		kind, err := domain.ParseKind(c.DefaultQuery("type", string(domain.KindDeposit))) // Which table
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "type must be deposit or withdrawal"})
			return
		}
		id, ok := parseID(c, "id") // Record ID from the path
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "History ID is required"})
			return
		}
		owner := userID // Restrict to the caller's own records
		if _, ok := deleteRequest(c, db, kind, id, &owner, domain.StatusPending); !ok {
			return // Response already written
		}
		invalidateRequests(c.Request.Context(), rdb, userID) // History changed
		c.JSON(http.StatusOK, gin.H{"message": title(kind) + " deleted successfully"})
	}
}

// deleteRequest hard-deletes a deposit or withdrawal whose status is one of allowed.
// A non-nil owner restricts the delete to that user's records. It writes the
// error response itself and reports whether the row was deleted.
func deleteRequest(c *gin.Context, db *gorm.DB, kind domain.Kind, id uint, owner *uint, allowed ...domain.Status) (domain.Request, bool) {
	ctx := c.Request.Context()
	req := domain.NewRequest(kind) // Empty record of the right table
	query := db.WithContext(ctx).Where("id = ?", id)
	if owner != nil {
		query = query.Where("user_id = ?", *owner) // Only the caller's records
	}
	if err := query.First(req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": title(kind) + " not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load " + string(kind)})
		return nil, false
	}
	// Approved records carry ledger effect and must be declined first
	permitted := false
	for _, s := range allowed {
		if req.CurrentStatus() == s {
			permitted = true
		}
	}
	if !permitted {
		c.JSON(http.StatusBadRequest, gin.H{"message": title(kind) + " is " + string(req.CurrentStatus()) + " and cannot be deleted"})
		return nil, false
	}
	// Guard on the status we checked so a concurrent approval wins
	res := db.WithContext(ctx).Where("status = ?", req.CurrentStatus()).Delete(req)
	if res.Error != nil {
		logrus.WithFields(logrus.Fields{
			"kind":  kind,              // Request kind
			"id":    id,                // Record ID
			"error": res.Error.Error(), // Error message
		}).Error("Delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete " + string(kind)})
		return nil, false
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"message": title(kind) + " was modified by another request, reload and retry"})
		return nil, false
	}
	return req, true
}

// invalidateRequests drops the cached history of a user and every cached
// page of the admin request lists
func invalidateRequests(ctx context.Context, rdb *redis.Client, userID uint) {
	key := utils.UserHistoryPrefix + strconv.FormatUint(uint64(userID), 10) // Cache key for history
	if err := utils.DeleteCache(ctx, rdb, key); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // User ID
			"error":   err.Error(), // Error message
		}).Warn("Failed to invalidate history cache")
	}
	if err := utils.DeleteCachePrefix(ctx, rdb, utils.AdminRequestsPrefix); err != nil {
		logrus.WithField("error", err.Error()).Warn("Failed to invalidate request list cache")
	}
}
