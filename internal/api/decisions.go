package api

import (
	"context"  // Context for workflow and Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"investment_platform/internal/domain" // Domain models
	"investment_platform/internal/ledger" // Approval workflow
	"investment_platform/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Decider applies admin decisions to deposits and withdrawals
type Decider interface {
	Decline(ctx context.Context, kind domain.Kind, id uint) (domain.Request, error)
	Approve(ctx context.Context, kind domain.Kind, id uint) (domain.Request, error)
}

// DeclineDepositHandler declines a deposit, reversing it if it was approved
func DeclineDepositHandler(d Decider) gin.HandlerFunc {
	return decisionHandler(d.Decline, domain.KindDeposit, "depositId", "declining", "declined")
}

// DeclineWithdrawalHandler declines a withdrawal, reversing it if it was approved
func DeclineWithdrawalHandler(d Decider) gin.HandlerFunc {
	return decisionHandler(d.Decline, domain.KindWithdrawal, "withdrawalId", "declining", "declined")
}

// ApproveDepositHandler approves a pending deposit
func ApproveDepositHandler(d Decider) gin.HandlerFunc {
	return decisionHandler(d.Approve, domain.KindDeposit, "depositId", "approving", "approved")
}

// ApproveWithdrawalHandler approves a pending withdrawal
func ApproveWithdrawalHandler(d Decider) gin.HandlerFunc {
	return decisionHandler(d.Approve, domain.KindWithdrawal, "withdrawalId", "approving", "approved")
}

// decisionHandler builds the handler shared by every admin decision route
func decisionHandler(
	apply func(context.Context, domain.Kind, uint) (domain.Request, error),
	kind domain.Kind, param, gerund, past string,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, param) // Identifier from the path
		if !ok {
			// Missing or malformed identifier
			c.JSON(http.StatusBadRequest, gin.H{"message": title(kind) + " ID is required"})
			return
		}
		req, err := apply(c.Request.Context(), kind, id) // Run the transition
		if err != nil {
			respondWorkflowError(c, kind, gerund, err) // Map the failure
			return
		}
		// Return the updated record under its kind
		c.JSON(http.StatusOK, gin.H{
			"message":    title(kind) + " " + past + " successfully", // Human readable outcome
			string(kind): req,                                        // Updated record
		})
	}
}

// CacheInvalidation drops cached views that a committed transition made stale
func CacheInvalidation(rdb *redis.Client) ledger.Hook {
	return ledger.HookFunc(func(ctx context.Context, ev ledger.Event) error {
		owner := strconv.FormatUint(uint64(ev.Request.OwnerID()), 10) // Owner of the request
		if err := utils.DeleteCache(ctx, rdb, utils.UserHistoryPrefix+owner); err != nil {
			return err // History cache could not be dropped
		}
		if err := utils.DeleteCachePrefix(ctx, rdb, utils.AdminRequestsPrefix); err != nil {
			return err // Request lists show the old status
		}
		return utils.DeleteCachePrefix(ctx, rdb, utils.AdminUsersPrefix) // Totals shown in the user list changed
	})
}
