package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"investment_platform/internal/auth"
	"investment_platform/internal/domain"
	"investment_platform/internal/ledger"
	"investment_platform/internal/middleware"
	"investment_platform/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type call struct {
	op   string
	kind domain.Kind
	id   uint
}

// fakeDecider records calls and answers with a canned result.
type fakeDecider struct {
	calls []call
	req   domain.Request
	err   error
}

func (f *fakeDecider) Decline(_ context.Context, kind domain.Kind, id uint) (domain.Request, error) {
	f.calls = append(f.calls, call{"decline", kind, id})
	return f.req, f.err
}

func (f *fakeDecider) Approve(_ context.Context, kind domain.Kind, id uint) (domain.Request, error) {
	f.calls = append(f.calls, call{"approve", kind, id})
	return f.req, f.err
}

func decisionRouter(d Decider) *gin.Engine {
	r := gin.New()
	r.PUT("/deposits/approve/:depositId", ApproveDepositHandler(d))
	r.PUT("/deposits/decline/:depositId", DeclineDepositHandler(d))
	r.PUT("/withdrawals/approve/:withdrawalId", ApproveWithdrawalHandler(d))
	r.PUT("/withdrawals/decline/:withdrawalId", DeclineWithdrawalHandler(d))
	return r
}

func put(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, path, nil))
	return w
}

func TestDeclineDepositHandler(t *testing.T) {
	d := &fakeDecider{req: &domain.Deposit{ID: 10, UserID: 1, Amount: 200, Status: domain.StatusDeclined}}
	w := put(decisionRouter(d), "/deposits/decline/10")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Message string         `json:"message"`
		Deposit domain.Deposit `json:"deposit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Deposit declined successfully", body.Message)
	assert.Equal(t, uint(10), body.Deposit.ID)
	assert.Equal(t, domain.StatusDeclined, body.Deposit.Status)
	assert.Equal(t, []call{{"decline", domain.KindDeposit, 10}}, d.calls)
}

func TestDeclineWithdrawalHandler(t *testing.T) {
	d := &fakeDecider{req: &domain.Withdrawal{ID: 20, UserID: 2, Amount: 150, Status: domain.StatusDeclined}}
	w := put(decisionRouter(d), "/withdrawals/decline/20")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `"Withdrawal declined successfully"`, string(body["message"]))
	assert.Contains(t, body, "withdrawal")
	assert.Equal(t, []call{{"decline", domain.KindWithdrawal, 20}}, d.calls)
}

func TestApproveHandlers(t *testing.T) {
	d := &fakeDecider{req: &domain.Deposit{ID: 11, Status: domain.StatusApproved}}
	w := put(decisionRouter(d), "/deposits/approve/11")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Deposit approved successfully")

	d = &fakeDecider{req: &domain.Withdrawal{ID: 21, Status: domain.StatusApproved}}
	w = put(decisionRouter(d), "/withdrawals/approve/21")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []call{{"approve", domain.KindWithdrawal, 21}}, d.calls)
}

func TestDecisionHandler_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		err     error
		code    int
		message string
	}{
		{"missing deposit", "/deposits/decline/404", ledger.ErrRequestNotFound, http.StatusNotFound, "Deposit not found"},
		{"missing withdrawal", "/withdrawals/decline/404", fmt.Errorf("decline withdrawal 404: %w", ledger.ErrRequestNotFound), http.StatusNotFound, "Withdrawal not found"},
		{"removed owner", "/deposits/decline/13", ledger.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"already declined", "/deposits/decline/12", ledger.ErrAlreadyDeclined, http.StatusBadRequest, "Deposit is already Declined"},
		{"already approved", "/withdrawals/approve/21", ledger.ErrAlreadyApproved, http.StatusBadRequest, "Withdrawal is already Approved"},
		{"terminal", "/deposits/approve/12", ledger.ErrTerminal, http.StatusBadRequest, "Deposit has been Declined and cannot be changed"},
		{"lost race", "/deposits/decline/11", ledger.ErrStaleStatus, http.StatusConflict, "Deposit was modified by another request, reload and retry"},
		{"storage", "/deposits/decline/10", errors.New("connection reset"), http.StatusInternalServerError, "An error occurred while declining the deposit"},
		{"storage approve", "/withdrawals/approve/20", errors.New("connection reset"), http.StatusInternalServerError, "An error occurred while approving the withdrawal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := put(decisionRouter(&fakeDecider{err: tt.err}), tt.path)
			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tt.message), w.Body.String())
		})
	}
}

func TestDecisionHandler_BadID(t *testing.T) {
	for _, path := range []string{"/deposits/decline/abc", "/deposits/decline/0", "/deposits/decline/-3"} {
		d := &fakeDecider{}
		w := put(decisionRouter(d), path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.JSONEq(t, `{"message":"Deposit ID is required"}`, w.Body.String())
		assert.Empty(t, d.calls, "no decision without an id")
	}
}

type staticAuthorizer struct {
	p   auth.Principal
	err error
}

func (s staticAuthorizer) Authorize(*http.Request) (auth.Principal, error) {
	return s.p, s.err
}

func TestDecisionRoutesRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		a    staticAuthorizer
		code int
	}{
		{"anonymous", staticAuthorizer{err: auth.ErrUnauthorized}, http.StatusUnauthorized},
		{"member", staticAuthorizer{p: auth.Principal{UserID: 2, Role: domain.RoleMember}}, http.StatusForbidden},
		{"admin", staticAuthorizer{p: auth.Principal{UserID: 1, Role: domain.RoleAdmin}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDecider{req: &domain.Deposit{ID: 10, Status: domain.StatusDeclined}}
			r := gin.New()
			admin := r.Group("/api/admin", middleware.AdminOnlyMiddleware(tt.a))
			admin.PUT("/deposits/decline/:depositId", DeclineDepositHandler(d))

			w := put(r, "/api/admin/deposits/decline/10")
			assert.Equal(t, tt.code, w.Code)
			if tt.code != http.StatusOK {
				assert.Empty(t, d.calls, "rejected callers must not reach the workflow")
			}
		})
	}
}

func TestCacheInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	require.NoError(t, mr.Set(utils.UserHistoryPrefix+"1", "[]"))
	require.NoError(t, mr.Set(utils.UserHistoryPrefix+"2", "[]"))
	require.NoError(t, mr.Set(utils.AdminUsersPrefix+"1:20", "{}"))
	require.NoError(t, mr.Set(utils.AdminUsersPrefix+"2:20", "{}"))
	require.NoError(t, mr.Set(utils.AdminRequestsPrefix+"deposits:page=1:size=20:status=Pending:user=", "{}"))

	hook := CacheInvalidation(rdb)
	err := hook.AfterCommit(context.Background(), ledger.Event{
		Kind:    domain.KindDeposit,
		From:    domain.StatusApproved,
		To:      domain.StatusDeclined,
		Request: &domain.Deposit{ID: 10, UserID: 1},
	})
	require.NoError(t, err)

	assert.False(t, mr.Exists(utils.UserHistoryPrefix+"1"))
	assert.True(t, mr.Exists(utils.UserHistoryPrefix+"2"), "other users keep their cache")
	assert.False(t, mr.Exists(utils.AdminUsersPrefix+"1:20"))
	assert.False(t, mr.Exists(utils.AdminUsersPrefix+"2:20"))
	assert.False(t, mr.Exists(utils.AdminRequestsPrefix+"deposits:page=1:size=20:status=Pending:user="))
}
