package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"investment_platform/internal/auth"
	"investment_platform/internal/middleware"
	"investment_platform/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const registerBody = `{"fullName":"Ann Lee","userName":"Ann","email":"Ann@Example.com","password":"hunter2hunter2","referralCode":"a1b2c3d4e5"}`

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegisterHandler_CreditsReferrer(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET .*referral_count \\+ 1.*WHERE referral_code = \\?").
		WithArgs(sqlmock.AnyArg(), "A1B2C3D4E5").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	r := gin.New()
	r.POST("/register", RegisterHandler(db))
	w := postJSON(r, "/register", registerBody)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"referredBy":"A1B2C3D4E5"`)
	assert.Contains(t, w.Body.String(), `"email":"ann@example.com"`)
	assert.Contains(t, w.Body.String(), `"role":0`)
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterHandler_UnknownReferralRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET .*referral_count \\+ 1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	r := gin.New()
	r.POST("/register", RegisterHandler(db))
	w := postJSON(r, "/register", registerBody)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid referral code"}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet(), "the user must not be inserted")
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	columns := append(append([]string{}, userColumns...), "password")
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(columns).AddRow(3, "Ann Lee", "ann", "ann@example.com", 500, "A1B2C3D4E5", 0, string(hash))
	}

	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE .*email = \\? OR user_name = \\?").WillReturnRows(row())
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE .*email = \\? OR user_name = \\?").WillReturnRows(row())
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE .*email = \\? OR user_name = \\?").WillReturnRows(sqlmock.NewRows(columns))

	s := Sessions{Secret: "test-secret", Cookie: "token", TTL: time.Hour}
	r := gin.New()
	r.POST("/login", LoginHandler(db, s))

	w := postJSON(r, "/login", `{"identifier":"Ann@Example.com","password":"hunter2hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookie := sessionCookie(w, "token")
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)
	claims, err := utils.ParseJWT(cookie.Value, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.NotContains(t, w.Body.String(), string(hash))

	w = postJSON(r, "/login", `{"identifier":"ann","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, w.Body.String())
	assert.Nil(t, sessionCookie(w, "token"))

	w = postJSON(r, "/login", `{"identifier":"nobody","password":"hunter2hunter2"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogoutHandler(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := Sessions{Secret: "test-secret", Cookie: "token", TTL: time.Hour, Revoker: auth.NewRedisRevocations(rdb)}

	r := gin.New()
	r.POST("/logout", func(c *gin.Context) {
		c.Set(middleware.PrincipalKey, auth.Principal{UserID: 3, SessionID: "sess-1", ExpiresAt: time.Now().Add(time.Hour)})
		c.Next()
	}, LogoutHandler(s))

	w := postJSON(r, "/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(w, "token")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0, "cookie must be expired")
	assert.True(t, mr.Exists(utils.RevokedPrefix+"sess-1"))
}

func TestLogoutHandler_NoSession(t *testing.T) {
	_, rdb := newTestRedis(t)
	r := gin.New()
	r.POST("/logout", LogoutHandler(Sessions{Cookie: "token", Revoker: auth.NewRedisRevocations(rdb)}))

	w := postJSON(r, "/logout", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
