package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/boxento/boxento-server/internal/middleware"
)

func newAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := &AuthController{
		DB:            db,
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}
	r := gin.New()
	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)
	r.POST("/refresh", auth.Refresh)

	protected := middleware.AuthMiddleware(db, middleware.AuthConfig{JWTSecret: "test-access-secret"})
	r.GET("/me", protected, auth.Me)
	r.POST("/logout", protected, auth.Logout)
	return r
}

func registerAndLogin(t *testing.T, r *gin.Engine, email string) (access, refresh string) {
	t.Helper()
	reg := perform(r, http.MethodPost, "/register",
		fmt.Sprintf(`{"full_name":"Test User","email":%q,"password":"hunter22"}`, email), nil)
	require.Equal(t, http.StatusCreated, reg.Code)

	login := perform(r, http.MethodPost, "/login",
		fmt.Sprintf(`{"email":%q,"password":"hunter22"}`, email), nil)
	require.Equal(t, http.StatusOK, login.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))
	access, _ = resp["access_token"].(string)
	refresh, _ = resp["refresh_token"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}

func TestRegisterLoginAndMe(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	access, _ := registerAndLogin(t, r, "me@example.com")

	me := perform(r, http.MethodGet, "/me", "", map[string]string{
		"Authorization": "Bearer " + access,
	})
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "me@example.com")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)
	registerAndLogin(t, r, "wrongpw@example.com")

	w := perform(r, http.MethodPost, "/login",
		`{"email":"wrongpw@example.com","password":"not-the-password"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeRejectsMissingToken(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	w := perform(r, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)
	_, refresh := registerAndLogin(t, r, "rotate@example.com")

	first := perform(r, http.MethodPost, "/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refresh), nil)
	require.Equal(t, http.StatusOK, first.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))
	rotated, _ := resp["refresh_token"].(string)
	require.NotEmpty(t, rotated)
	assert.NotEqual(t, refresh, rotated)

	// The original token was revoked during rotation.
	reuse := perform(r, http.MethodPost, "/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refresh), nil)
	assert.Equal(t, http.StatusUnauthorized, reuse.Code)

	// The rotated token still works.
	second := perform(r, http.MethodPost, "/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, rotated), nil)
	assert.Equal(t, http.StatusOK, second.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)
	access, refresh := registerAndLogin(t, r, "logout@example.com")

	out := perform(r, http.MethodPost, "/logout",
		fmt.Sprintf(`{"refresh_token":%q}`, refresh),
		map[string]string{"Authorization": "Bearer " + access})
	require.Equal(t, http.StatusOK, out.Code)

	w := perform(r, http.MethodPost, "/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refresh), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
