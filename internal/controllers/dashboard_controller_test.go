package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/boxento/boxento-server/internal/dashboard"
	"github.com/boxento/boxento-server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Widget{},
		&models.DashboardLayout{},
		&models.WidgetConfig{},
	))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		UserID:   uuid.NewString(),
		FullName: "Test User",
		Email:    uuid.NewString() + "@example.com",
		Active:   true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// newDashboardRouter mounts the dashboard handlers behind a stub that
// injects the authenticated user, mirroring what the auth middleware does.
func newDashboardRouter(db *gorm.DB, user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user", user) })

	dashCtrl := &DashboardController{DB: db, Log: zap.NewNop()}
	confCtrl := &WidgetConfigController{DB: db, Log: zap.NewNop()}
	r.GET("/layouts", dashCtrl.GetLayouts)
	r.PUT("/layouts", dashCtrl.PutLayouts)
	r.GET("/widgets", dashCtrl.ListWidgets)
	r.POST("/widgets", dashCtrl.CreateWidget)
	r.DELETE("/widgets/:widget_id", dashCtrl.DeleteWidget)
	r.GET("/widgets/:widget_id/config", confCtrl.GetConfig)
	r.PUT("/widgets/:widget_id/config", confCtrl.PutConfig)
	return r
}

func perform(r *gin.Engine, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedWidget(t *testing.T, db *gorm.DB, userID, widgetID, typ string, pos int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Widget{
		UserIDRef: userID, WidgetID: widgetID, Type: typ, Position: pos,
	}).Error)
}

func layoutsFrom(t *testing.T, body []byte) dashboard.LayoutSet {
	t.Helper()
	var resp struct {
		Layouts dashboard.LayoutSet `json:"layouts"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Layouts
}

func storedLayoutSet(t *testing.T, db *gorm.DB, userID string) dashboard.LayoutSet {
	t.Helper()
	var rec models.DashboardLayout
	require.NoError(t, db.Where("user_id_ref = ?", userID).First(&rec).Error)
	set := dashboard.LayoutSet{}
	require.NoError(t, json.Unmarshal(rec.Layouts, &set))
	return set
}

func TestGetLayoutsSynthesizesAndPersists(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	seedWidget(t, db, user.UserID, "clock-11111111", "clock", 0)
	seedWidget(t, db, user.UserID, "rss-22222222", "rss", 1)
	r := newDashboardRouter(db, user)

	w := perform(r, http.MethodGet, "/layouts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))
	assert.NotContains(t, w.Body.String(), "persist_error")

	set := layoutsFrom(t, w.Body.Bytes())
	require.Len(t, set, len(dashboard.Breakpoints))
	for _, bp := range dashboard.Breakpoints {
		require.Len(t, set[bp], 2, "breakpoint %s", bp)
	}

	// The corrected set is persisted before responding.
	stored := storedLayoutSet(t, db, user.UserID)
	assert.Equal(t, set, stored)

	// A second load finds nothing to correct and issues the same tag.
	again := perform(r, http.MethodGet, "/layouts", "", nil)
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, w.Header().Get("ETag"), again.Header().Get("ETag"))
}

func TestGetLayoutsSurfacesPersistFailureAndStillReturnsSet(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	seedWidget(t, db, user.UserID, "clock-11111111", "clock", 0)

	refuseLayoutWrites := func(tx *gorm.DB) {
		if tx.Statement != nil && tx.Statement.Table == "dashboard_layouts" {
			tx.AddError(errors.New("write refused"))
		}
	}
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("refuse_layout_create", refuseLayoutWrites))
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("refuse_layout_update", refuseLayoutWrites))

	r := newDashboardRouter(db, user)
	w := perform(r, http.MethodGet, "/layouts", "", nil)

	// The failure is reported, but the corrected set still comes back so
	// the UI can proceed optimistically.
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "persist_error")

	set := layoutsFrom(t, w.Body.Bytes())
	require.Len(t, set, len(dashboard.Breakpoints))
	for _, bp := range dashboard.Breakpoints {
		require.Len(t, set[bp], 1, "breakpoint %s", bp)
	}
}

func TestPutLayoutsMatchesTagAfterStoreReserialization(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	seedWidget(t, db, user.UserID, "clock-11111111", "clock", 0)
	r := newDashboardRouter(db, user)

	got := perform(r, http.MethodGet, "/layouts", "", nil)
	require.Equal(t, http.StatusOK, got.Code)
	tag := got.Header().Get("ETag")
	require.NotEmpty(t, tag)

	// The document store keeps the parsed document, not our bytes: rewrite
	// the stored row in an equivalent but differently serialized form.
	var rec models.DashboardLayout
	require.NoError(t, db.Where("user_id_ref = ?", user.UserID).First(&rec).Error)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Layouts, &doc))
	reserialized, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)
	require.NotEqual(t, string(rec.Layouts), string(reserialized))
	require.NoError(t, db.Model(&rec).Update("layouts", reserialized).Error)

	body, err := json.Marshal(layoutsFrom(t, got.Body.Bytes()))
	require.NoError(t, err)

	// A stale tag is rejected...
	stale := perform(r, http.MethodPut, "/layouts", string(body),
		map[string]string{"If-Match": `"` + strings.Repeat("0", 64) + `"`})
	assert.Equal(t, http.StatusConflict, stale.Code)

	// ...while the tag we issued still matches despite the byte change.
	ok := perform(r, http.MethodPut, "/layouts", string(body),
		map[string]string{"If-Match": tag})
	assert.Equal(t, http.StatusOK, ok.Code)
}

func TestCreateWidgetPopulatesAllThreeStores(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	r := newDashboardRouter(db, user)

	w := perform(r, http.MethodPost, "/widgets", `{"type":"clock"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID       string              `json:"id"`
		Type     string              `json:"type"`
		Position int                 `json:"position"`
		Layouts  dashboard.LayoutSet `json:"layouts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.ID, "clock-"))
	assert.Equal(t, 0, resp.Position)

	var confCount int64
	require.NoError(t, db.Model(&models.WidgetConfig{}).
		Where("user_id_ref = ? AND widget_id = ?", user.UserID, resp.ID).Count(&confCount).Error)
	assert.EqualValues(t, 1, confCount)

	stored := storedLayoutSet(t, db, user.UserID)
	for _, bp := range dashboard.Breakpoints {
		require.Len(t, stored[bp], 1, "breakpoint %s", bp)
		assert.Equal(t, resp.ID, stored[bp][0].ID, "breakpoint %s", bp)
	}
}

func TestCreateWidgetRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	r := newDashboardRouter(db, user)

	w := perform(r, http.MethodPost, "/widgets", `{"type":"crypto-miner"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown widget type")
}

func TestDeleteWidgetPropagatesToAllThreeStores(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	seedWidget(t, db, user.UserID, "clock-11111111", "clock", 0)
	require.NoError(t, db.Create(&models.WidgetConfig{
		UserIDRef: user.UserID, WidgetID: "clock-11111111", Config: []byte(`{"face":"analog"}`),
	}).Error)
	r := newDashboardRouter(db, user)

	// Materialize the layout document first.
	require.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/layouts", "", nil).Code)

	w := perform(r, http.MethodDelete, "/widgets/clock-11111111", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var widgetCount, confCount int64
	require.NoError(t, db.Model(&models.Widget{}).Where("user_id_ref = ?", user.UserID).Count(&widgetCount).Error)
	require.NoError(t, db.Model(&models.WidgetConfig{}).Where("user_id_ref = ?", user.UserID).Count(&confCount).Error)
	assert.EqualValues(t, 0, widgetCount)
	assert.EqualValues(t, 0, confCount)

	stored := storedLayoutSet(t, db, user.UserID)
	for _, bp := range dashboard.Breakpoints {
		assert.Empty(t, stored[bp], "breakpoint %s", bp)
	}

	again := perform(r, http.MethodDelete, "/widgets/clock-11111111", "", nil)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestListWidgetsOrdersByPosition(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	seedWidget(t, db, user.UserID, "rss-22222222", "rss", 1)
	seedWidget(t, db, user.UserID, "clock-11111111", "clock", 0)
	r := newDashboardRouter(db, user)

	w := perform(r, http.MethodGet, "/widgets", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Widgets []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"widgets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Widgets, 2)
	assert.Equal(t, "clock-11111111", resp.Widgets[0].ID)
	assert.Equal(t, "rss-22222222", resp.Widgets[1].ID)
}
