package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/boxento/boxento-server/internal/dashboard"
	"github.com/boxento/boxento-server/internal/models"
	"github.com/boxento/boxento-server/internal/utils"
	"github.com/boxento/boxento-server/internal/ws"
)

type DashboardController struct {
	DB  *gorm.DB
	Log *zap.Logger
	Hub *ws.DashboardHub
}

func currentUser(c *gin.Context) (models.User, bool) {
	if uVal, ok := c.Get("user"); ok {
		return uVal.(models.User), true
	}
	return models.User{}, false
}

// GetLayouts returns the user's reconciled LayoutSet. Corrections are
// persisted before responding; a persistence failure is reported in the
// response while the corrected set is still returned so the UI can proceed.
func (d *DashboardController) GetLayouts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	widgets, err := d.loadWidgetRefs(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load widget list"})
		return
	}
	set, _, err := d.loadLayoutSet(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load layouts"})
		return
	}

	corrected, changed := dashboard.Reconcile(widgets, set)

	resp := gin.H{"layouts": corrected}
	raw, merr := json.Marshal(corrected)
	if merr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode layouts"})
		return
	}
	if changed {
		if err := d.saveLayoutDoc(user.UserID, raw); err != nil {
			d.Log.Error("failed to persist reconciled layouts",
				zap.String("user_id", user.UserID), zap.Error(err))
			resp["persist_error"] = "failed to persist reconciled layouts"
		}
	}

	c.Header("ETag", etag(raw))
	c.JSON(http.StatusOK, resp)
}

// PutLayouts saves a full LayoutSet. The input is clamped to the size
// invariants and reconciled against the widget list, so orphans never reach
// the store. If-Match is optional optimistic concurrency: a stale tag gets a
// 409 instead of silently overwriting another tab's save.
func (d *DashboardController) PutLayouts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var set dashboard.LayoutSet
	if err := c.ShouldBindJSON(&set); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	widgets, err := d.loadWidgetRefs(user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load widget list"})
		return
	}

	if im := c.GetHeader("If-Match"); im != "" {
		storedSet, storedRaw, err := d.loadLayoutSet(user.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load layouts"})
			return
		}
		// Compare canonical forms: the jsonb column re-serializes the
		// document, so the stored bytes never match the tag we issued.
		if storedRaw != nil {
			canonical, err := json.Marshal(storedSet)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode layouts"})
				return
			}
			if strings.Trim(im, `"`) != strings.Trim(etag(canonical), `"`) {
				c.JSON(http.StatusConflict, gin.H{"error": "layouts changed since last read"})
				return
			}
		}
	}

	corrected, _ := dashboard.Reconcile(widgets, dashboard.ClampSet(set))
	raw, merr := json.Marshal(corrected)
	if merr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode layouts"})
		return
	}
	if err := d.saveLayoutDoc(user.UserID, raw); err != nil {
		d.Log.Error("failed to save layouts", zap.String("user_id", user.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save layouts"})
		return
	}

	d.Hub.Broadcast(user.UserID, ws.Event{Event: "layouts.updated", Payload: corrected})
	c.Header("ETag", etag(raw))
	c.JSON(http.StatusOK, gin.H{"layouts": corrected})
}

func (d *DashboardController) ListWidgets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var widgets []models.Widget
	if err := d.DB.Where("user_id_ref = ?", user.UserID).Order("position asc").Find(&widgets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load widget list"})
		return
	}

	out := make([]gin.H, 0, len(widgets))
	for _, w := range widgets {
		out = append(out, gin.H{"id": w.WidgetID, "type": w.Type, "position": w.Position})
	}
	c.JSON(http.StatusOK, gin.H{"widgets": out})
}

type createWidgetRequest struct {
	Type string `json:"type" binding:"required"`
}

// CreateWidget appends a widget to the list, synthesizes its placement in
// every breakpoint, and creates an empty config document.
func (d *DashboardController) CreateWidget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !dashboard.KnownType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown widget type"})
		return
	}

	var count int64
	if err := d.DB.Model(&models.Widget{}).Where("user_id_ref = ?", user.UserID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load widget list"})
		return
	}

	widget := models.Widget{
		UserIDRef: user.UserID,
		WidgetID:  req.Type + "-" + uuid.NewString()[:8],
		Type:      req.Type,
		Position:  int(count),
	}
	if err := d.DB.Create(&widget).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create widget"})
		return
	}

	// Config and layout writes are best-effort after the list write; a torn
	// state self-heals on the next layout load.
	conf := models.WidgetConfig{UserIDRef: user.UserID, WidgetID: widget.WidgetID, Config: []byte(`{}`)}
	if err := d.DB.Create(&conf).Error; err != nil {
		d.Log.Error("failed to create widget config", zap.String("widget_id", widget.WidgetID), zap.Error(err))
	}

	corrected := d.repairLayouts(user.UserID)

	d.Hub.Broadcast(user.UserID, ws.Event{Event: "widget.added", Payload: gin.H{
		"id": widget.WidgetID, "type": widget.Type, "position": widget.Position,
	}})
	c.JSON(http.StatusCreated, gin.H{
		"id":       widget.WidgetID,
		"type":     widget.Type,
		"position": widget.Position,
		"layouts":  corrected,
	})
}

// DeleteWidget removes the list entry, prunes every breakpoint, and deletes
// the config document. The three writes are best-effort, not transactional.
func (d *DashboardController) DeleteWidget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	widgetID := c.Param("widget_id")

	res := d.DB.Where("user_id_ref = ? AND widget_id = ?", user.UserID, widgetID).Delete(&models.Widget{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete widget"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "widget not found"})
		return
	}

	if err := d.DB.Where("user_id_ref = ? AND widget_id = ?", user.UserID, widgetID).Delete(&models.WidgetConfig{}).Error; err != nil {
		d.Log.Error("failed to delete widget config", zap.String("widget_id", widgetID), zap.Error(err))
	}
	d.repairLayouts(user.UserID)

	d.Hub.Broadcast(user.UserID, ws.Event{Event: "widget.removed", Payload: gin.H{"id": widgetID}})
	c.JSON(http.StatusOK, gin.H{"message": "widget removed", "id": widgetID})
}

// repairLayouts reconciles and persists the layout document after a widget
// list mutation. Failures are logged, not fatal: the next GetLayouts heals.
func (d *DashboardController) repairLayouts(userID string) dashboard.LayoutSet {
	widgets, err := d.loadWidgetRefs(userID)
	if err != nil {
		d.Log.Error("failed to reload widget list", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	set, _, err := d.loadLayoutSet(userID)
	if err != nil {
		d.Log.Error("failed to load layouts", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	corrected, changed := dashboard.Reconcile(widgets, set)
	if changed {
		raw, err := json.Marshal(corrected)
		if err == nil {
			err = d.saveLayoutDoc(userID, raw)
		}
		if err != nil {
			d.Log.Error("failed to persist reconciled layouts", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return corrected
}

func (d *DashboardController) loadWidgetRefs(userID string) ([]dashboard.WidgetRef, error) {
	var widgets []models.Widget
	if err := d.DB.Where("user_id_ref = ?", userID).Order("position asc").Find(&widgets).Error; err != nil {
		return nil, err
	}
	refs := make([]dashboard.WidgetRef, len(widgets))
	for i, w := range widgets {
		refs[i] = dashboard.WidgetRef{ID: w.WidgetID, Type: w.Type}
	}
	return refs, nil
}

// loadLayoutSet returns the stored LayoutSet and its raw document bytes;
// an absent document yields an empty set and nil bytes.
func (d *DashboardController) loadLayoutSet(userID string) (dashboard.LayoutSet, []byte, error) {
	var rec models.DashboardLayout
	err := d.DB.Where("user_id_ref = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dashboard.LayoutSet{}, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	set := dashboard.LayoutSet{}
	if len(rec.Layouts) > 0 {
		if err := json.Unmarshal(rec.Layouts, &set); err != nil {
			return nil, nil, err
		}
	}
	return set, []byte(rec.Layouts), nil
}

func (d *DashboardController) saveLayoutDoc(userID string, raw []byte) error {
	var rec models.DashboardLayout
	err := d.DB.Where("user_id_ref = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = models.DashboardLayout{UserIDRef: userID, Layouts: raw}
		return d.DB.Create(&rec).Error
	}
	if err != nil {
		return err
	}
	return d.DB.Model(&rec).Update("layouts", raw).Error
}

func etag(raw []byte) string {
	return `"` + utils.SHA256Hex(string(raw)) + `"`
}
