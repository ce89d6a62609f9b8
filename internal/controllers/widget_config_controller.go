package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/boxento/boxento-server/internal/models"
	"github.com/boxento/boxento-server/internal/ws"
)

type WidgetConfigController struct {
	DB  *gorm.DB
	Log *zap.Logger
	Hub *ws.DashboardHub
}

// GetConfig serves the widget's settings document raw; an absent document
// reads as an empty object.
func (w *WidgetConfigController) GetConfig(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	widgetID := c.Param("widget_id")

	var rec models.WidgetConfig
	err := w.DB.Where("user_id_ref = ? AND widget_id = ?", user.UserID, widgetID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(rec.Config) == 0) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(`{}`))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load widget config"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", rec.Config)
}

// PutConfig replaces the widget's settings document. The widget must exist
// in the widget list; settings themselves are free-form.
func (w *WidgetConfigController) PutConfig(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	widgetID := c.Param("widget_id")

	var count int64
	if err := w.DB.Model(&models.Widget{}).
		Where("user_id_ref = ? AND widget_id = ?", user.UserID, widgetID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load widget list"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "widget not found"})
		return
	}

	var settings map[string]interface{}
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode widget config"})
		return
	}

	var rec models.WidgetConfig
	err = w.DB.Where("user_id_ref = ? AND widget_id = ?", user.UserID, widgetID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = models.WidgetConfig{UserIDRef: user.UserID, WidgetID: widgetID, Config: raw}
		err = w.DB.Create(&rec).Error
	} else if err == nil {
		err = w.DB.Model(&rec).Update("config", raw).Error
	}
	if err != nil {
		w.Log.Error("failed to save widget config", zap.String("widget_id", widgetID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save widget config"})
		return
	}

	w.Hub.Broadcast(user.UserID, ws.Event{Event: "config.updated", Payload: gin.H{"id": widgetID}})
	c.JSON(http.StatusOK, gin.H{"message": "config saved", "id": widgetID})
}
