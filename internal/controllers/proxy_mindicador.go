package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Mindicador relays Chilean economic indicators from mindicador.cl. The
// upstream updates daily, so responses cache for five minutes.
func (p *ProxyController) Mindicador(c *gin.Context) {
	body, _, err := p.fetch(c, p.Cfg.MindicadorBaseURL+"/api")
	if err != nil {
		p.Log.Warn("mindicador proxy failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch economic indicators"})
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
