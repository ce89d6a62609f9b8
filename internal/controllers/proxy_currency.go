package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Currency relays exchange rates from frankfurter, reshaped to a stable
// base/date/rates field set. Rates update daily; responses cache an hour.
func (p *ProxyController) Currency(c *gin.Context) {
	base := c.Query("base")
	if base == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Base currency is required"})
		return
	}

	q := url.Values{}
	q.Set("base", base)
	if symbols := c.Query("symbols"); symbols != "" {
		q.Set("symbols", symbols)
	}

	body, _, err := p.fetch(c, p.Cfg.FrankfurterBaseURL+"/latest?"+q.Encode())
	if err != nil {
		p.Log.Warn("currency proxy failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exchange rates"})
		return
	}

	var upstream struct {
		Base  string             `json:"base"`
		Date  string             `json:"date"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &upstream); err != nil {
		p.Log.Warn("currency proxy got malformed upstream body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exchange rates"})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, gin.H{
		"base":  upstream.Base,
		"date":  upstream.Date,
		"rates": upstream.Rates,
	})
}
