package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Flight relays live flight data from aviationstack, attaching the
// server-held access key. Live data caches for two minutes.
func (p *ProxyController) Flight(c *gin.Context) {
	iata := c.Query("flight_iata")
	icao := c.Query("flight_icao")
	if iata == "" && icao == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flight number (flight_iata or flight_icao) is required"})
		return
	}
	if p.Cfg.AviationstackKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "flight data credentials not configured"})
		return
	}

	q := url.Values{}
	q.Set("access_key", p.Cfg.AviationstackKey)
	if iata != "" {
		q.Set("flight_iata", iata)
	}
	if icao != "" {
		q.Set("flight_icao", icao)
	}
	if fd := c.Query("flight_date"); fd != "" {
		q.Set("flight_date", fd)
	}

	body, _, err := p.fetch(c, p.Cfg.AviationstackBaseURL+"/v1/flights?"+q.Encode())
	if err != nil {
		p.Log.Warn("flight proxy failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flight data"})
		return
	}
	c.Header("Cache-Control", "public, max-age=120")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
