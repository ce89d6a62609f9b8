package controllers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/boxento/boxento-server/internal/config"
)

// OAuthProxyController brokers the Spotify authorization-code flow so the
// client secret never reaches the browser.
type OAuthProxyController struct {
	Cfg    *config.Config
	Log    *zap.Logger
	Client *http.Client
}

func NewOAuthProxyController(cfg *config.Config, logger *zap.Logger) *OAuthProxyController {
	timeout, err := strconv.Atoi(cfg.ProxyTimeoutSeconds)
	if err != nil || timeout <= 0 {
		timeout = 10
	}
	return &OAuthProxyController{
		Cfg:    cfg,
		Log:    logger,
		Client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

type exchangeRequest struct {
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirectUri" binding:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Exchange swaps an authorization code for an access/refresh token pair.
func (o *OAuthProxyController) Exchange(c *gin.Context) {
	if o.Cfg.SpotifyClientID == "" || o.Cfg.SpotifyClientSecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "oauth credentials not configured"})
		return
	}
	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", req.Code)
	form.Set("redirect_uri", req.RedirectURI)
	o.relayTokenRequest(c, form)
}

// Refresh trades a refresh token for a fresh access token.
func (o *OAuthProxyController) Refresh(c *gin.Context) {
	if o.Cfg.SpotifyClientID == "" || o.Cfg.SpotifyClientSecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "oauth credentials not configured"})
		return
	}
	var req refreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", req.RefreshToken)
	o.relayTokenRequest(c, form)
}

func (o *OAuthProxyController) relayTokenRequest(c *gin.Context, form url.Values) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, o.Cfg.SpotifyTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token exchange failed"})
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(o.Cfg.SpotifyClientID, o.Cfg.SpotifyClientSecret)

	resp, err := o.Client.Do(req)
	if err != nil {
		o.Log.Warn("oauth token request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token exchange failed"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err == nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		err = fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	if err != nil {
		o.Log.Warn("oauth token request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token exchange failed"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
