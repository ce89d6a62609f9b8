package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/boxento/boxento-server/internal/config"
)

// ProxyController holds the stateless forwarders that relay widget requests
// to third-party APIs, injecting server-held secrets where the upstream
// requires one. One upstream call per request; no retries, no local state.
type ProxyController struct {
	Cfg    *config.Config
	Log    *zap.Logger
	Client *http.Client
}

func NewProxyController(cfg *config.Config, logger *zap.Logger) *ProxyController {
	timeout, err := strconv.Atoi(cfg.ProxyTimeoutSeconds)
	if err != nil || timeout <= 0 {
		timeout = 10
	}
	return &ProxyController{
		Cfg:    cfg,
		Log:    logger,
		Client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// fetch performs the single upstream GET. A non-2xx status is an error; the
// upstream body and content type are returned on success.
func (p *ProxyController) fetch(c *gin.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
