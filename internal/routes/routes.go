package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/boxento/boxento-server/internal/config"
	"github.com/boxento/boxento-server/internal/controllers"
	"github.com/boxento/boxento-server/internal/middleware"
	"github.com/boxento/boxento-server/internal/ws"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, logger *zap.Logger, hub *ws.DashboardHub) {
	// The proxy contract distinguishes wrong-method from not-found.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	// Public proxy surface. Stateless; mounted at the root to mirror the
	// serverless function paths the widgets call.
	proxy := controllers.NewProxyController(cfg, logger)
	r.GET("/mindicadorProxy", proxy.Mindicador)
	r.GET("/flightProxy", proxy.Flight)
	r.GET("/currencyProxy", proxy.Currency)
	r.GET("/rssProxy", proxy.RSS)

	oauth := controllers.NewOAuthProxyController(cfg, logger)
	r.POST("/oauthExchange", oauth.Exchange)
	r.POST("/oauthRefresh", oauth.Refresh)

	// Controllers
	accessTTL, err := time.ParseDuration(cfg.AccessTokenTTLMinutes + "m")
	if err != nil || accessTTL == 0 {
		accessTTL = 60 * time.Minute
	}
	refreshDays, err := strconv.Atoi(cfg.RefreshTokenTTLDays)
	if err != nil || refreshDays <= 0 {
		refreshDays = 30
	}
	refreshTTL := time.Duration(refreshDays) * 24 * time.Hour

	authCtrl := &controllers.AuthController{
		DB:            db,
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshJWTSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}

	// Public auth
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
		auth.POST("/refresh", authCtrl.Refresh)
	}

	// Protected
	authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{JWTSecret: cfg.JWTSecret})
	api := r.Group("/api/v1", authMW)
	{
		api.GET("/auth/me", authCtrl.Me)
		api.POST("/auth/logout", authCtrl.Logout)

		dashCtrl := &controllers.DashboardController{DB: db, Log: logger, Hub: hub}
		confCtrl := &controllers.WidgetConfigController{DB: db, Log: logger, Hub: hub}

		dash := api.Group("/dashboard")
		{
			dash.GET("/layouts", dashCtrl.GetLayouts)
			dash.PUT("/layouts", dashCtrl.PutLayouts)

			dash.GET("/widgets", dashCtrl.ListWidgets)
			dash.POST("/widgets", dashCtrl.CreateWidget)
			dash.DELETE("/widgets/:widget_id", dashCtrl.DeleteWidget)

			dash.GET("/widgets/:widget_id/config", confCtrl.GetConfig)
			dash.PUT("/widgets/:widget_id/config", confCtrl.PutConfig)

			dash.GET("/ws", ws.DashboardHandler(hub))
		}
	}
}
