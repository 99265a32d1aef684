package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-user-api/internal/core/config"
	"go-user-api/internal/transport/http/handler"
	mdw "go-user-api/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, cfg *config.Config, userH *handler.UserHandler) *gin.Engine {
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	rateMW := mdw.RateLimit(rate.Limit(cfg.Limits.RateRPS), cfg.Limits.RateBurst)
	if cfg.Limits.RatePerIP {
		rateMW = mdw.RateLimitPerIP(rate.Limit(cfg.Limits.RateRPS), cfg.Limits.RateBurst)
	}

	// 中间件：Errors 必须排最后（最贴近 handler）才能接住 c.Error
	r.Use(
		mdw.RequestID(),
		rateMW,
		mdw.ConcurrencyLimit(cfg.Limits.MaxConcurrent),
		mdw.MaxBodyBytes(cfg.Limits.MaxBodyBytes),
		mdw.Timeout(time.Duration(cfg.Limits.RequestTimeoutSec)*time.Second),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
		mdw.Errors(l),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	users := api.Group("/users")
	users.GET("", userH.List)
	users.POST("", userH.Create)
	users.GET("/:id", userH.Get)
	users.PATCH("/:id", userH.Update)
	users.DELETE("/:id", userH.Delete)

	return r
}
