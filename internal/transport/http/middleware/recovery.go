package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-user-api/internal/apperr"
	resp "go-user-api/internal/transport/http/response"
)

// Recovery panic 走和未知错误同一条 500 通道，细节只进日志
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid := c.GetString(KeyRequestID)
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("url", c.Request.URL.String()),
					zap.String("request_id", rid),
					zap.Stack("stack"),
				)
				internal := apperr.Internal(fmt.Errorf("panic: %v", rec))
				c.AbortWithStatusJSON(internal.Status, resp.Error(internal, rid))
			}
		}()
		c.Next()
	}
}
